package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bunkodb/bunko/internal/answer"
	"github.com/bunkodb/bunko/internal/ingest"
	"github.com/bunkodb/bunko/internal/retrieve"
)

func sampleResults() []retrieve.Result {
	return []retrieve.Result{
		{
			ChunkID:    7,
			DocumentID: 3,
			SourceID:   "docs/onboarding.md",
			Position:   0,
			Content:    "Welcome to the team",
			Score:      0.91,
		},
		{
			ChunkID:    9,
			DocumentID: 4,
			Position:   2,
			Content:    "Second match",
			Score:      0.42,
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResults(), OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded []retrieve.Result
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ChunkID != 7 || decoded[0].SourceID != "docs/onboarding.md" {
		t.Errorf("decoded results: %+v", decoded)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResults(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 results", "Score: 0.9100", "docs/onboarding.md", "Welcome to the team", "Second match"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_text_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, nil, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	if !strings.Contains(buf.String(), "No results.") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResults(), OutputFormat("unknown")); err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteCompleteness(t *testing.T) {
	var buf bytes.Buffer
	c := &retrieve.Completeness{Coverage: 0.61, Complete: true, K: 5}
	if err := WriteCompleteness(&buf, c, OutputText); err != nil {
		t.Fatalf("WriteCompleteness: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "0.6100") || !strings.Contains(out, "COMPLETE") {
		t.Errorf("unexpected output: %q", out)
	}

	buf.Reset()
	c.Complete = false
	_ = WriteCompleteness(&buf, c, OutputText)
	if !strings.Contains(buf.String(), "INCOMPLETE") {
		t.Errorf("expected INCOMPLETE verdict: %q", buf.String())
	}
}

func TestWriteAnswer(t *testing.T) {
	a := &answer.Answer{
		Answer: "The database lives under /var/lib.",
		Citations: []answer.Citation{
			{Index: 1, Source: "docs/ops.md", Snippet: "snippet", Score: 0.8},
		},
		Model: "gpt-4o-mini",
	}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, a, OutputText); err != nil {
		t.Fatalf("WriteAnswer: %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"The database lives under", "Sources:", "[1] docs/ops.md", "Model: gpt-4o-mini"} {
		if !strings.Contains(out, sub) {
			t.Errorf("answer output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	a := &answer.Answer{Answer: "hi"}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, a, OutputJSON); err != nil {
		t.Fatalf("WriteAnswer(json): %v", err)
	}
	var decoded answer.Answer
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Answer != "hi" {
		t.Errorf("decoded answer = %q", decoded.Answer)
	}
}

func TestWriteIngestResult(t *testing.T) {
	tests := []struct {
		name   string
		result *ingest.Result
		want   string
	}{
		{"ingested", &ingest.Result{Status: ingest.StatusIngested, DocumentID: 12, NumChunks: 4}, "Ingested document 12 (4 chunks)"},
		{"skipped", &ingest.Result{Status: ingest.StatusSkipped, DocumentID: 12}, "already stored as document 12"},
		{"empty", &ingest.Result{Status: ingest.StatusEmpty}, "content is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteIngestResult(&buf, tt.result, OutputText); err != nil {
				t.Fatalf("WriteIngestResult: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}
