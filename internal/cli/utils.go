// Package cli provides output formatting for the bunko command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bunkodb/bunko/internal/answer"
	"github.com/bunkodb/bunko/internal/ingest"
	"github.com/bunkodb/bunko/internal/retrieve"
	"github.com/bunkodb/bunko/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, results []retrieve.Result, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	fmt.Fprintf(w, "\nFound %d results\n\n", len(results))
	for i, result := range results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "[%d] Score: %.4f | Document: %d | Chunk: %d (pos %d)\n",
			i+1, result.Score, result.DocumentID, result.ChunkID, result.Position)
		if result.SourceID != "" {
			fmt.Fprintf(w, "Source: %s\n", result.SourceID)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Content, 300))
	}
	return nil
}

// WriteCompleteness writes a completeness check to w in the given format.
func WriteCompleteness(w io.Writer, c *retrieve.Completeness, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, c)
	}
	verdict := "INCOMPLETE"
	if c.Complete {
		verdict = "COMPLETE"
	}
	fmt.Fprintf(w, "Coverage: %.4f over top %d results: %s\n", c.Coverage, c.K, verdict)
	return nil
}

// WriteAnswer writes a question-answering result to w in the given format.
func WriteAnswer(w io.Writer, a *answer.Answer, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, a)
	}
	fmt.Fprintf(w, "%s\n", a.Answer)
	if len(a.Citations) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, c := range a.Citations {
			fmt.Fprintf(w, "  [%d] %s (score %.4f)\n", c.Index, c.Source, c.Score)
		}
	}
	if a.Model != "" {
		fmt.Fprintf(w, "\nModel: %s\n", a.Model)
	}
	return nil
}

// WriteIngestResult writes the outcome of an ingest operation to w.
func WriteIngestResult(w io.Writer, r *ingest.Result, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, r)
	}
	switch r.Status {
	case ingest.StatusIngested:
		fmt.Fprintf(w, "Ingested document %d (%d chunks)\n", r.DocumentID, r.NumChunks)
	case ingest.StatusSkipped:
		fmt.Fprintf(w, "Skipped: identical content already stored as document %d\n", r.DocumentID)
	default:
		fmt.Fprintln(w, "Nothing to ingest: content is empty")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
