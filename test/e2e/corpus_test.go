package e2e

import "testing"

func TestBuildCorpus(t *testing.T) {
	c := BuildCorpus(60)
	if len(c.Documents) != 60 {
		t.Fatalf("documents = %d, want 60", len(c.Documents))
	}
	if len(c.Cases) != len(topics) {
		t.Fatalf("cases = %d, want %d", len(c.Cases), len(topics))
	}

	seen := make(map[string]bool)
	for _, d := range c.Documents {
		if d.SourceID == "" || d.Content == "" {
			t.Fatalf("incomplete document: %+v", d)
		}
		if seen[d.SourceID] {
			t.Fatalf("duplicate source ID %q", d.SourceID)
		}
		seen[d.SourceID] = true
	}
	for _, tc := range c.Cases {
		if !seen[tc.ExpectedSource] {
			t.Errorf("case %q expects unknown source %q", tc.Description, tc.ExpectedSource)
		}
	}
}

func TestBuildCorpus_smallerThanTopicSet(t *testing.T) {
	c := BuildCorpus(3)
	if len(c.Documents) != 3 || len(c.Cases) != 3 {
		t.Errorf("got %d documents, %d cases", len(c.Documents), len(c.Cases))
	}
}
