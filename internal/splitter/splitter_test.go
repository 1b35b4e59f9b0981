package splitter

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"collapses runs", "a  b\t\tc\n\nd", "a b c d"},
		{"trims", "  padded  ", "padded"},
		{"strips nul", "a\x00b", "ab"},
		{"strips control", "a\x07\x1bb c", "ab c"},
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplit_slidingWindow(t *testing.T) {
	// "A B C D E F" is 11 characters; size 3, overlap 1 gives step 2.
	got := Split("A B C D E F", 3, 1)
	want := []string{"A B", "B C", "C D", "D E", "E F"}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplit_coverage(t *testing.T) {
	// Every character of the cleaned text must appear in some chunk, and
	// consecutive chunks must overlap by exactly size-step characters.
	text := strings.Repeat("abcdefghij ", 20)
	cleaned := Clean(text)
	for _, tc := range []struct{ size, overlap int }{
		{10, 0}, {10, 3}, {50, 10}, {7, 6}, {1000, 200},
	} {
		chunks := Split(text, tc.size, tc.overlap)
		if len(chunks) == 0 {
			t.Fatalf("size=%d overlap=%d: no chunks", tc.size, tc.overlap)
		}
		step := tc.size - tc.overlap
		if step < 1 {
			step = 1
		}
		// Chunk i starts at offset i*step, so every window must match the
		// cleaned text at its offset and the last one must reach the end.
		covered := 0
		for i, ch := range chunks {
			if len(ch) > tc.size {
				t.Errorf("size=%d overlap=%d: chunk %d longer than size: %d", tc.size, tc.overlap, i, len(ch))
			}
			start := i * step
			if cleaned[start:start+len(ch)] != ch {
				t.Fatalf("size=%d overlap=%d: chunk %d does not match text at offset %d", tc.size, tc.overlap, i, start)
			}
			covered = start + len(ch)
		}
		if covered < len(cleaned) {
			t.Errorf("size=%d overlap=%d: covered %d of %d characters", tc.size, tc.overlap, covered, len(cleaned))
		}
		last := chunks[len(chunks)-1]
		if !strings.HasSuffix(cleaned, last) {
			t.Errorf("size=%d overlap=%d: last chunk %q is not a suffix of the cleaned text", tc.size, tc.overlap, last)
		}
	}
}

func TestSplit_edgeCases(t *testing.T) {
	t.Run("non-positive size returns whole text", func(t *testing.T) {
		got := Split("anything at all", 0, 5)
		if len(got) != 1 || got[0] != "anything at all" {
			t.Errorf("got %v", got)
		}
	})
	t.Run("empty text returns nil", func(t *testing.T) {
		if got := Split("   ", 10, 2); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
	t.Run("text shorter than size is one chunk", func(t *testing.T) {
		got := Split("short", 100, 10)
		if len(got) != 1 || got[0] != "short" {
			t.Errorf("got %v", got)
		}
	})
	t.Run("overlap >= size still advances", func(t *testing.T) {
		got := Split("abcdef", 2, 5)
		want := []string{"ab", "bc", "cd", "de", "ef"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"one two three", 3},
		{"single", 1},
		{"", 1},
		{"   ", 1},
		{"a  b", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
