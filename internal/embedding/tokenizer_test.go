package embedding

import "testing"

func TestSimpleTokenizer(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tok.Tokenize("hello world", 8)

	if len(inputIDs) != 8 || len(attentionMask) != 8 || len(tokenTypeIDs) != 8 {
		t.Fatalf("expected padded length 8, got %d/%d/%d", len(inputIDs), len(attentionMask), len(tokenTypeIDs))
	}
	if inputIDs[0] != tokenCLS {
		t.Errorf("expected CLS at position 0, got %d", inputIDs[0])
	}
	// CLS + 2 words + SEP attended
	var attended int
	for _, m := range attentionMask {
		attended += int(m)
	}
	if attended != 4 {
		t.Errorf("expected 4 attended positions, got %d", attended)
	}
	if inputIDs[3] != tokenSEP {
		t.Errorf("expected SEP after words, got %d", inputIDs[3])
	}
}

func TestSimpleTokenizer_TruncatesLongInput(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, _, _ := tok.Tokenize("a b c d e f g h i j", 4)
	if len(inputIDs) != 4 {
		t.Fatalf("expected length 4, got %d", len(inputIDs))
	}
}

func TestHashString_Deterministic(t *testing.T) {
	if HashString("chunk") != HashString("chunk") {
		t.Error("hash not deterministic")
	}
	if HashString("a") < 0 {
		t.Error("hash must be non-negative")
	}
}
