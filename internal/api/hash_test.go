package api

import "testing"

func TestRequestHashIdempotent(t *testing.T) {
	first := RequestHash("Assess this chapter.", "prose_quality", "chapter")
	second := RequestHash("Assess this chapter.", "prose_quality", "chapter")

	if first != second {
		t.Errorf("hash not stable: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(first))
	}
}

func TestRequestHashFieldSensitivity(t *testing.T) {
	base := RequestHash("prompt", "prose_quality", "chapter")

	variants := map[string]string{
		"prompt":       RequestHash("other prompt", "prose_quality", "chapter"),
		"validator_id": RequestHash("prompt", "structure", "chapter"),
		"content_type": RequestHash("prompt", "prose_quality", "outline"),
	}
	for field, h := range variants {
		if h == base {
			t.Errorf("changing %s did not change the hash", field)
		}
	}
}

func TestRequestHashFieldBoundaries(t *testing.T) {
	// Without length prefixes these would concatenate identically.
	a := RequestHash("ab", "c", "chapter")
	b := RequestHash("a", "bc", "chapter")
	if a == b {
		t.Error("field boundary shift produced a collision")
	}
}

func TestRequestHashNormalizesWhitespace(t *testing.T) {
	plain := RequestHash("assess   this\n\tchapter", "v", "chapter")
	spaced := RequestHash("  assess this chapter  ", "v", "chapter")

	if plain != spaced {
		t.Error("whitespace-only differences changed the hash")
	}
}
