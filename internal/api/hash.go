package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// RequestHash computes the content-addressing key for a logical AI
// request. The hash depends only on the normalized prompt, the
// validator ID, and the content type (no timestamps, no random salts),
// so the same logical request always maps to the same key across
// processes and runs.
//
// Each field is length-prefixed before hashing so field boundaries
// cannot collide (e.g. ("ab","c") never hashes like ("a","bc")).
func RequestHash(prompt, validatorID, contentType string) string {
	h := sha256.New()
	for _, part := range []string{normalizePrompt(prompt), validatorID, contentType} {
		fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// normalizePrompt collapses runs of whitespace to single spaces and
// trims the ends, so formatting-only differences between otherwise
// identical prompts still replay the same recording.
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
