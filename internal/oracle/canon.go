package oracle

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Canonicalize normalizes a prompt before hashing (§4.F, §6): drop CRs,
// collapse whitespace runs to a single space, trim the ends. Idempotent:
// Canonicalize(Canonicalize(p)) == Canonicalize(p).
func Canonicalize(prompt string) string {
	stripped := strings.ReplaceAll(prompt, "\r", "")
	var b strings.Builder
	inSpace := false
	for _, r := range stripped {
		if r == ' ' || r == '\t' || r == '\n' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Fingerprint is the hex-encoded SHA-256 of a canonical prompt (§4.F):
// 64 lowercase hex characters.
func Fingerprint(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
