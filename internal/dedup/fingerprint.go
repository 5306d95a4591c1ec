package dedup

import (
	"strings"
	"unicode"
)

// Fingerprint is a normalized token set derived from a record's text, used
// to detect near-duplicate findings.
type Fingerprint map[string]struct{}

// NewFingerprint normalizes text (lowercase, punctuation stripped, stop
// words removed), tokenizes on whitespace, and keeps tokens of length >= 3.
func NewFingerprint(text string, stopWords map[string]bool) Fingerprint {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}

	fp := make(Fingerprint)
	for _, token := range strings.Fields(sb.String()) {
		if len(token) < 3 || stopWords[token] {
			continue
		}
		fp[token] = struct{}{}
	}
	return fp
}

// Jaccard computes the Jaccard index of two fingerprints. Two empty sets are
// treated as identical.
func Jaccard(a, b Fingerprint) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
