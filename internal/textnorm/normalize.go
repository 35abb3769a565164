// Package textnorm canonicalizes query and keyword text across the three
// supported script variants: English, Bengali, and Banglish (Bengali written
// in Latin script).
//
// Normalization is deliberately shallow. It never transliterates between
// scripts; the trigger index is expected to carry a keyword in every script
// variant it should match.
package textnorm

import "strings"

// punctReplacer strips marks that carry no semantic weight in catalog
// queries. U+0964 is the Bengali danda (sentence-final stop).
var punctReplacer = strings.NewReplacer(
	".", "",
	",", "",
	"?", "",
	"!", "",
	"।", "",
)

// Normalize canonicalizes text for keyword matching: strips domain
// punctuation, lowercases Latin-script runes (Bengali script is caseless and
// passes through unchanged), trims, and collapses internal whitespace runs
// to a single space.
//
// Normalize is pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = punctReplacer.Replace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
