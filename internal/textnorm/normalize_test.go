package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases latin", "Check My BALANCE", "check my balance"},
		{"strips punctuation", "balance check?!", "balance check"},
		{"strips commas and periods", "recharge, please.", "recharge please"},
		{"collapses whitespace", "  package   upgrade \t korbo ", "package upgrade korbo"},
		{"bengali passes through", "ব্যালেন্স চেক", "ব্যালেন্স চেক"},
		{"strips bengali danda", "টাকা কত আছে।", "টাকা কত আছে"},
		{"mixed script", "Amar Balance কত?", "amar balance কত"},
		{"empty input", "", ""},
		{"only punctuation", "?!.,", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Check My BALANCE?",
		"প্যাকেজ আপগ্রেড করবো।",
		"  Internet   Offer ki ache?! ",
		"balance check",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalization not idempotent for %q", in)
	}
}
