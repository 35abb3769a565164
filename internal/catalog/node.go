// Package catalog loads the hierarchical service-definition tree and derives
// the immutable per-generation structures the routing engine serves from.
package catalog

// Kind identifies what a catalog node represents.
type Kind string

const (
	KindMenu     Kind = "menu"
	KindMessage  Kind = "message"
	KindOption   Kind = "option"
	KindCarousel Kind = "carousel"
	KindCard     Kind = "card"
	KindInput    Kind = "input"
)

// Valid reports whether k is a known node kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMenu, KindMessage, KindOption, KindCarousel, KindCard, KindInput:
		return true
	}
	return false
}

// documentLabel describes the origin of a document extracted from a node of
// this kind.
func (k Kind) documentLabel() string {
	switch k {
	case KindMessage:
		return "message"
	case KindOption:
		return "option"
	case KindCard:
		return "card-title"
	case KindCarousel:
		return "carousel-title"
	case KindInput:
		return "prompt"
	default:
		return "menu"
	}
}

// LocalizedText holds one text field per supported script variant.
type LocalizedText struct {
	EN       string `yaml:"en"`
	BN       string `yaml:"bn"`
	Banglish string `yaml:"banglish"`
}

// Values returns the non-empty variants in a fixed order (en, bn, banglish).
func (t LocalizedText) Values() []string {
	var out []string
	for _, v := range []string{t.EN, t.BN, t.Banglish} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// KeywordSet holds trigger keywords per script variant. There is no
// transliteration anywhere in the pipeline: a trigger that should match in
// all three variants must list keywords in all three.
type KeywordSet struct {
	EN       []string `yaml:"en"`
	BN       []string `yaml:"bn"`
	Banglish []string `yaml:"banglish"`
}

// All returns the union of keywords across variants, in source order.
func (k KeywordSet) All() []string {
	out := make([]string, 0, len(k.EN)+len(k.BN)+len(k.Banglish))
	out = append(out, k.EN...)
	out = append(out, k.BN...)
	out = append(out, k.Banglish...)
	return out
}

// Node is one node of the source service-definition tree. It is owned by the
// walker for the duration of a load; everything downstream holds derived,
// immutable copies.
type Node struct {
	ID       string        `yaml:"id"`
	Kind     Kind          `yaml:"kind"`
	Text     LocalizedText `yaml:"text"`
	Keywords KeywordSet    `yaml:"keywords"`
	Trigger  string        `yaml:"trigger"`
	Children []*Node       `yaml:"children"`
}

// Document is one extracted unit of retrievable text. Immutable once
// created; lives as long as the catalog generation it belongs to.
type Document struct {
	NodeID  string `json:"nodeId"`
	Label   string `json:"label"`
	Content string `json:"content"`
}
