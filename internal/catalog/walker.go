package catalog

import (
	"errors"
	"fmt"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/textnorm"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/trigger"
)

// Load-time errors. All of them abort the generation being built; none of
// them touch a generation that is already serving.
var (
	ErrNilNode     = errors.New("catalog: nil node")
	ErrMissingID   = errors.New("catalog: node without id")
	ErrInvalidKind = errors.New("catalog: invalid node kind")
	ErrCycle       = errors.New("catalog: node visited twice")
)

// Warning is a non-fatal validation finding reported alongside a successful
// walk.
type Warning struct {
	NodeID  string `json:"nodeId"`
	Message string `json:"message"`
}

// WalkResult is everything derived from one traversal of the catalog tree.
type WalkResult struct {
	Documents []Document
	Triggers  []trigger.Record
	Warnings  []Warning
}

// Walk traverses the tree depth-first in source order and extracts the
// document corpus and the trigger records.
//
// Every non-empty localized text field becomes one Document tagged with its
// node ID. A node carrying a trigger identifier contributes its keywords
// (normalized, all variants) to the record for that identifier; duplicate
// identifiers found elsewhere in the tree merge into one record, since the
// same service can be reachable from several menu paths.
//
// The source is a tree, but a malformed file could link a child back to an
// ancestor, so revisiting a node ID is treated as a load error rather than
// an infinite loop. A trigger with zero usable keywords is unreachable by
// matching and is reported as a warning, not an error.
func Walk(root *Node) (*WalkResult, error) {
	w := &walker{
		visited:   make(map[string]bool),
		byTrigger: make(map[string]int),
		result:    &WalkResult{},
	}
	if err := w.visit(root); err != nil {
		return nil, err
	}
	for _, rec := range w.result.Triggers {
		if len(rec.Keywords) == 0 {
			w.result.Warnings = append(w.result.Warnings, Warning{
				NodeID:  rec.NodeID,
				Message: fmt.Sprintf("trigger %q has no keywords and can never be matched", rec.ID),
			})
		}
	}
	return w.result, nil
}

type walker struct {
	visited   map[string]bool
	byTrigger map[string]int // trigger ID -> index into result.Triggers
	result    *WalkResult
}

func (w *walker) visit(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	if n.ID == "" {
		return ErrMissingID
	}
	if w.visited[n.ID] {
		return fmt.Errorf("node %q: %w", n.ID, ErrCycle)
	}
	w.visited[n.ID] = true

	if !n.Kind.Valid() {
		return fmt.Errorf("node %q: kind %q: %w", n.ID, n.Kind, ErrInvalidKind)
	}

	label := n.Kind.documentLabel()
	for _, text := range n.Text.Values() {
		w.result.Documents = append(w.result.Documents, Document{
			NodeID:  n.ID,
			Label:   label,
			Content: text,
		})
	}

	if n.Trigger != "" {
		w.collectTrigger(n)
	}

	for _, child := range n.Children {
		if err := w.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) collectTrigger(n *Node) {
	keywords := normalizeKeywords(n.Keywords.All())

	if pos, ok := w.byTrigger[n.Trigger]; ok {
		rec := &w.result.Triggers[pos]
		for _, kw := range keywords {
			if !containsKeyword(rec.Keywords, kw) {
				rec.Keywords = append(rec.Keywords, kw)
			}
		}
		return
	}

	w.byTrigger[n.Trigger] = len(w.result.Triggers)
	w.result.Triggers = append(w.result.Triggers, trigger.Record{
		ID:       n.Trigger,
		NodeID:   n.ID,
		Keywords: keywords,
	})
}

// normalizeKeywords canonicalizes keywords, drops ones that normalize to
// nothing, and dedupes while preserving source order.
func normalizeKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		norm := textnorm.Normalize(kw)
		if norm == "" || containsKeyword(out, norm) {
			continue
		}
		out = append(out, norm)
	}
	return out
}

func containsKeyword(keywords []string, kw string) bool {
	for _, v := range keywords {
		if v == kw {
			return true
		}
	}
	return false
}
