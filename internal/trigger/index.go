// Package trigger implements the keyword index that maps incoming queries to
// flow trigger identifiers.
package trigger

import "strings"

// Record associates one flow trigger with its normalized keyword set.
// Keywords are the union across all script variants, in source order.
type Record struct {
	ID       string
	NodeID   string
	Keywords []string
}

// Match is one keyword hit against the index.
type Match struct {
	TriggerID string
	Keyword   string
}

type entry struct {
	keyword string
	// ids preserves trigger insertion order so that ambiguous keywords
	// resolve deterministically.
	ids []string
}

// Index maps normalized keywords to insertion-ordered trigger identifiers.
// An Index is immutable after NewIndex returns and is safe for concurrent
// lookups.
type Index struct {
	entries   []entry
	byKeyword map[string]int
	records   int
}

// NewIndex builds an index from trigger records. Records with empty keyword
// sets are counted but never matchable. A keyword claimed by multiple
// triggers keeps every claimant, first inserted first.
func NewIndex(records []Record) *Index {
	ix := &Index{byKeyword: make(map[string]int)}
	for _, rec := range records {
		ix.records++
		for _, kw := range rec.Keywords {
			if kw == "" {
				continue
			}
			pos, ok := ix.byKeyword[kw]
			if !ok {
				ix.byKeyword[kw] = len(ix.entries)
				ix.entries = append(ix.entries, entry{keyword: kw, ids: []string{rec.ID}})
				continue
			}
			if !containsID(ix.entries[pos].ids, rec.ID) {
				ix.entries[pos].ids = append(ix.entries[pos].ids, rec.ID)
			}
		}
	}
	return ix
}

// Lookup returns the winning trigger for an already-normalized query.
// A record matches when any of its keywords appears as a contiguous
// substring of the query. Ties break on the longest matching keyword, then
// on insertion order. Empty queries never match.
func (ix *Index) Lookup(query string) (Match, bool) {
	if query == "" {
		return Match{}, false
	}
	best := -1
	for i, e := range ix.entries {
		if !strings.Contains(query, e.keyword) {
			continue
		}
		if best < 0 || len(e.keyword) > len(ix.entries[best].keyword) {
			best = i
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return Match{TriggerID: ix.entries[best].ids[0], Keyword: ix.entries[best].keyword}, true
}

// Matches returns every keyword hit for the query, in index order. Useful
// for diagnostics; routing uses Lookup.
func (ix *Index) Matches(query string) []Match {
	if query == "" {
		return nil
	}
	var out []Match
	for _, e := range ix.entries {
		if !strings.Contains(query, e.keyword) {
			continue
		}
		for _, id := range e.ids {
			out = append(out, Match{TriggerID: id, Keyword: e.keyword})
		}
	}
	return out
}

// SharedKeywords returns keywords claimed by more than one trigger.
func (ix *Index) SharedKeywords() []string {
	var shared []string
	for _, e := range ix.entries {
		if len(e.ids) > 1 {
			shared = append(shared, e.keyword)
		}
	}
	return shared
}

// Keywords returns the number of distinct indexed keywords.
func (ix *Index) Keywords() int { return len(ix.entries) }

// Records returns the number of trigger records the index was built from.
func (ix *Index) Records() int { return ix.records }

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
