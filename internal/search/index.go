// Package search provides keyword search over topic titles.
//
// The index is an inverted map from normalized title token to the
// sorted ids of topics whose title contains it. It is derived from a
// store snapshot at build time and immutable afterwards; a corpus
// reload builds a fresh index alongside the fresh store.
package search

import (
	"sort"

	"github.com/mleroy/agora/internal/loader"
)

// Index answers keyword queries against topic titles.
type Index struct {
	// postings maps token to ascending topic ids.
	postings map[string][]int64
}

// Build constructs the index from the given topics.
func Build(topics []loader.Topic) *Index {
	idx := &Index{
		postings: make(map[string][]int64),
	}

	for _, topic := range topics {
		seen := make(map[string]bool)
		for _, token := range Tokenize(topic.Title) {
			// A token counts once per title.
			if seen[token] {
				continue
			}
			seen[token] = true
			idx.postings[token] = append(idx.postings[token], topic.ID)
		}
	}

	for token, ids := range idx.postings {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		idx.postings[token] = ids
	}

	return idx
}

// Search returns the ids of topics whose normalized title contains
// every query token, in any order (AND semantics). The result is a set
// ordered by ascending id; the caller applies sorting and pagination.
//
// An empty query returns no results, not the whole corpus. A token
// absent from the index empties the intersection.
func (idx *Index) Search(query string) []int64 {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	result := idx.postings[tokens[0]]
	for _, token := range tokens[1:] {
		if len(result) == 0 {
			return nil
		}
		result = intersect(result, idx.postings[token])
	}

	// Copy so callers can't alias the posting lists.
	out := make([]int64, len(result))
	copy(out, result)
	return out
}

// TokenCount returns the number of distinct indexed tokens.
func (idx *Index) TokenCount() int {
	return len(idx.postings)
}

// intersect merges two ascending id lists, keeping ids present in both.
func intersect(a, b []int64) []int64 {
	var out []int64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
