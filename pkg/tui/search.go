package tui

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// filterOptions returns the indices of options matching query, best match
// first. An empty query keeps every option in script order.
func filterOptions(query string, options []string) []int {
	if query == "" {
		all := make([]int, len(options))
		for i := range options {
			all[i] = i
		}
		return all
	}
	ranks := fuzzy.RankFindFold(query, options)
	sort.Stable(ranks)
	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}
