package script

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the keyword closest to word, or "" when nothing is close.
func Suggest(word string) string {
	if word == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(word, Keywords)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
