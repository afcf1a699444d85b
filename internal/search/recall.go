package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RecallMatch is a history entry matching a recall term
type RecallMatch struct {
	Query    string
	Index    int // Position in the candidate slice
	Distance int // Lower is closer
}

// Recall ranks previously submitted queries against term. candidates are
// expected newest first; ties keep that order so recent queries win.
// An empty term returns every candidate unchanged.
func Recall(term string, candidates []string) []RecallMatch {
	term = strings.TrimSpace(term)
	if term == "" {
		out := make([]RecallMatch, len(candidates))
		for i, c := range candidates {
			out[i] = RecallMatch{Query: c, Index: i}
		}
		return out
	}

	ranks := fuzzy.RankFindNormalizedFold(term, candidates)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]RecallMatch, len(ranks))
	for i, r := range ranks {
		out[i] = RecallMatch{Query: r.Target, Index: r.OriginalIndex, Distance: r.Distance}
	}
	return out
}
