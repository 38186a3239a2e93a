package tui

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/list"
	"golang.org/x/text/cases"
)

// Match tiers, best first.
const (
	tierExact = iota
	tierPrefix
	tierContains
	tierFuzzy
	tierTypo
)

type rankedMatch struct {
	rank     list.Rank
	tier     int
	distance int
}

// RankCategories is the list filter for the category picker. Matching is
// case-insensitive under Unicode case folding. Exact, prefix and substring
// hits rank first, then the list's default fuzzy matches, then names within a
// small edit distance of the term so that typos such as "minecarft" still
// find "Minecraft". Ties keep catalog order.
func RankCategories(term string, targets []string) []list.Rank {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	if needle == "" {
		ranks := make([]list.Rank, len(targets))
		for i := range targets {
			ranks[i] = list.Rank{Index: i}
		}
		return ranks
	}

	fuzzy := make(map[int][]int)
	for _, r := range list.DefaultFilter(needle, foldAll(folder, targets)) {
		fuzzy[r.Index] = r.MatchedIndexes
	}

	// Short terms get no typo tolerance; nearly every name is one edit away.
	budget := -1
	if n := utf8.RuneCountInString(needle); n >= 4 {
		budget = max(1, n/4)
	}
	var matches []rankedMatch
	for i, target := range targets {
		folded := folder.String(target)
		distance := levenshtein.ComputeDistance(needle, folded)

		m := rankedMatch{rank: list.Rank{Index: i}, distance: distance}
		switch {
		case folded == needle:
			m.tier = tierExact
			m.rank.MatchedIndexes = span(target, folded, 0, needle)
		case strings.HasPrefix(folded, needle):
			m.tier = tierPrefix
			m.rank.MatchedIndexes = span(target, folded, 0, needle)
		case strings.Contains(folded, needle):
			m.tier = tierContains
			m.rank.MatchedIndexes = span(target, folded, strings.Index(folded, needle), needle)
		default:
			if idx, ok := fuzzy[i]; ok {
				m.tier = tierFuzzy
				m.rank.MatchedIndexes = idx
			} else if d := prefixDistance(needle, folded); d <= budget {
				m.tier = tierTypo
				m.distance = d
			} else {
				continue
			}
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].tier != matches[b].tier {
			return matches[a].tier < matches[b].tier
		}
		if matches[a].tier >= tierFuzzy {
			return matches[a].distance < matches[b].distance
		}
		return false
	})

	ranks := make([]list.Rank, len(matches))
	for i, m := range matches {
		ranks[i] = m.rank
	}
	return ranks
}

func foldAll(folder cases.Caser, targets []string) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = folder.String(t)
	}
	return out
}

// prefixDistance compares needle with the whole target and with the target's
// leading runes of the same length, returning the smaller distance.
func prefixDistance(needle, target string) int {
	d := levenshtein.ComputeDistance(needle, target)
	n := utf8.RuneCountInString(needle)
	if runes := []rune(target); len(runes) > n {
		d = min(d, levenshtein.ComputeDistance(needle, string(runes[:n])))
	}
	return d
}

// span returns the rune indexes of needle at byte offset start of folded, as
// positions in the original target. Folding can change rune counts, in which
// case nothing is highlighted.
func span(target, folded string, start int, needle string) []int {
	if utf8.RuneCountInString(target) != utf8.RuneCountInString(folded) {
		return nil
	}
	first := utf8.RuneCountInString(folded[:start])
	n := utf8.RuneCountInString(needle)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = first + i
	}
	return idx
}
