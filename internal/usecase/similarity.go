package usecase

import (
	"regexp"
	"sort"
	"strings"
)

var similarityPunctuationRegex = regexp.MustCompile(`[(),/+]`)

// tokenizeName splits a normalized product name into whitespace tokens with
// punctuation stripped. Numeric tokens are kept: sizes and counts carry real
// signal in catalog names.
func tokenizeName(s string) []string {
	cleaned := similarityPunctuationRegex.ReplaceAllString(strings.ToUpper(s), " ")
	return strings.Fields(cleaned)
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// editRatio is the normalized similarity of two strings on a 0-100 scale,
// derived from edit distance over the combined rune length.
func editRatio(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	lenSum := len([]rune(s1)) + len([]rune(s2))
	if lenSum == 0 {
		return 100
	}
	dist := levenshteinDistance(s1, s2)
	return (lenSum - 2*dist) * 100 / lenSum
}

// tokenSetRatio compares two names as token sets: shared tokens count fully
// no matter their order, and the remainder strings are compared pairwise.
// The best of the three comparisons wins, so a name that is a token subset
// of the other scores near 100. Result is 0-100.
func tokenSetRatio(name1, name2 string) int {
	tokens1 := tokenizeName(name1)
	tokens2 := tokenizeName(name2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	set1 := map[string]bool{}
	for _, t := range tokens1 {
		set1[t] = true
	}
	set2 := map[string]bool{}
	for _, t := range tokens2 {
		set2[t] = true
	}

	var common, diff1, diff2 []string
	for t := range set1 {
		if set2[t] {
			common = append(common, t)
		} else {
			diff1 = append(diff1, t)
		}
	}
	for t := range set2 {
		if !set1[t] {
			diff2 = append(diff2, t)
		}
	}
	sort.Strings(common)
	sort.Strings(diff1)
	sort.Strings(diff2)

	base := strings.Join(common, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(diff1, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(diff2, " "))

	best := editRatio(base, full1)
	if r := editRatio(base, full2); r > best {
		best = r
	}
	if r := editRatio(full1, full2); r > best {
		best = r
	}
	if best < 0 {
		return 0
	}
	return best
}
