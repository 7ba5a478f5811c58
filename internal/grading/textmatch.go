package grading

import (
	"strings"
	"unicode"
)

// fold trims and lowercases, the comparison form for typed answers.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesAny(given string, accepted []string) bool {
	g := fold(given)
	for _, a := range accepted {
		if g == fold(a) {
			return true
		}
	}
	return false
}

// nearMiss reports whether given is within maxEdit edits of an accepted
// answer once case, punctuation and spacing are ignored.
func nearMiss(given string, accepted []string, maxEdit int) bool {
	if maxEdit <= 0 {
		return false
	}
	g := normalize(given)
	if g == "" {
		return false
	}
	for _, a := range accepted {
		if levenshtein(normalize(a), g) <= maxEdit {
			return true
		}
	}
	return false
}

// normalize does simple casefolding and drops punctuation and extra spaces.
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// levenshtein computes edit distance (insertion, deletion, substitution cost 1).
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := range dp {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			dp[j] = min(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[m]
}
