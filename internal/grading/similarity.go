package grading

import "math"

// Levenshtein returns the edit distance between a and b counted in runes,
// with unit cost for insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			if ar[i-1] == br[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = min(prev[j-1], curr[j-1], prev[j]) + 1
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

// Similarity returns how close a and b are as a whole percentage in [0, 100].
// Two empty strings are identical.
func Similarity(a, b string) int {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	ratio := 1 - float64(Levenshtein(a, b))/float64(maxLen)
	return int(roundHalfUp(math.Max(0, ratio) * 100))
}

// roundHalfUp rounds to the nearest integer, halves toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundScore rounds a score to one decimal place, halves up.
func RoundScore(v float64) float64 {
	return roundHalfUp(v*10) / 10
}
