package match

import "strings"

// distance is the Levenshtein edit distance over word tokens. Operating on
// whitespace-split words rather than characters makes word-order and
// word-level edits dominate the similarity score, which is what translators
// expect from leverage percentages.
func distance(a, b []string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Score rates the similarity of two match keys on a 0..100 scale:
// 100 * (1 - distance/max(len)). Two empty keys are identical.
func Score(queryKey, candidateKey string) int {
	q := strings.Fields(queryKey)
	c := strings.Fields(candidateKey)

	longest := len(q)
	if len(c) > longest {
		longest = len(c)
	}
	if longest == 0 {
		return 100
	}

	d := distance(q, c)
	return (100 * (longest - d)) / longest
}
