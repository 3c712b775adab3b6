package engine

import (
	"strings"
	"unicode/utf8"
)

// fuzzyThreshold is the similarity a text must reach against the keyword for
// a fuzzy rule to fire.
const fuzzyThreshold = 0.8

// similarity returns 2*M/T where M is the number of runes covered by the
// matching blocks of the two strings and T the total rune count of both.
// Blocks are found greedily: the longest contiguous common run, then the
// pieces to its left and right, so crossed-over segments do not both count.
// Equal strings score 1, disjoint strings 0.
func similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingRunes(a[:ai], b[:bi]) + matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the leftmost longest contiguous run common to a
// and b, returning its start in each and its length.
func longestCommonRun(a, b []rune) (ai, bi, size int) {
	// runEnd[j] is the length of the common run ending at b[j] and the
	// previous row's a rune.
	runEnd := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := runEnd[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		runEnd = next
	}
	return ai, bi, size
}

// fuzzyMatch reports whether text is similar enough to keyword.
func fuzzyMatch(text, keyword string) bool {
	return similarity(text, keyword) >= fuzzyThreshold
}

// fuzzyContains reports whether the text loosely contains the keyword.
// Short keywords (3 runes or fewer) degrade to a plain substring check;
// longer keywords fire when any whitespace-separated token of the keyword
// longer than one rune appears in the text.
func fuzzyContains(text, keyword string) bool {
	if utf8.RuneCountInString(keyword) <= 3 {
		return strings.Contains(text, keyword)
	}
	for _, token := range strings.Fields(keyword) {
		if utf8.RuneCountInString(token) > 1 && strings.Contains(text, token) {
			return true
		}
	}
	return false
}
