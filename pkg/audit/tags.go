package audit

import (
	"fmt"
	"strings"
)

// tagsAlike reports whether two distinct tags are duplicate candidates and
// why. Checks run cheapest-first: case folding, then plural folding, then
// the similarity ratio.
func tagsAlike(a, b string, cfg Config) (reason string, ok bool) {
	if a == b {
		return "", false
	}

	la, lb := a, b
	if cfg.CaseFold {
		la, lb = strings.ToLower(a), strings.ToLower(b)
		if la == lb {
			return "differs only in capitalization", true
		}
	}

	if cfg.PluralFold && singularOf(la) == singularOf(lb) {
		return "singular/plural variants", true
	}

	if cfg.TagSimilarity > 0 {
		if r := similarity(la, lb); r >= cfg.TagSimilarity {
			return fmt.Sprintf("similarity %.0f%%", r*100), true
		}
	}

	return "", false
}

// singularOf strips a single trailing "s". Deliberately naive - the point
// is to catch tag pairs like "idea"/"ideas", not to conjugate English.
func singularOf(tag string) string {
	if len(tag) > 1 && strings.HasSuffix(tag, "s") {
		return tag[:len(tag)-1]
	}
	return tag
}

// similarity computes the matching-blocks ratio between two strings:
// 2*M / (len(a)+len(b)), where M is the total length of the common
// substrings found by recursively splitting around the longest common
// substring. Returns a value in [0, 1].
func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchingChars(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

// matchingChars returns the total length of matching blocks between a and b.
// The longest common substring anchors the match; the regions to its left
// and right are matched recursively.
func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring returns the start offsets and length of the
// longest substring common to a and b. Ties resolve to the earliest
// occurrence in a, then b, keeping results deterministic.
func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the match length ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
