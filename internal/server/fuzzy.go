package server

// Similarity scoring for intent and dish matching. No fuzzy-matching
// library is in use anywhere in this codebase's dependency set, so this
// carries the two ratios the intent engine needs: a plain edit-distance
// ratio and a best-substring partial ratio, both on a 0-100 scale.

// ratio returns a similarity score between two strings based on
// Levenshtein distance.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return (total - 2*dist) * 100 / total
}

// partialRatio returns the best ratio of the shorter string against any
// equal-length window of the longer one.
func partialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if r := ratio(string(ra), string(rb[i:i+len(ra)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
