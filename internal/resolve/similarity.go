package resolve

// matching-block similarity: ratio = 2*M/T where M is the total size
// of the matching blocks and T the combined length of both sequences.

type match struct {
	a, b, size int
}

func longestMatch(a, b []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) match {
	besti, bestj, bestsize := alo, blo, 0

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return match{besti, bestj, bestsize}
}

func matchingBlocks(a, b []rune) []match {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct {
		alo, ahi, blo, bhi int
	}
	queue := []span{{0, len(a), 0, len(b)}}

	var blocks []match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if s.alo < m.a && s.blo < m.b {
			queue = append(queue, span{s.alo, m.a, s.blo, m.b})
		}
		if m.a+m.size < s.ahi && m.b+m.size < s.bhi {
			queue = append(queue, span{m.a + m.size, s.ahi, m.b + m.size, s.bhi})
		}
	}
	return blocks
}

// ratio returns a similarity measure in [0,1] for two strings; 1.0
// means identical.
func ratio(sa, sb string) float64 {
	a := []rune(sa)
	b := []rune(sb)

	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}

	matched := 0
	for _, m := range matchingBlocks(a, b) {
		matched += m.size
	}
	return 2.0 * float64(matched) / float64(total)
}
