package refengine

// within reports whether the Levenshtein distance between a and b is <= tau.
// Rows are borrowed from t; the scan stops as soon as every cell of a row
// exceeds tau.
func (t *tower) within(a, b string, tau int) bool {
	la, lb := len(a), len(b)
	if d := la - lb; d > tau || -d > tau {
		return false
	}
	if la == 0 || lb == 0 {
		return la+lb <= tau
	}
	prev, cur := t.rows(lb + 1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		rowMin := cur[0]
		ai := a[i-1]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ai == b[j-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if x := prev[j] + 1; x < v {
				v = x
			}
			if x := cur[j-1] + 1; x < v {
				v = x
			}
			cur[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > tau {
			return false
		}
		prev, cur = cur, prev
	}
	return prev[lb] <= tau
}
