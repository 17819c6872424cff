package rule

// combinations returns every r-combination of the indices [0,n) in
// lexicographic order, as index slices into whatever slice of length n
// the caller is choosing from. Used by both the Count rule's child
// selection (spec.md §4.5 step 5) and the From rule's subset search
// (spec.md §4.4).
func combinations(n, r int) [][]int {
	if r < 0 || r > n {
		return nil
	}
	if r == 0 {
		return [][]int{{}}
	}
	var out [][]int
	combo := make([]int, r)
	for i := range combo {
		combo[i] = i
	}
	for {
		next := make([]int, r)
		copy(next, combo)
		out = append(out, next)

		i := r - 1
		for i >= 0 && combo[i] == i+n-r {
			i--
		}
		if i < 0 {
			break
		}
		combo[i]++
		for j := i + 1; j < r; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
	return out
}
