package amp

import "golang.org/x/exp/slices"

// permutations calls yield with every ordering of values, in lexicographic
// order, until yield returns false. The slice passed to yield is reused
// between calls.
func permutations(values []int64, yield func(index int, p []int64) bool) {
	p := slices.Clone(values)
	slices.Sort(p)

	for i := 0; ; i++ {
		if !yield(i, p) || !nextPermutation(p) {
			return
		}
	}
}

// nextPermutation rearranges p into the next lexicographically greater
// ordering. Returns false, leaving p untouched, if p is the last one.
func nextPermutation(p []int64) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// factorial returns n!.
func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
