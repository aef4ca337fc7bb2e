package synth

import (
	"slices"
	"sort"
)

// dependencyOrder returns node indices with dependencies first.
//
// depsFn(i) yields the indices i depends on; out-of-range and self edges are
// ignored. When several nodes are ready the smallest index wins, so the result
// is deterministic. Nodes left on a cycle are returned separately, ascending,
// and are not part of order.
func dependencyOrder(n int, depsFn func(i int) []int) (order, cyclic []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	dependents := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n || d == i || slices.Contains(dependents[d], i) {
				continue
			}

			indeg[i]++
			dependents[d] = append(dependents[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range dependents[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return order, cyclic
}
