// Package combine enumerates the Cartesian product of a named value set.
//
// Combinations are produced in odometer order: the first name varies
// slowest and the last name varies fastest, exactly like nested loops with
// the first name outermost.
package combine

import (
	"iter"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/values"
)

// Combinations returns a lazy sequence of every binding of nv.
//
// An empty set yields exactly one empty binding. A name without candidate
// values is an error reported before anything is produced. The returned
// sequence holds no state between ranges and can be iterated again.
func Combinations(nv *values.NamedValues) (iter.Seq[values.Binding], error) {
	names := nv.Names()
	lists := make([][]string, len(names))
	for i, name := range names {
		items, _ := nv.Get(name)
		if len(items) == 0 {
			return nil, errors.Newf(errors.ErrEmptyValues,
				"no candidate values for %q", name).
				WithDetail("name", name)
		}
		lists[i] = items
	}

	return func(yield func(values.Binding) bool) {
		odometer(names, lists, yield)
	}, nil
}

// Count returns the number of combinations of nv.
func Count(nv *values.NamedValues) int {
	total := 1
	for _, name := range nv.Names() {
		items, _ := nv.Get(name)
		total *= len(items)
	}
	return total
}

// odometer walks an index vector over lists, advancing the rightmost index
// first and carrying into the left.
func odometer(names []string, lists [][]string, yield func(values.Binding) bool) {
	index := make([]int, len(lists))
	current := make([]string, len(lists))

	for {
		for i, list := range lists {
			current[i] = list[index[i]]
		}
		if !yield(values.NewBinding(names, current)) {
			return
		}

		pos := len(lists) - 1
		for ; pos >= 0; pos-- {
			index[pos]++
			if index[pos] < len(lists[pos]) {
				break
			}
			index[pos] = 0
		}
		if pos < 0 {
			return
		}
	}
}
