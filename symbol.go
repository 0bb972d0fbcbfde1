package huffman

import (
	"github.com/chronos-tachyon/assert"
)

// Symbol is the constraint satisfied by symbols in an arbitrary alphabet.
// Symbols are compared only for equality.
type Symbol interface {
	comparable
}

// Weighted pairs a Symbol with its weight, i.e. its number of occurrences.
type Weighted[S Symbol] struct {
	Symbol S
	Weight uint64
}

// Frequencies counts the occurrences of each distinct symbol.  The result
// holds one entry per distinct symbol, in order of first occurrence.
func Frequencies[S Symbol](symbols []S) []Weighted[S] {
	if len(symbols) == 0 {
		return nil
	}

	index := make(map[S]int)
	var out []Weighted[S]
	for _, symbol := range symbols {
		if i, found := index[symbol]; found {
			out[i].Weight++
			continue
		}
		index[symbol] = len(out)
		out = append(out, Weighted[S]{Symbol: symbol, Weight: 1})
	}
	return out
}

// assertWeightsFit panics if the sum of all weights overflows uint64, which
// would break the weight of some internal node.
func assertWeightsFit[S Symbol](freqs []Weighted[S]) {
	var sum uint64
	for _, item := range freqs {
		next := sum + item.Weight
		assert.Assertf(next >= sum, "total weight overflows uint64")
		sum = next
	}
}
