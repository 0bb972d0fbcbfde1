package huffman

import (
	mathbits "math/bits"
)

// tableSizeHint estimates the number of Decoder table entries for a code with
// the given number of symbols: one per code, plus one per distinct prefix,
// which is approximately n×log2(n).
func tableSizeHint(numSymbols int) int {
	if numSymbols <= 1 {
		return 2
	}
	return numSymbols * mathbits.Len(uint(numSymbols))
}
