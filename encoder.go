package huffman

import (
	"fmt"

	"github.com/chronos-tachyon/assert"
)

// Compress encodes symbols with the given table and packs the resulting bits
// into a payload.  See the package documentation for the payload layout.
//
// Every symbol is looked up before any output is produced: if any symbol is
// missing from the table, Compress returns ErrUnknownSymbol and no payload.
//
func Compress[S Symbol](symbols []S, table *CodeTable[S]) ([]byte, error) {
	assert.Assertf(table != nil, "CodeTable is nil")

	codes := make([]Code, len(symbols))
	var totalBits uint64
	for index, symbol := range symbols {
		hc, found := table.Lookup(symbol)
		if !found {
			return nil, fmt.Errorf("%w: symbol %v at index %d", ErrUnknownSymbol, symbol, index)
		}
		codes[index] = hc
		totalBits += uint64(hc.Size)
	}

	w := bitWriter{out: make([]byte, 0, (totalBits+7)/8+1)}
	for _, hc := range codes {
		w.writeCode(hc)
	}
	payload := w.finish()
	assert.Assertf(uint64(len(payload)) == (totalBits+7)/8+1, "packed %d bits into %d bytes", totalBits, len(payload))
	return payload, nil
}

// Encode builds a code table from the frequencies of symbols, then uses it to
// compress symbols.  The table must be carried alongside the payload in order
// to decompress it.
func Encode[S Symbol](symbols []S) (*CodeTable[S], []byte, error) {
	root, err := BuildTree(Frequencies(symbols))
	if err != nil {
		return nil, nil, err
	}
	table, err := BuildCodeTable(root)
	if err != nil {
		return nil, nil, err
	}
	payload, err := Compress(symbols, table)
	if err != nil {
		return nil, nil, err
	}
	return table, payload, nil
}

// Savings returns the size reduction of a payload relative to its input, as
// a percentage of the input size.  The result is negative if the payload is
// larger than the input.
func Savings(inputLen, payloadLen int) float64 {
	if inputLen == 0 {
		return 0
	}
	return float64(inputLen-payloadLen) / float64(inputLen) * 100
}

// bitWriter packs codes into bytes, most significant bit first.
type bitWriter struct {
	out   []byte
	cur   byte
	nbits byte
}

func (w *bitWriter) writeCode(hc Code) {
	for size := hc.Size; size > 0; {
		n := 8 - w.nbits
		if n > size {
			n = size
		}
		size -= n
		chunk := byte((hc.Bits >> size) & (1<<n - 1))
		w.cur = w.cur<<n | chunk
		w.nbits += n
		if w.nbits == 8 {
			w.out = append(w.out, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

// finish appends the final group of bits, if any, and the trailing length
// byte.  The final group is stored right-aligned, so its length is needed to
// recover any leading zero bits.
func (w *bitWriter) finish() []byte {
	switch {
	case w.nbits != 0:
		w.out = append(w.out, w.cur, w.nbits)
	case len(w.out) != 0:
		w.out = append(w.out, 8)
	default:
		w.out = append(w.out, 0)
	}
	w.cur = 0
	w.nbits = 0
	return w.out
}
