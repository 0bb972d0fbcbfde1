package huffman

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/chronos-tachyon/assert"
)

// Decoder implements a decoder for a CodeTable.  A Decoder is never modified
// after construction, so it may be shared between goroutines.
type Decoder[S Symbol] struct {
	table   map[Code]decoderData[S]
	minSize byte
	maxSize byte
}

// NewDecoder inverts a CodeTable into a Decoder.
func NewDecoder[S Symbol](t *CodeTable[S]) *Decoder[S] {
	assert.Assertf(t != nil, "CodeTable is nil")

	d := &Decoder[S]{
		table:   make(map[Code]decoderData[S], tableSizeHint(len(t.symbols))),
		minSize: t.minSize,
		maxSize: t.maxSize,
	}
	for _, symbol := range t.symbols {
		fillTable(d.table, symbol, t.codes[symbol])
	}
	return d
}

// Decode attempts to decode a Huffman code into a Symbol.
//
// If the Decode is completely successful, ok is true and minSize == maxSize
// == hc.Size.
//
// If the Decode fails due to insufficient bits, ok is false and at least
// (minSize - hc.Size) additional bits are required to decode this symbol.  No
// more than (maxSize - hc.Size) additional bits will be required.
//
// If the Decode fails because no code begins with hc, ok is false and
// minSize == maxSize == 0.
//
func (d *Decoder[S]) Decode(hc Code) (symbol S, ok bool, minSize byte, maxSize byte) {
	dd, found := d.table[hc]
	if !found {
		return symbol, false, 0, 0
	}
	return dd.symbol, dd.leaf, dd.minSize, dd.maxSize
}

// MinSize is the bit length of the shortest legal code.
func (d *Decoder[S]) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d *Decoder[S]) MaxSize() byte {
	return d.maxSize
}

// Decompress unpacks a payload produced by Compress and decodes it into the
// original sequence of symbols.  It returns ErrMalformedPayload, and no
// symbols, if the payload cannot be fully decoded.
func (d *Decoder[S]) Decompress(payload []byte) ([]S, error) {
	r, err := newBitReader(payload)
	if err != nil {
		return nil, err
	}

	var out []S
	for r.remaining() != 0 {
		start := r.pos
		var hc Code
		want := d.minSize
		for {
			if want > d.maxSize {
				want = d.maxSize
			}
			n := want - hc.Size
			if uint64(n) > r.remaining() {
				return nil, fmt.Errorf("%w: bits run out in the middle of a code at bit %d", ErrMalformedPayload, start)
			}
			hc = r.readCode(hc, n)

			dd, found := d.table[hc]
			if !found {
				return nil, fmt.Errorf("%w: no code begins with %s at bit %d", ErrMalformedPayload, hc, start)
			}
			if dd.leaf {
				out = append(out, dd.symbol)
				break
			}
			if hc.Size >= d.maxSize {
				return nil, fmt.Errorf("%w: no code matches %s at bit %d", ErrMalformedPayload, hc, start)
			}
			want = dd.minSize
			if want <= hc.Size {
				want = hc.Size + 1
			}
		}
	}
	return out, nil
}

// Decompress decodes a payload produced by Compress with the same table.
func Decompress[S Symbol](payload []byte, table *CodeTable[S]) ([]S, error) {
	return NewDecoder(table).Decompress(payload)
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make(byCode, 0, len(d.table))
	for hc := range d.table {
		keys = append(keys, hc)
	}
	keys.Sort()
	for _, hc := range keys {
		dd := d.table[hc]
		if dd.leaf {
			fmt.Fprintf(&buf, "\tDecode(%s) = {%v, %d, %d}\n", hc, dd.symbol, dd.minSize, dd.maxSize)
		} else {
			fmt.Fprintf(&buf, "\tDecode(%s) = {-, %d, %d}\n", hc, dd.minSize, dd.maxSize)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

type decoderData[S Symbol] struct {
	symbol  S
	leaf    bool
	minSize byte
	maxSize byte
}

// fillTable records hc as the code for symbol, then walks up through every
// prefix of hc, widening each prefix's (minSize, maxSize) to cover hc.
func fillTable[S Symbol](table map[Code]decoderData[S], symbol S, hc Code) {
	dd := decoderData[S]{symbol: symbol, leaf: true, minSize: hc.Size, maxSize: hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// Merge the dd's from "xxx...a" (dd) and "xxx...A" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData[S]{minSize: dd.minSize, maxSize: dd.maxSize}
		if ddSibling, found := table[hc.Sibling()]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "xxx...a" to "xxx...".

		hc = hc.Parent()

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && !ddOld.leaf && ddOld.minSize == ddNew.minSize && ddOld.maxSize == ddNew.maxSize {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
}

// bitReader reads the coded bits of a payload, most significant bit first.
type bitReader struct {
	data  []byte
	last  byte
	total uint64
	pos   uint64
}

func newBitReader(payload []byte) (*bitReader, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: missing length byte", ErrMalformedPayload)
	}

	data := payload[:len(payload)-1]
	last := payload[len(payload)-1]
	if len(data) == 0 {
		if last != 0 {
			return nil, fmt.Errorf("%w: length byte is %d, but there are no data bytes", ErrMalformedPayload, last)
		}
		return &bitReader{}, nil
	}

	if last == 0 || last > 8 {
		return nil, fmt.Errorf("%w: length byte is %d, expected 1 .. 8", ErrMalformedPayload, last)
	}
	if final := data[len(data)-1]; last < 8 && final>>last != 0 {
		return nil, fmt.Errorf("%w: final data byte %#02x has more than %d bits", ErrMalformedPayload, final, last)
	}

	total := uint64(len(data)-1)*8 + uint64(last)
	return &bitReader{data: data, last: last, total: total}, nil
}

func (r *bitReader) remaining() uint64 {
	return r.total - r.pos
}

// bit returns the i'th coded bit.  The bits of the final data byte are the
// low r.last bits of that byte.
func (r *bitReader) bit(i uint64) byte {
	index := i / 8
	shift := 7 - byte(i%8)
	if index == uint64(len(r.data)-1) {
		shift = r.last - 1 - byte(i%8)
	}
	return (r.data[index] >> shift) & 1
}

// readCode appends the next n bits to hc.  The caller must ensure that n <=
// r.remaining().
func (r *bitReader) readCode(hc Code, n byte) Code {
	for ; n > 0; n-- {
		hc = hc.Append(r.bit(r.pos))
		r.pos++
	}
	return hc
}

// type byCode {{{

type byCode []Code

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	return codeLess(list[i], list[j])
}

var _ sort.Interface = byCode(nil)

// }}}
