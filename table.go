package huffman

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// CodeTable maps each Symbol in an alphabet to its Code.  A CodeTable is
// never modified after construction, so it may be shared between goroutines.
type CodeTable[S Symbol] struct {
	codes   map[S]Code
	symbols []S
	minSize byte
	maxSize byte
}

// BuildCodeTable derives a CodeTable from a Huffman tree.  Descending to the
// left child appends a 0 bit and descending to the right child appends a 1
// bit.  If the root is itself a leaf, its Symbol is assigned the code "0".
func BuildCodeTable[S Symbol](root *Node[S]) (*CodeTable[S], error) {
	if root == nil {
		return nil, ErrEmptyTree
	}

	codes := make(map[S]Code)
	if root.IsLeaf() {
		codes[root.symbol] = MakeCode(1, 0)
		return newCodeTable(codes), nil
	}

	// Walk the tree with an explicit stack.  The stack holds only internal
	// nodes, and hc is always the code of the node on top of the stack.
	//
	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		node *Node[S]
		x    byte
	}

	stack := make([]stackItem, 0, 16)
	var hc Code

	processChild := func(child *Node[S], bit byte) error {
		if hc.Size >= MaxCodeSize {
			return fmt.Errorf("%w: tree is deeper than %d levels", ErrCodeTooLong, MaxCodeSize)
		}
		childCode := hc.Append(bit)
		if child.IsLeaf() {
			codes[child.symbol] = childCode
			return nil
		}
		hc = childCode
		stack = append(stack, stackItem{node: child})
		return nil
	}

	stack = append(stack, stackItem{node: root})
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		var err error
		switch x {
		case 0:
			err = processChild(top.node.left, 0)
		case 1:
			err = processChild(top.node.right, 1)
		case 2:
			stack = stack[:len(stack)-1]
			hc = hc.Parent()
		}
		if err != nil {
			return nil, err
		}
	}

	return newCodeTable(codes), nil
}

// NewCodeTable constructs a CodeTable from an existing symbol→code mapping,
// such as one carried alongside a payload.  The mapping must be non-empty and
// prefix-free, and every code must hold 1 .. MaxCodeSize bits.
func NewCodeTable[S Symbol](codes map[S]Code) (*CodeTable[S], error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no codes", ErrInvalidCodeTable)
	}

	owners := make(map[Code]S, len(codes))
	for symbol, hc := range codes {
		if hc.Size == 0 || hc.Size > MaxCodeSize || !hc.valid() {
			return nil, fmt.Errorf("%w: symbol %v has invalid code {%d, %#x}", ErrInvalidCodeTable, symbol, hc.Size, hc.Bits)
		}
		if other, found := owners[hc]; found {
			return nil, fmt.Errorf("%w: symbols %v and %v share code %s", ErrInvalidCodeTable, other, symbol, hc)
		}
		owners[hc] = symbol
	}

	for hc, symbol := range owners {
		for prefix := hc.Parent(); prefix.Size != 0; prefix = prefix.Parent() {
			if other, found := owners[prefix]; found {
				return nil, fmt.Errorf("%w: code %s for symbol %v is a prefix of code %s for symbol %v", ErrInvalidCodeTable, prefix, other, hc, symbol)
			}
		}
	}

	copied := make(map[S]Code, len(codes))
	for symbol, hc := range codes {
		copied[symbol] = hc
	}
	return newCodeTable(copied), nil
}

// ParseCodeTable is like NewCodeTable, but takes codes as strings of '0' and
// '1' characters, i.e. the form returned by CodeTable.Bitstrings.
func ParseCodeTable[S Symbol](bitstrings map[S]string) (*CodeTable[S], error) {
	codes := make(map[S]Code, len(bitstrings))
	for symbol, str := range bitstrings {
		hc, err := ParseCode(str)
		if err != nil {
			return nil, fmt.Errorf("%w: symbol %v: %v", ErrInvalidCodeTable, symbol, err)
		}
		codes[symbol] = hc
	}
	return NewCodeTable(codes)
}

func newCodeTable[S Symbol](codes map[S]Code) *CodeTable[S] {
	sorted := make(bySymbolCode[S], 0, len(codes))
	for symbol, hc := range codes {
		sorted = append(sorted, symbolAndCode[S]{symbol, hc})
	}
	sorted.Sort()

	t := &CodeTable[S]{
		codes:   codes,
		symbols: make([]S, len(sorted)),
	}
	for index, item := range sorted {
		t.symbols[index] = item.symbol
		if index == 0 || t.minSize > item.code.Size {
			t.minSize = item.code.Size
		}
		if t.maxSize < item.code.Size {
			t.maxSize = item.code.Size
		}
	}
	return t
}

// Len returns the number of symbols in the table.
func (t *CodeTable[S]) Len() int {
	return len(t.symbols)
}

// Lookup returns the Code for a Symbol.
func (t *CodeTable[S]) Lookup(symbol S) (Code, bool) {
	hc, found := t.codes[symbol]
	return hc, found
}

// Symbols returns the symbols in the table, ordered by (code size, code bits).
func (t *CodeTable[S]) Symbols() []S {
	out := make([]S, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// MinSize is the bit length of the shortest code.
func (t *CodeTable[S]) MinSize() byte {
	return t.minSize
}

// MaxSize is the bit length of the longest code.
func (t *CodeTable[S]) MaxSize() byte {
	return t.maxSize
}

// Bitstrings returns the table as a map from Symbol to a string of '0' and
// '1' characters.
func (t *CodeTable[S]) Bitstrings() map[S]string {
	out := make(map[S]string, len(t.codes))
	for symbol, hc := range t.codes {
		out[symbol] = hc.bitstring()
	}
	return out
}

// EncodedBits returns the number of bits that Compress would produce for
// symbols with the given frequencies, not counting byte padding or the
// trailing length byte.  Symbols missing from the table count as zero bits.
func (t *CodeTable[S]) EncodedBits(freqs []Weighted[S]) uint64 {
	var sum uint64
	for _, item := range freqs {
		sum += item.Weight * uint64(t.codes[item.Symbol].Size)
	}
	return sum
}

// String returns a brief description of this table.
func (t *CodeTable[S]) String() string {
	return fmt.Sprintf("(Huffman code table with %d symbols, with coded lengths of %d .. %d bits)", len(t.symbols), t.minSize, t.maxSize)
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer.
func (t *CodeTable[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", t.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", t.maxSize)
	for _, symbol := range t.symbols {
		fmt.Fprintf(&buf, "\tLookup(%v) = %s\n", symbol, t.codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// MarshalJSON encodes the table as a JSON object mapping each Symbol to its
// code as a string of '0' and '1' characters.  S must be usable as a JSON
// object key, i.e. a string or integer type or an encoding.TextMarshaler.
func (t *CodeTable[S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Bitstrings())
}

// UnmarshalJSON decodes a table produced by MarshalJSON.
func (t *CodeTable[S]) UnmarshalJSON(raw []byte) error {
	var bitstrings map[S]string
	if err := json.Unmarshal(raw, &bitstrings); err != nil {
		return err
	}
	parsed, err := ParseCodeTable(bitstrings)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

var (
	_ fmt.Stringer     = (*CodeTable[byte])(nil)
	_ json.Marshaler   = (*CodeTable[byte])(nil)
	_ json.Unmarshaler = (*CodeTable[byte])(nil)
)

// type symbolAndCode + type bySymbolCode {{{

type symbolAndCode[S Symbol] struct {
	symbol S
	code   Code
}

type bySymbolCode[S Symbol] []symbolAndCode[S]

func (list bySymbolCode[S]) Sort() {
	sort.Sort(list)
}

func (list bySymbolCode[S]) Len() int {
	return len(list)
}

func (list bySymbolCode[S]) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list bySymbolCode[S]) Less(i, j int) bool {
	return codeLess(list[i].code, list[j].code)
}

var _ sort.Interface = bySymbolCode[byte](nil)

// }}}

func codeLess(a, b Code) bool {
	as, ab := a.Size, a.Bits
	bs, bb := b.Size, b.Bits
	if as != bs {
		return as < bs
	}
	return ab < bb
}
