package huffman

import (
	"fmt"
	"strconv"
)

// MaxCodeSize is the maximum number of bits in a Code.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the low Size bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// ParseCode parses a string of '0' and '1' characters into a Code.
func ParseCode(str string) (Code, error) {
	if len(str) == 0 || len(str) > MaxCodeSize {
		return Code{}, fmt.Errorf("invalid code %q: length must be 1 .. %d", str, MaxCodeSize)
	}
	var hc Code
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			hc = hc.Append(0)
		case '1':
			hc = hc.Append(1)
		default:
			return Code{}, fmt.Errorf("invalid code %q: unexpected character %q", str, str[i])
		}
	}
	return hc, nil
}

// Append returns this Code with one more bit at the end.  The caller must
// ensure that Size < MaxCodeSize.
func (hc Code) Append(bit byte) Code {
	return Code{Size: hc.Size + 1, Bits: hc.Bits<<1 | uint64(bit&1)}
}

// Parent returns this Code with its last bit removed.
func (hc Code) Parent() Code {
	if hc.Size == 0 {
		return hc
	}
	return Code{Size: hc.Size - 1, Bits: hc.Bits >> 1}
}

// Sibling returns this Code with its last bit flipped.
func (hc Code) Sibling() Code {
	return Code{Size: hc.Size, Bits: hc.Bits ^ 1}
}

// HasPrefix reports whether prefix is a prefix of this Code.  Every Code is a
// prefix of itself.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	return hc.Bits>>(hc.Size-prefix.Size) == prefix.Bits
}

// valid reports whether Bits has no set bits above Size.
func (hc Code) valid() bool {
	return hc.Size >= MaxCodeSize || hc.Bits>>hc.Size == 0
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	return strconv.Quote(hc.bitstring())
}

func (hc Code) bitstring() string {
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return fmt.Sprintf(format, hc.Bits)
}

var _ fmt.Stringer = Code{}
