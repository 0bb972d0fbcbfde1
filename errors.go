package huffman

import (
	"errors"
)

var (
	// ErrEmptyInput is returned when a tree is requested for zero symbols.
	ErrEmptyInput = errors.New("huffman: empty input")

	// ErrEmptyTree is returned when a code table is requested for a nil tree.
	ErrEmptyTree = errors.New("huffman: empty tree")

	// ErrUnknownSymbol is returned when compressing a symbol that has no
	// code in the table.
	ErrUnknownSymbol = errors.New("huffman: unknown symbol")

	// ErrMalformedPayload is returned when a payload cannot be decoded with
	// the given table.
	ErrMalformedPayload = errors.New("huffman: malformed payload")

	// ErrCodeTooLong is returned when a tree is deeper than MaxCodeSize.
	ErrCodeTooLong = errors.New("huffman: code too long")

	// ErrInvalidCodeTable is returned when a caller-supplied code table is
	// empty, ambiguous, or not prefix-free.
	ErrInvalidCodeTable = errors.New("huffman: invalid code table")
)
