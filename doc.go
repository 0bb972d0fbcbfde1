// Package huffman implements Huffman coding over arbitrary comparable
// symbols: frequency counting, tree construction, code table derivation, and
// a dense bit-packed payload format.
//
// A payload is a sequence of bytes.  Every byte except the last two holds 8
// coded bits, most significant bit first.  The second-to-last byte holds the
// final 1 to 8 coded bits, right-aligned.  The last byte holds the number of
// bits in that final group, or 0 when there are no coded bits at all.
//
// The code table is not embedded in the payload.  Callers must carry it
// alongside the payload, e.g. via CodeTable.MarshalJSON, and rebuild it on the
// receiving end with ParseCodeTable or CodeTable.UnmarshalJSON.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
