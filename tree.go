package huffman

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// Node is a node in a Huffman tree.  A leaf holds one Symbol; an internal
// node holds exactly two children and no Symbol.  Either way, the weight of a
// node is the sum of the weights of the leaves beneath it.
type Node[S Symbol] struct {
	symbol S
	weight uint64
	left   *Node[S]
	right  *Node[S]

	// seq orders nodes of equal weight: first created, first merged.
	seq int
}

// IsLeaf returns true iff this node holds a Symbol.
func (n *Node[S]) IsLeaf() bool {
	return n.left == nil
}

// Symbol returns the Symbol held by a leaf.  For internal nodes, it returns
// the zero value of S.
func (n *Node[S]) Symbol() S {
	return n.symbol
}

// Weight returns the total weight of this node.
func (n *Node[S]) Weight() uint64 {
	return n.weight
}

// Left returns the left child, or nil for a leaf.
func (n *Node[S]) Left() *Node[S] {
	return n.left
}

// Right returns the right child, or nil for a leaf.
func (n *Node[S]) Right() *Node[S] {
	return n.right
}

// BuildTree builds a Huffman tree from the given (Symbol, weight) pairs.
// Entries with a weight of zero are ignored.  Each Symbol may appear at most
// once.
//
// The two lightest nodes are merged repeatedly, the first one popped becoming
// the left child.  Nodes of equal weight are popped in creation order: the
// leaves in the order they appear in freqs, then the internal nodes in the
// order they were created.
//
func BuildTree[S Symbol](freqs []Weighted[S]) (*Node[S], error) {
	assertWeightsFit(freqs)

	h := nodeHeap[S]{list: make([]*Node[S], 0, len(freqs))}
	seen := make(map[S]struct{}, len(freqs))
	for _, item := range freqs {
		_, dupe := seen[item.Symbol]
		assert.Assertf(!dupe, "symbol %v appears more than once", item.Symbol)
		seen[item.Symbol] = struct{}{}

		if item.Weight == 0 {
			continue
		}
		h.list = append(h.list, &Node[S]{
			symbol: item.Symbol,
			weight: item.Weight,
			seq:    len(h.list),
		})
	}

	if h.Len() == 0 {
		return nil, fmt.Errorf("%w: no symbols with non-zero weight", ErrEmptyInput)
	}

	h.Init()
	nextSeq := h.Len()
	for h.Len() > 1 {
		a := heap.Pop(&h).(*Node[S])
		b := heap.Pop(&h).(*Node[S])
		heap.Push(&h, &Node[S]{
			weight: a.weight + b.weight,
			left:   a,
			right:  b,
			seq:    nextSeq,
		})
		nextSeq++
	}
	return heap.Pop(&h).(*Node[S]), nil
}

// PreOrder lists this node and all nodes beneath it, each node before its
// left subtree and its left subtree before its right subtree.
func (n *Node[S]) PreOrder() []*Node[S] {
	var out []*Node[S]
	n.walk(func(node *Node[S], depth int) {
		out = append(out, node)
	})
	return out
}

// Dump writes a programmer-readable debugging dump of the tree rooted at this
// node to the given writer.
func (n *Node[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	n.walk(func(node *Node[S], depth int) {
		indent := strings.Repeat("  ", depth)
		if node.IsLeaf() {
			fmt.Fprintf(&buf, "\t%s%v: %d\n", indent, node.symbol, node.weight)
		} else {
			fmt.Fprintf(&buf, "\t%s*: %d\n", indent, node.weight)
		}
	})
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// walk visits the tree in pre-order without recursion.
func (n *Node[S]) walk(fn func(node *Node[S], depth int)) {
	if n == nil {
		return
	}

	type stackItem struct {
		node  *Node[S]
		depth int
	}

	stack := []stackItem{{n, 0}}
	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(top.node, top.depth)
		if !top.node.IsLeaf() {
			// right first, so that left is popped first
			stack = append(stack, stackItem{top.node.right, top.depth + 1})
			stack = append(stack, stackItem{top.node.left, top.depth + 1})
		}
	}
}

// type nodeHeap {{{

type nodeHeap[S Symbol] struct {
	list []*Node[S]
}

func (h *nodeHeap[S]) Init() {
	heap.Init(h)
}

func (h *nodeHeap[S]) Len() int {
	return len(h.list)
}

func (h *nodeHeap[S]) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap[S]) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.seq < b.seq
}

func (h *nodeHeap[S]) Push(x interface{}) {
	h.list = append(h.list, x.(*Node[S]))
}

func (h *nodeHeap[S]) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list[last] = nil
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap[int])(nil)

// }}}
