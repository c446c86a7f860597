package urdf

import (
	"errors"
	"io"
)

// Cursor holds the resumable state of a depth-first triple scan. The zero
// value starts at the first triple. A Cursor owns no memory; it records
// offsets into the graph buffer and is invalidated by any mutation of the
// graph it was started on. Objects are always single values, so a pair is
// complete once its value is decoded.
type Cursor struct {
	// pos is the document offset where the scan resumes.
	pos int
	// node is the offset of the current node's header, 0 when unset.
	node int
	// key is the offset of the key being decoded, 0 between pairs.
	key  int
	done bool
	gen  uint64
}

// Reset rewinds the cursor to the first triple.
func (c *Cursor) Reset() { *c = Cursor{} }

// Done reports whether the scan reached the end of the graph.
func (c *Cursor) Done() bool { return c.done }

// NodeOffset returns the document offset of the node that holds the triple
// last returned by FindNextTriple. Triples of one node share the offset, so
// it identifies nodes without an @id.
func (c *Cursor) NodeOffset() int { return c.node }

// FindNextTriple returns the triple following the cursor position and
// advances the cursor. Triples come in document order: nodes in insertion
// order, pairs in insertion order within a node.
//
// When the graph is exhausted FindNextTriple returns ErrNoItem, and keeps
// returning it on later calls until the cursor is Reset. The returned terms
// are views into the graph buffer. If the graph was mutated since the
// cursor was started, ErrArg is returned.
func (g *Graph) FindNextTriple(c *Cursor) (Triple, error) {
	if err := g.checkLive(); err != nil {
		return Triple{}, err
	}
	if c.done {
		return Triple{}, ErrNoItem
	}
	if c.pos == 0 {
		_, off, err := decodeGraphStart(g.buf, 0)
		if err != nil {
			return Triple{}, err
		}
		c.pos, c.gen = off, g.gen
	} else if c.gen != g.gen {
		return Triple{}, argError("cursor invalidated by a mutation of the graph")
	}

	for {
		var (
			subject Term
			err     error
		)
		if c.node == 0 {
			var next int
			subject, next, err = decodeNodeStart(g.buf, c.pos)
			if errors.Is(err, ErrNoItem) {
				c.done = true
				return Triple{}, ErrNoItem
			}
			if err != nil {
				return Triple{}, err
			}
			c.node, c.pos = c.pos, next
		} else if subject, _, err = decodeNodeStart(g.buf, c.node); err != nil {
			return Triple{}, err
		}

		c.key = c.pos
		p, next, err := decodeKey(g.buf, c.pos)
		if errors.Is(err, ErrNoItem) {
			end, err := decodeNodeEnd(g.buf, c.pos)
			if err != nil {
				return Triple{}, err
			}
			c.pos, c.node, c.key = end, 0, 0
			continue
		}
		if err != nil {
			return Triple{}, err
		}

		// Only single-valued pairs are stored, so the value ends the pair.
		o, next, err := decodeValue(g.buf, next)
		if errors.Is(err, ErrNoItem) {
			return Triple{}, bufferError("value", next, "key without value")
		}
		if err != nil {
			return Triple{}, err
		}
		c.pos, c.key = next, 0
		return Triple{S: subject, P: p, O: o}, nil
	}
}

// Handler processes triples in push mode.
type Handler func(Triple) error

// ForEach calls h for every triple in document order and stops at the
// first error.
func (g *Graph) ForEach(h Handler) error {
	var c Cursor
	for {
		t, err := g.FindNextTriple(&c)
		if errors.Is(err, ErrNoItem) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := h(t); err != nil {
			return err
		}
	}
}

// TripleIterator is a pull-style reader over a graph's triples.
type TripleIterator struct {
	g *Graph
	c Cursor
}

// Triples returns an iterator positioned before the first triple.
func (g *Graph) Triples() *TripleIterator {
	return &TripleIterator{g: g}
}

// Next returns the next triple, or io.EOF after the last one.
func (it *TripleIterator) Next() (Triple, error) {
	t, err := it.g.FindNextTriple(&it.c)
	if errors.Is(err, ErrNoItem) {
		return Triple{}, io.EOF
	}
	return t, err
}

// Close releases iterator resources. The graph itself is not released.
func (it *TripleIterator) Close() error {
	it.c.done = true
	return nil
}
