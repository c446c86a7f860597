package urdf

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
)

// Graph is an RDF graph stored as a single CBOR document.
//
// The buffer always holds a complete, well-formed document: its length is
// the exact content length and any spare capacity lies beyond it. Triples
// are inserted in place; Freeze validates the document and trims the
// allocation, after which the graph is read-only.
//
// A Graph is not safe for concurrent use. Any number of goroutines may
// read a graph (FindNextTriple, Bytes, Stats) as long as no goroutine
// mutates it.
type Graph struct {
	buf      []byte
	opts     options
	frozen   bool
	released bool
	// gen counts mutations so that cursors can detect shifted bytes.
	gen uint64
}

// NewGraph creates an empty anonymous graph.
func NewGraph(opts ...Option) (*Graph, error) {
	return newGraph(nil, opts)
}

// NewNamedGraph creates an empty graph identified by name, which must be a
// URIRef or a BNode.
func NewNamedGraph(name Term, opts ...Option) (*Graph, error) {
	if !isResource(name) {
		return nil, argError("graph name must be a URIRef or BNode, got %s", kindOf(name))
	}
	return newGraph(name, opts)
}

func newGraph(name Term, opts []Option) (*Graph, error) {
	o := newOptions(opts)
	b := bytes.NewBuffer(make([]byte, 0, o.initialCapacity))
	enc := encMode.NewEncoder(b)
	if err := encodeGraphStart(enc, name); err != nil {
		return nil, err
	}
	if err := encodeGraphEnd(enc); err != nil {
		return nil, err
	}
	if o.maxSize > 0 && b.Len() > o.maxSize {
		return nil, fmt.Errorf("%w: empty graph needs %d bytes, limit %d", ErrMalloc, b.Len(), o.maxSize)
	}
	return &Graph{buf: b.Bytes(), opts: o}, nil
}

// LoadGraph wraps a persisted graph document. The document is validated
// with a full decode pass and must not carry trailing bytes. The returned
// graph is frozen and takes ownership of data.
func LoadGraph(data []byte, opts ...Option) (*Graph, error) {
	st, err := scanGraph(data)
	if err != nil {
		return nil, err
	}
	if st.Size != len(data) {
		return nil, bufferError("graph end", st.Size, fmt.Sprintf("%d trailing bytes", len(data)-st.Size))
	}
	return &Graph{buf: data[:st.Size:st.Size], opts: newOptions(opts), frozen: true}, nil
}

// Kind returns DocumentGraph.
func (g *Graph) Kind() DocumentKind { return DocumentGraph }

// Bytes returns the document. The slice aliases the graph buffer: it must
// not be modified and is invalidated by the next mutation.
func (g *Graph) Bytes() []byte { return g.buf }

// Len returns the document length in bytes.
func (g *Graph) Len() int { return len(g.buf) }

// Cap returns the allocated buffer size in bytes.
func (g *Graph) Cap() int { return cap(g.buf) }

// Frozen reports whether Freeze succeeded (or the graph was loaded).
func (g *Graph) Frozen() bool { return g.frozen }

// Name returns the graph's @id, or an empty URIRef for anonymous graphs.
func (g *Graph) Name() (Term, error) {
	if err := g.checkLive(); err != nil {
		return nil, err
	}
	name, _, err := decodeGraphStart(g.buf, 0)
	return name, err
}

// Stats decodes the whole document and reports node, triple and byte counts.
func (g *Graph) Stats() (Stats, error) {
	if err := g.checkLive(); err != nil {
		return Stats{}, err
	}
	return scanGraph(g.buf)
}

// NewBNode allocates a blank node from the graph's counter.
func (g *Graph) NewBNode() BNode {
	return g.opts.counter.Next()
}

// Add inserts t. See AddTriple.
func (g *Graph) Add(t Triple) error {
	return g.AddTriple(t.S, t.P, t.O)
}

// AddTriple inserts the triple (s, p, o).
//
// The subject must be a URIRef or a BNode, the predicate a URIRef other
// than a reserved keyword, and the object a URIRef, BNode or Literal;
// otherwise ErrArg is returned. The document is rescanned from the start:
// when a node for s exists, the pair is spliced in before that node's
// closing break, shifting the rest of the document; otherwise a new node
// is inserted at the end of the node list. On any error the buffer is
// left unchanged.
func (g *Graph) AddTriple(s Term, p URIRef, o Term) error {
	if err := g.checkLive(); err != nil {
		return err
	}
	if g.frozen {
		return argError("graph is frozen")
	}
	if !isResource(s) {
		return argError("subject must be a URIRef or BNode, got %s", kindOf(s))
	}
	if p.IsZero() || reservedKey(p) {
		return argError("predicate %s is not a usable URIRef", p)
	}
	switch obj := o.(type) {
	case URIRef:
		if obj.IsZero() {
			return argError("object is an empty URIRef")
		}
	case BNode:
		if len(obj.raw) == 0 {
			return argError("object is an empty BNode")
		}
	case Literal:
		if len(obj.raw) == 0 {
			return argError("object is an empty Literal")
		}
	default:
		return argError("object must be a URIRef, BNode or Literal, got %s", kindOf(o))
	}

	_, off, err := decodeGraphStart(g.buf, 0)
	if err != nil {
		return err
	}
	for {
		subject, next, err := decodeNodeStart(g.buf, off)
		if errors.Is(err, ErrNoItem) {
			return g.insertNode(off, s, p, o)
		}
		if err != nil {
			return err
		}
		end, _, err := decodePairs(g.buf, next)
		if err != nil {
			return err
		}
		if Equal(subject, s) {
			chunk := make([]byte, 0, len(p.raw)+len(o.Bytes()))
			chunk = append(append(chunk, p.raw...), o.Bytes()...)
			return g.splice(end, chunk)
		}
		if off, err = decodeNodeEnd(g.buf, end); err != nil {
			return err
		}
	}
}

// insertNode encodes a complete node for s holding (p, o) and splices it
// in at the node list terminator, leaving the closing breaks in place.
func (g *Graph) insertNode(at int, s Term, p URIRef, o Term) error {
	var b bytes.Buffer
	enc := encMode.NewEncoder(&b)
	if err := encodeNodeStart(enc, s); err != nil {
		return err
	}
	if err := encodePair(enc, p, o); err != nil {
		return err
	}
	if err := encodeNodeEnd(enc); err != nil {
		return err
	}
	return g.splice(at, b.Bytes())
}

// splice inserts chunk at offset at, shifting the tail of the document to
// the right and growing the buffer first if needed.
func (g *Graph) splice(at int, chunk []byte) error {
	tail := len(g.buf)
	size := tail + len(chunk)
	if g.opts.maxSize > 0 && size > g.opts.maxSize {
		return fmt.Errorf("%w: %d bytes needed, limit %d", ErrMalloc, size, g.opts.maxSize)
	}
	if size > cap(g.buf) {
		newCap := max(2*cap(g.buf), size)
		if g.opts.maxSize > 0 {
			newCap = min(newCap, g.opts.maxSize)
		}
		grown := make([]byte, tail, newCap)
		copy(grown, g.buf)
		g.opts.logger.Debug("graph buffer grown",
			slog.Int("from", cap(g.buf)),
			slog.Int("to", newCap))
		g.buf = grown
	}
	g.buf = g.buf[:size]
	copy(g.buf[at+len(chunk):], g.buf[at:tail])
	copy(g.buf[at:], chunk)
	g.gen++
	g.opts.logger.Debug("triple spliced",
		slog.Int("offset", at),
		slog.Int("bytes", len(chunk)),
		slog.Int("shifted", tail-at))
	return nil
}

// Freeze validates the whole document and trims the buffer to its exact
// length. On failure the error is returned and the graph stays live and
// unchanged. Freezing a frozen graph is a no-op.
func (g *Graph) Freeze() error {
	if err := g.checkLive(); err != nil {
		return err
	}
	if g.frozen {
		return nil
	}
	st, err := scanGraph(g.buf)
	if err == nil && st.Size != len(g.buf) {
		err = bufferError("graph end", st.Size, fmt.Sprintf("%d trailing bytes", len(g.buf)-st.Size))
	}
	if err != nil {
		g.opts.logger.Warn("graph freeze failed", slog.String("error", err.Error()))
		return err
	}
	if cap(g.buf) != st.Size {
		trimmed := make([]byte, st.Size)
		copy(trimmed, g.buf)
		g.opts.logger.Debug("graph buffer trimmed",
			slog.Int("from", cap(g.buf)),
			slog.Int("to", st.Size))
		g.buf = trimmed
	}
	g.frozen = true
	return nil
}

// Release drops the buffer. Every later call on the graph fails with
// ErrArg, and terms obtained from the graph must no longer be used.
func (g *Graph) Release() {
	g.buf = nil
	g.released = true
	g.gen++
}

func (g *Graph) checkLive() error {
	if g == nil || g.released {
		return argError("graph is released")
	}
	return nil
}

func isResource(t Term) bool {
	switch v := t.(type) {
	case URIRef:
		return !v.IsZero()
	case BNode:
		return len(v.raw) > 0
	default:
		return false
	}
}
