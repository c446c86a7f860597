package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/geoknoesis/urdf-go/urdf"
)

// ntWriter renders triples as N-Triples lines. The first write error is
// kept and returned by every later call.
type ntWriter struct {
	writer *bufio.Writer
	vocab  *Vocabulary
	err    error
}

func newNTWriter(w io.Writer, v *Vocabulary) *ntWriter {
	return &ntWriter{writer: bufio.NewWriter(w), vocab: v}
}

func (e *ntWriter) write(t urdf.Triple, node int) error {
	if e.err != nil {
		return e.err
	}
	s, err := e.renderResource(t.S, node)
	if err != nil {
		return err
	}
	p, err := e.vocab.IRI(t.P)
	if err != nil {
		return err
	}
	o, err := e.renderObject(t.O, node)
	if err != nil {
		return err
	}
	if _, err := e.writer.WriteString(s + " <" + p + "> " + o + " .\n"); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *ntWriter) flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntWriter) renderResource(t urdf.Term, node int) (string, error) {
	id, blank, err := e.vocab.resource(t, node)
	if err != nil {
		return "", err
	}
	if blank {
		return id, nil
	}
	return "<" + id + ">", nil
}

func (e *ntWriter) renderObject(t urdf.Term, node int) (string, error) {
	lit, ok := t.(urdf.Literal)
	if !ok {
		return e.renderResource(t, node)
	}
	dt, err := e.vocab.datatype(lit)
	if err != nil {
		return "", err
	}
	if dt == "" {
		return fmt.Sprintf("%q", lit.Lexical()), nil
	}
	return fmt.Sprintf("%q^^<%s>", lit.Lexical(), dt), nil
}

// WriteNTriples writes every triple of g to w in N-Triples syntax, resolving
// compact ids through v. The graph name, if any, is not written.
func WriteNTriples(w io.Writer, g *urdf.Graph, v *Vocabulary) error {
	enc := newNTWriter(w, v)
	var c urdf.Cursor
	for {
		t, err := g.FindNextTriple(&c)
		if errors.Is(err, urdf.ErrNoItem) {
			break
		}
		if err != nil {
			return err
		}
		if err := enc.write(t, c.NodeOffset()); err != nil {
			return err
		}
	}
	return enc.flush()
}
