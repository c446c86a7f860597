package urdf

import (
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// Document grammar (all maps and arrays use indefinite-length framing):
//
//	graph = map(_ [0 id] 1 array(_ node* break) break
//	node  = map(_ [0 id] (key value)* break
//
// Keys are URIRefs; values are URIRefs, BNodes or Literals.

// expectUint decodes the unsigned int that must follow a tag head at off.
// Any other item, including a truncated one, is a grammar error.
func expectUint(buf []byte, off int, op, detail string) (int, error) {
	tok, err := DecodeToken(buf, off)
	if err != nil || tok.Kind != TokenUint {
		return 0, bufferError(op, off, detail)
	}
	return tok.End(), nil
}

// decodeValue classifies the term starting at off and returns a view of it
// together with the offset that follows it. A break yields ErrNoItem.
func decodeValue(buf []byte, off int) (Term, int, error) {
	tok, err := PeekToken(buf, off)
	if err != nil {
		return nil, off, wrapDecodeError("value", off, err)
	}
	if tok.Kind == TokenBreak {
		return nil, off, ErrNoItem
	}

	next := tok.End()
	view := func() []byte { return buf[off:next:next] }

	switch tok.Kind {
	case TokenUint:
		return URIRef{raw: view()}, next, nil
	case TokenString, TokenFloat:
		return Literal{raw: view()}, next, nil
	case TokenTag:
		switch tok.Arg {
		case TagCURIE:
			arr, err := DecodeToken(buf, next)
			if err != nil || arr.Kind != TokenArrayStart || arr.Arg != 2 {
				return nil, off, bufferError("value", next, "curie tag must be followed by a 2-array")
			}
			next = arr.End()
			for i := 0; i < 2; i++ {
				if next, err = expectUint(buf, next, "value", "curie ids must be unsigned ints"); err != nil {
					return nil, off, err
				}
			}
			return URIRef{raw: view()}, next, nil
		case TagBNode:
			if next, err = expectUint(buf, next, "value", "bnode tag must be followed by an unsigned int"); err != nil {
				return nil, off, err
			}
			return BNode{raw: view()}, next, nil
		case TagEpoch:
			if next, err = expectUint(buf, next, "value", "epoch tag must be followed by an unsigned int"); err != nil {
				return nil, off, err
			}
			return Literal{raw: view()}, next, nil
		}
		return nil, off, bufferError("value", off, "unsupported tag")
	case TokenMapStart:
		if next, err = decodeTypedLiteral(buf, tok); err != nil {
			return nil, off, err
		}
		return Literal{raw: view()}, next, nil
	case TokenArrayStart, TokenIndefArrayStart:
		return nil, off, &DecodeError{Op: "value", Offset: off, Detail: "multi-valued objects", Err: ErrNotImplemented}
	}
	return nil, off, bufferError("value", off, "unexpected "+tok.Kind.String())
}

// decodeTypedLiteral validates {3: lexical, 2: datatype} and returns the
// offset after it.
func decodeTypedLiteral(buf []byte, head Token) (int, error) {
	if head.Arg != 2 {
		return 0, bufferError("value", head.Start, "typed literal must have two entries")
	}
	off := head.End()
	key, err := DecodeToken(buf, off)
	if err != nil || !key.isKeyword(KeywordValue) {
		return 0, bufferError("value", off, "expected @value")
	}
	lex, err := DecodeToken(buf, key.End())
	if err != nil || lex.Kind != TokenString {
		return 0, bufferError("value", key.End(), "@value must be a text string")
	}
	off = lex.End()
	key, err = DecodeToken(buf, off)
	if err != nil || !key.isKeyword(KeywordType) {
		return 0, bufferError("value", off, "expected @type")
	}
	dt, next, err := decodeValue(buf, key.End())
	if err != nil || dt.Kind() != TermURIRef {
		return 0, bufferError("value", key.End(), "@type must be a URIRef")
	}
	return next, nil
}

// decodeID decodes an @id value, which must name a URIRef or a BNode.
func decodeID(buf []byte, off int, op string) (Term, int, error) {
	id, next, err := decodeValue(buf, off)
	if errors.Is(err, ErrNoItem) {
		return nil, off, bufferError(op, off, "missing @id value")
	}
	if err != nil {
		return nil, off, err
	}
	switch id.(type) {
	case URIRef, BNode:
		return id, next, nil
	default:
		return nil, off, bufferError(op, off, "@id must be a URIRef or BNode")
	}
}

// decodeGraphStart decodes the graph header up to and including the opening
// of the @graph array. An absent @id decodes to an empty URIRef.
func decodeGraphStart(buf []byte, off int) (Term, int, error) {
	const op = "graph start"
	tok, err := DecodeToken(buf, off)
	if err != nil {
		return nil, off, wrapDecodeError(op, off, err)
	}
	if tok.Kind != TokenIndefMapStart {
		return nil, off, bufferError(op, off, "expected indefinite map")
	}
	off = tok.End()

	if tok, err = DecodeToken(buf, off); err != nil {
		return nil, off, wrapDecodeError(op, off, err)
	}
	var id Term = URIRef{}
	if tok.isKeyword(KeywordID) {
		if id, off, err = decodeID(buf, tok.End(), op); err != nil {
			return nil, off, err
		}
		if tok, err = DecodeToken(buf, off); err != nil {
			return nil, off, wrapDecodeError(op, off, err)
		}
	}
	if !tok.isKeyword(KeywordGraph) {
		return nil, off, bufferError(op, off, "expected @graph")
	}
	off = tok.End()

	if tok, err = DecodeToken(buf, off); err != nil {
		return nil, off, wrapDecodeError(op, off, err)
	}
	if tok.Kind != TokenIndefArrayStart {
		return nil, off, bufferError(op, off, "expected indefinite array")
	}
	return id, tok.End(), nil
}

// decodeNodeStart decodes a node header. It returns ErrNoItem, without
// consuming anything, when the node list ends at off. An absent @id
// decodes to an empty URIRef.
func decodeNodeStart(buf []byte, off int) (Term, int, error) {
	const op = "node start"
	tok, err := PeekToken(buf, off)
	if err != nil {
		return nil, off, wrapDecodeError(op, off, err)
	}
	if tok.Kind == TokenBreak {
		return nil, off, ErrNoItem
	}
	if tok.Kind != TokenIndefMapStart {
		return nil, off, bufferError(op, off, "expected indefinite map")
	}
	next := tok.End()

	if tok, err = PeekToken(buf, next); err != nil {
		return nil, off, wrapDecodeError(op, next, err)
	}
	if !tok.isKeyword(KeywordID) {
		return URIRef{}, next, nil
	}
	id, next, err := decodeID(buf, tok.End(), op)
	if err != nil {
		return nil, off, err
	}
	return id, next, nil
}

// decodeKey decodes a predicate. A break yields ErrNoItem.
func decodeKey(buf []byte, off int) (URIRef, int, error) {
	key, next, err := decodeValue(buf, off)
	if err != nil {
		return URIRef{}, off, err
	}
	p, ok := key.(URIRef)
	if !ok {
		return URIRef{}, off, bufferError("key", off, "key must be a URIRef")
	}
	if reservedKey(p) {
		return URIRef{}, off, bufferError("key", off, "reserved keyword used as key")
	}
	return p, next, nil
}

// decodePair decodes exactly one key and one value.
func decodePair(buf []byte, off int) (int, error) {
	_, next, err := decodeKey(buf, off)
	if err != nil {
		return off, err
	}
	_, next, err = decodeValue(buf, next)
	if errors.Is(err, ErrNoItem) {
		return off, bufferError("pair", next, "key without value")
	}
	if err != nil {
		return off, err
	}
	return next, nil
}

// decodePairs skips the pairs of a node and returns the offset of the
// node's closing break, which is not consumed.
func decodePairs(buf []byte, off int) (int, int, error) {
	count := 0
	for {
		next, err := decodePair(buf, off)
		if errors.Is(err, ErrNoItem) {
			return off, count, nil
		}
		if err != nil {
			return off, count, err
		}
		off = next
		count++
	}
}

func decodeBreak(buf []byte, off int, op string) (int, error) {
	tok, err := DecodeToken(buf, off)
	if err != nil {
		return off, wrapDecodeError(op, off, err)
	}
	if tok.Kind != TokenBreak {
		return off, bufferError(op, off, "expected break")
	}
	return tok.End(), nil
}

// decodeNodeEnd consumes the break closing a node.
func decodeNodeEnd(buf []byte, off int) (int, error) {
	return decodeBreak(buf, off, "node end")
}

// decodeGraphEnd consumes the breaks closing the @graph array and the
// graph map.
func decodeGraphEnd(buf []byte, off int) (int, error) {
	off, err := decodeBreak(buf, off, "graph end")
	if err != nil {
		return off, err
	}
	return decodeBreak(buf, off, "graph end")
}

// reservedKey reports whether p collides with a keyword that cannot be used
// as a predicate. @type doubles as rdf:type and is allowed.
func reservedKey(p URIRef) bool {
	if len(p.raw) != 1 {
		return false
	}
	switch p.raw[0] {
	case KeywordID, KeywordGraph, KeywordValue, KeywordLanguage:
		return true
	}
	return false
}

// Stats summarises a scanned graph.
type Stats struct {
	Nodes   int
	Triples int
	// Size is the number of bytes the document occupies.
	Size int
}

// scanGraph performs one full decode pass over a graph document.
func scanGraph(buf []byte) (Stats, error) {
	var st Stats
	_, off, err := decodeGraphStart(buf, 0)
	if err != nil {
		return st, err
	}
	for {
		_, next, err := decodeNodeStart(buf, off)
		if errors.Is(err, ErrNoItem) {
			break
		}
		if err != nil {
			return st, err
		}
		end, pairs, err := decodePairs(buf, next)
		if err != nil {
			return st, err
		}
		if off, err = decodeNodeEnd(buf, end); err != nil {
			return st, err
		}
		st.Nodes++
		st.Triples += pairs
	}
	if off, err = decodeGraphEnd(buf, off); err != nil {
		return st, err
	}
	st.Size = off
	return st, nil
}

// encodeRaw writes an already-encoded term.
func encodeRaw(enc *cbor.Encoder, t Term) error {
	return enc.Encode(cbor.RawMessage(t.Bytes()))
}

// encodeGraphStart opens a graph map, writes the optional @id and opens the
// @graph array.
func encodeGraphStart(enc *cbor.Encoder, id Term) error {
	if err := enc.StartIndefiniteMap(); err != nil {
		return err
	}
	if id != nil {
		if err := enc.Encode(uint8(KeywordID)); err != nil {
			return err
		}
		if err := encodeRaw(enc, id); err != nil {
			return err
		}
	}
	if err := enc.Encode(uint8(KeywordGraph)); err != nil {
		return err
	}
	return enc.StartIndefiniteArray()
}

// encodeGraphEnd closes the @graph array and the graph map.
func encodeGraphEnd(enc *cbor.Encoder) error {
	if err := enc.EndIndefinite(); err != nil {
		return err
	}
	return enc.EndIndefinite()
}

// encodeNodeStart opens a node map and writes the optional @id.
func encodeNodeStart(enc *cbor.Encoder, id Term) error {
	if err := enc.StartIndefiniteMap(); err != nil {
		return err
	}
	if id == nil {
		return nil
	}
	if err := enc.Encode(uint8(KeywordID)); err != nil {
		return err
	}
	return encodeRaw(enc, id)
}

// encodeNodeEnd closes a node map.
func encodeNodeEnd(enc *cbor.Encoder) error {
	return enc.EndIndefinite()
}

// encodePair writes one predicate/object pair.
func encodePair(enc *cbor.Encoder, p URIRef, o Term) error {
	if err := encodeRaw(enc, p); err != nil {
		return err
	}
	return encodeRaw(enc, o)
}
