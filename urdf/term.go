package urdf

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermURIRef represents a URI reference (compact id or CURIE).
	TermURIRef TermKind = iota
	// TermBNode represents a blank node.
	TermBNode
	// TermLiteral represents a literal term.
	TermLiteral
	// TermVariable represents a query variable.
	TermVariable
)

func (k TermKind) String() string {
	switch k {
	case TermURIRef:
		return "uriref"
	case TermBNode:
		return "bnode"
	case TermLiteral:
		return "literal"
	case TermVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// DocumentKind identifies the kind of document held by a buffer.
// Only DocumentGraph is implemented.
type DocumentKind uint8

const (
	// DocumentDataset is a set of named graphs.
	DocumentDataset DocumentKind = iota
	// DocumentGraph is a single (optionally named) graph.
	DocumentGraph
	// DocumentMapping is the result of evaluating a graph pattern.
	DocumentMapping
)

// Term is a value that can appear in RDF statements.
//
// A Term is a view over its canonical CBOR encoding. Terms returned by a
// Graph share the graph's buffer and are only valid until the graph is
// mutated or released. The set of implementations is closed: URIRef, BNode,
// Literal and Variable.
type Term interface {
	Kind() TermKind
	// Bytes returns the canonical CBOR encoding of the term.
	Bytes() []byte
	String() string
	isTerm()
}

// URIRef names a resource, either by a compact term id or by a CURIE
// (namespace id + local id).
type URIRef struct {
	raw []byte
}

// Kind returns TermURIRef.
func (u URIRef) Kind() TermKind { return TermURIRef }

// Bytes returns the CBOR encoding of the reference.
func (u URIRef) Bytes() []byte { return u.raw }

// IsZero reports whether u is the empty placeholder used for absent ids.
func (u URIRef) IsZero() bool { return len(u.raw) == 0 }

// ID returns the compact term id. ok is false for CURIEs.
func (u URIRef) ID() (id uint64, ok bool) {
	if len(u.raw) == 0 || u.raw[0]>>5 != majorUint {
		return 0, false
	}
	if err := decMode.Unmarshal(u.raw, &id); err != nil {
		return 0, false
	}
	return id, true
}

// CURIE returns the namespace and local ids. ok is false for compact ids.
func (u URIRef) CURIE() (ns, local uint64, ok bool) {
	var pair curiePair
	if !decodeTagged(u.raw, TagCURIE, &pair) {
		return 0, 0, false
	}
	return pair.NS, pair.Local, true
}

// String returns "<id>" or "<ns:local>".
func (u URIRef) String() string {
	if id, ok := u.ID(); ok {
		return "<" + strconv.FormatUint(id, 10) + ">"
	}
	if ns, local, ok := u.CURIE(); ok {
		return fmt.Sprintf("<%d:%d>", ns, local)
	}
	return "<>"
}

func (URIRef) isTerm() {}

// BNode is an anonymous resource identified by a session-unique id.
type BNode struct {
	raw []byte
}

// Kind returns TermBNode.
func (b BNode) Kind() TermKind { return TermBNode }

// Bytes returns the CBOR encoding of the blank node.
func (b BNode) Bytes() []byte { return b.raw }

// ID returns the blank node identifier.
func (b BNode) ID() uint64 {
	var id uint64
	decodeTagged(b.raw, TagBNode, &id)
	return id
}

// String returns the blank node identifier prefixed with "_:b".
func (b BNode) String() string { return "_:b" + strconv.FormatUint(b.ID(), 10) }

func (BNode) isTerm() {}

// LiteralForm distinguishes the encodings a Literal can take.
type LiteralForm uint8

const (
	// LiteralString is a plain text literal.
	LiteralString LiteralForm = iota
	// LiteralFloat is a single-precision float literal.
	LiteralFloat
	// LiteralDate is an epoch-seconds date literal.
	LiteralDate
	// LiteralTyped is a lexical form paired with a datatype URIRef.
	LiteralTyped
)

// Literal carries a lexical value, optionally typed.
type Literal struct {
	raw []byte
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// Bytes returns the CBOR encoding of the literal.
func (l Literal) Bytes() []byte { return l.raw }

// Form reports how the literal is encoded.
func (l Literal) Form() LiteralForm {
	if len(l.raw) == 0 {
		return LiteralString
	}
	switch l.raw[0] >> 5 {
	case majorSimple:
		return LiteralFloat
	case majorTag:
		return LiteralDate
	case majorMap:
		return LiteralTyped
	default:
		return LiteralString
	}
}

// Float32 returns the value of a float literal.
func (l Literal) Float32() (float32, bool) {
	if l.Form() != LiteralFloat {
		return 0, false
	}
	var f float32
	if err := decMode.Unmarshal(l.raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Unix returns the epoch seconds of a date literal.
func (l Literal) Unix() (uint64, bool) {
	var ts uint64
	if !decodeTagged(l.raw, TagEpoch, &ts) {
		return 0, false
	}
	return ts, true
}

// Time returns the UTC time of a date literal.
func (l Literal) Time() (time.Time, bool) {
	ts, ok := l.Unix()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(ts), 0).UTC(), true
}

// Datatype returns the datatype of a typed literal.
func (l Literal) Datatype() (URIRef, bool) {
	if l.Form() != LiteralTyped {
		return URIRef{}, false
	}
	var tl typedLiteral
	if err := decMode.Unmarshal(l.raw, &tl); err != nil {
		return URIRef{}, false
	}
	return URIRef{raw: tl.Datatype}, true
}

// Lexical returns the lexical form of the literal. Floats use the shortest
// representation that round-trips; dates use RFC 3339 in UTC.
func (l Literal) Lexical() string {
	switch l.Form() {
	case LiteralFloat:
		f, _ := l.Float32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case LiteralDate:
		t, _ := l.Time()
		return t.Format(time.RFC3339)
	case LiteralTyped:
		var tl typedLiteral
		_ = decMode.Unmarshal(l.raw, &tl)
		return tl.Value
	default:
		var s string
		_ = decMode.Unmarshal(l.raw, &s)
		return s
	}
}

// String returns a quoted lexical form with an optional datatype suffix.
func (l Literal) String() string {
	quoted := strconv.Quote(l.Lexical())
	switch l.Form() {
	case LiteralFloat:
		return quoted + "^^xsd:float"
	case LiteralDate:
		return quoted + "^^xsd:dateTime"
	case LiteralTyped:
		dt, _ := l.Datatype()
		return quoted + "^^" + dt.String()
	default:
		return quoted
	}
}

func (Literal) isTerm() {}

// Variable is a placeholder in a graph pattern, identified by its index in
// a mapping.
type Variable struct {
	raw []byte
}

// Kind returns TermVariable.
func (v Variable) Kind() TermKind { return TermVariable }

// Bytes returns the CBOR encoding of the variable.
func (v Variable) Bytes() []byte { return v.raw }

// Index returns the mapping index of the variable.
func (v Variable) Index() uint64 {
	var idx uint64
	decodeTagged(v.raw, TagVariable, &idx)
	return idx
}

// String returns "?" followed by the variable index.
func (v Variable) String() string { return "?" + strconv.FormatUint(v.Index(), 10) }

func (Variable) isTerm() {}

// Compare orders terms by kind, then encoded length, then bytes.
// It returns 0 iff both terms have the same kind and identical encodings.
// A nil term sorts before any other term.
func Compare(x, y Term) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	case y == nil:
		return 1
	}
	if x.Kind() != y.Kind() {
		return cmp.Compare(x.Kind(), y.Kind())
	}
	xb, yb := x.Bytes(), y.Bytes()
	if len(xb) != len(yb) {
		return cmp.Compare(len(xb), len(yb))
	}
	return bytes.Compare(xb, yb)
}

// Equal reports whether x and y are the same term.
func Equal(x, y Term) bool { return Compare(x, y) == 0 }

// Triple is an RDF triple.
type Triple struct {
	// S is the subject (URIRef or BNode).
	S Term
	// P is the predicate.
	P URIRef
	// O is the object (URIRef, BNode or Literal).
	O Term
}

// String returns the triple in compact statement syntax.
func (t Triple) String() string {
	s, o := "<nil>", "<nil>"
	if t.S != nil {
		s = t.S.String()
	}
	if t.O != nil {
		o = t.O.String()
	}
	return s + " " + t.P.String() + " " + o + " ."
}

// decodeTagged decodes the content of a tag item into v when the tag
// number matches.
func decodeTagged(raw []byte, number uint64, v any) bool {
	if len(raw) == 0 || raw[0]>>5 != majorTag {
		return false
	}
	var tag cbor.RawTag
	if err := decMode.Unmarshal(raw, &tag); err != nil || tag.Number != number {
		return false
	}
	return decMode.Unmarshal(tag.Content, v) == nil
}
