package urdf

import (
	"errors"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
)

// JSON-LD keywords, encoded as small unsigned integers.
const (
	KeywordID       = 0
	KeywordGraph    = 1
	KeywordType     = 2
	KeywordValue    = 3
	KeywordLanguage = 4
)

// CBOR tag numbers. TagCURIE, TagVariable and TagBNode are private-use
// numbers fixed by the document format.
const (
	TagEpoch    = 1
	TagCURIE    = 320
	TagVariable = 2019
	TagBNode    = 2020
)

// RDFType is the predicate rdf:type, which shares its id with @type.
var RDFType = NewURIRef(KeywordType)

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortNone,
		ShortestFloat: cbor.ShortestFloatNone,
		NaNConvert:    cbor.NaNConvertNone,
		InfConvert:    cbor.InfConvertNone,
		IndefLength:   cbor.IndefLengthAllowed,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		IndefLength: cbor.IndefLengthAllowed,
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

type curiePair struct {
	_     struct{} `cbor:",toarray"`
	NS    uint64
	Local uint64
}

// typedLiteral fields are encoded in declaration order: @value, then @type.
type typedLiteral struct {
	Value    string          `cbor:"3,keyasint"`
	Datatype cbor.RawMessage `cbor:"2,keyasint"`
}

// marshal encodes values whose Go types are always supported by the
// encoder, so an error indicates a programming mistake.
func marshal(v any) []byte {
	b, err := encMode.Marshal(v)
	if err != nil {
		panic("urdf: " + err.Error())
	}
	return b
}

// NewURIRef creates a URIRef represented as a term index.
func NewURIRef(id uint16) URIRef {
	return URIRef{raw: marshal(id)}
}

// NewCURIE creates a URIRef represented as a namespace index and a local index.
func NewCURIE(ns, local uint16) URIRef {
	return URIRef{raw: marshal(cbor.Tag{Number: TagCURIE, Content: [2]uint16{ns, local}})}
}

// NewBNode creates a blank node with an explicit identifier.
// Use a BNodeCounter to allocate fresh identifiers.
func NewBNode(id uint16) BNode {
	return BNode{raw: marshal(cbor.Tag{Number: TagBNode, Content: id})}
}

// NewLiteral creates a plain literal with a string lexical representation.
func NewLiteral(s string) Literal {
	return Literal{raw: marshal(s)}
}

// NewFloatLiteral creates a single-precision float literal.
func NewFloatLiteral(f float32) Literal {
	return Literal{raw: marshal(f)}
}

// NewDateLiteral creates a date literal from a Unix timestamp in seconds.
func NewDateLiteral(unix uint64) Literal {
	return Literal{raw: marshal(cbor.Tag{Number: TagEpoch, Content: unix})}
}

// NewTypedLiteral creates a literal combining a lexical representation and
// a datatype. The datatype must be a non-empty URIRef.
func NewTypedLiteral(lex string, datatype Term) (Literal, error) {
	dt, ok := datatype.(URIRef)
	if !ok || dt.IsZero() {
		return Literal{}, argError("datatype must be a URIRef, got %v", kindOf(datatype))
	}
	return Literal{raw: marshal(typedLiteral{Value: lex, Datatype: dt.raw})}, nil
}

// NewVariable creates a variable identified by its index in a mapping.
func NewVariable(idx uint16) Variable {
	return Variable{raw: marshal(cbor.Tag{Number: TagVariable, Content: idx})}
}

// BNodeCounter allocates blank node identifiers. The zero value starts at 0.
// It is safe for concurrent use; identifiers wrap around after 65535.
type BNodeCounter struct {
	next atomic.Uint32
}

// NewBNodeCounter returns a counter whose first identifier is start.
func NewBNodeCounter(start uint16) *BNodeCounter {
	c := &BNodeCounter{}
	c.next.Store(uint32(start))
	return c
}

// Next returns a blank node with a fresh identifier.
func (c *BNodeCounter) Next() BNode {
	n := c.next.Add(1) - 1
	return NewBNode(uint16(n))
}

// DecodeTerm classifies a buffer holding exactly one encoded term.
// Variables, which never appear inside graphs, are recognised here too.
func DecodeTerm(b []byte) (Term, error) {
	tok, err := DecodeToken(b, 0)
	if err != nil {
		return nil, wrapDecodeError("term", 0, err)
	}
	var (
		term Term
		next int
	)
	if tok.Kind == TokenTag && tok.Arg == TagVariable {
		next, err = expectUint(b, tok.Size, "term", "variable tag must be followed by an unsigned int")
		term = Variable{raw: b[:next:next]}
	} else {
		term, next, err = decodeValue(b, 0)
	}
	if err != nil {
		if errors.Is(err, ErrNoItem) {
			return nil, bufferError("term", 0, "unexpected break")
		}
		return nil, err
	}
	if next != len(b) {
		return nil, bufferError("term", next, "trailing bytes after term")
	}
	return term, nil
}

func kindOf(t Term) string {
	if t == nil {
		return "nil"
	}
	return t.Kind().String()
}
