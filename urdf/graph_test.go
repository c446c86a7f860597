package urdf

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literalsDoc holds (0:0) with a date, a URIRef, a float and a string object.
var literalsDoc = []byte{
	0xBF, 0x01, 0x9F,
	0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00,
	0x08, 0xC1, 0x1A, 0x65, 0xBA, 0x78, 0xEE,
	0x06, 0x07,
	0x09, 0xFA, 0x40, 0x48, 0xF5, 0xC3,
	0x0A, 0x64, 0x70, 0x6C, 0x6F, 0x70,
	0xFF, 0xFF, 0xFF,
}

// treeDoc holds three nodes linked to each other.
var treeDoc = []byte{
	0xBF, 0x01, 0x9F,
	0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00,
	0x06, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x01,
	0x07, 0x08, 0xFF,
	0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x01,
	0x09, 0x0A, 0x0B, 0x0C, 0xFF,
	0xBF, 0x00, 0x08, 0x09, 0x0D, 0x0E, 0x0F, 0xFF,
	0xFF, 0xFF,
}

func mustGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(opts...)
	require.NoError(t, err)
	return g
}

func TestNewGraph(t *testing.T) {
	g := mustGraph(t)
	assert.Equal(t, []byte{0xBF, 0x01, 0x9F, 0xFF, 0xFF}, g.Bytes())
	assert.Equal(t, DefaultInitialCapacity, g.Cap())
	assert.Equal(t, DocumentGraph, g.Kind())

	name, err := g.Name()
	require.NoError(t, err)
	assert.True(t, name.(URIRef).IsZero())

	require.NoError(t, g.Freeze())
	assert.Equal(t, 5, g.Cap())
	assert.True(t, g.Frozen())
}

func TestNewNamedGraph(t *testing.T) {
	g, err := NewNamedGraph(NewCURIE(0, 0))
	require.NoError(t, err)
	require.NoError(t, g.Freeze())
	assert.Equal(t, []byte{0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00, 0x01, 0x9F, 0xFF, 0xFF}, g.Bytes())

	name, err := g.Name()
	require.NoError(t, err)
	assert.True(t, Equal(NewCURIE(0, 0), name))

	bn, err := NewNamedGraph(NewBNode(4))
	require.NoError(t, err)
	name, err = bn.Name()
	require.NoError(t, err)
	assert.Equal(t, TermBNode, name.Kind())

	_, err = NewNamedGraph(NewLiteral("g"))
	assert.ErrorIs(t, err, ErrArg)
	_, err = NewNamedGraph(nil)
	assert.ErrorIs(t, err, ErrArg)
	_, err = NewNamedGraph(BNode{})
	assert.ErrorIs(t, err, ErrArg)
	_, err = NewNamedGraph(URIRef{})
	assert.ErrorIs(t, err, ErrArg)
}

func TestAddTriple(t *testing.T) {
	g := mustGraph(t)
	s := NewCURIE(0, 0)
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.Freeze())

	assert.Equal(t, []byte{
		0xBF, 0x01, 0x9F,
		0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00, 0x06, 0x07, 0xFF,
		0xFF, 0xFF,
	}, g.Bytes())
}

func TestAddTriplesSameSubject(t *testing.T) {
	g := mustGraph(t)
	s := NewCURIE(0, 0)
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.Add(Triple{S: s, P: NewURIRef(8), O: NewURIRef(9)}))
	require.NoError(t, g.Freeze())

	assert.Equal(t, []byte{
		0xBF, 0x01, 0x9F,
		0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00, 0x06, 0x07, 0x08, 0x09, 0xFF,
		0xFF, 0xFF,
	}, g.Bytes())
}

func TestAddLiterals(t *testing.T) {
	g := mustGraph(t)
	s := NewCURIE(0, 0)
	require.NoError(t, g.AddTriple(s, NewURIRef(8), NewDateLiteral(1706719470)))
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.AddTriple(s, NewURIRef(9), NewFloatLiteral(3.14)))
	require.NoError(t, g.AddTriple(s, NewURIRef(10), NewLiteral("plop")))
	require.NoError(t, g.Freeze())

	assert.Equal(t, literalsDoc, g.Bytes())
	assert.Equal(t, 35, g.Len())
}

func TestAddTree(t *testing.T) {
	// Two blank nodes were allocated before this graph was built.
	g := mustGraph(t, WithBNodeCounter(NewBNodeCounter(2)))
	s1, s2, s3 := NewCURIE(0, 0), NewCURIE(0, 1), NewURIRef(8)

	require.NoError(t, g.AddTriple(s1, NewURIRef(6), s2))
	require.NoError(t, g.AddTriple(s1, NewURIRef(7), s3))
	require.NoError(t, g.AddTriple(s2, NewURIRef(9), g.NewBNode()))
	require.NoError(t, g.AddTriple(s2, NewURIRef(11), NewURIRef(12)))
	require.NoError(t, g.AddTriple(s3, NewURIRef(9), NewURIRef(13)))
	require.NoError(t, g.AddTriple(s3, NewURIRef(14), NewURIRef(15)))
	require.NoError(t, g.Freeze())

	want := []byte{
		0xBF, 0x01, 0x9F,
		0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x00,
		0x06, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x01,
		0x07, 0x08, 0xFF,
		0xBF, 0x00, 0xD9, 0x01, 0x40, 0x82, 0x00, 0x01,
		0x09, 0xD9, 0x07, 0xE4, 0x02, 0x0B, 0x0C, 0xFF,
		0xBF, 0x00, 0x08, 0x09, 0x0D, 0x0E, 0x0F, 0xFF,
		0xFF, 0xFF,
	}
	assert.Equal(t, want, g.Bytes())

	st, err := g.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Nodes: 3, Triples: 6, Size: 47}, st)
}

func TestAddTripleEarlierNode(t *testing.T) {
	g := mustGraph(t)
	s1, s2 := NewURIRef(20), NewURIRef(21)
	require.NoError(t, g.AddTriple(s1, NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.AddTriple(s2, NewURIRef(8), NewURIRef(9)))
	require.NoError(t, g.AddTriple(s1, NewURIRef(10), NewURIRef(11)))

	assert.Equal(t, []byte{
		0xBF, 0x01, 0x9F,
		0xBF, 0x00, 0x14, 0x06, 0x07, 0x0A, 0x0B, 0xFF,
		0xBF, 0x00, 0x15, 0x08, 0x09, 0xFF,
		0xFF, 0xFF,
	}, g.Bytes())
}

func TestAddTripleDuplicates(t *testing.T) {
	g := mustGraph(t)
	s := NewURIRef(20)
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))

	st, err := g.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Triples)
}

func TestAddTripleArgErrors(t *testing.T) {
	s := NewURIRef(20)
	typed, err := NewTypedLiteral("1", NewURIRef(30))
	require.NoError(t, err)

	tests := []struct {
		name string
		s    Term
		p    URIRef
		o    Term
	}{
		{"literal subject", NewLiteral("s"), NewURIRef(6), NewURIRef(7)},
		{"nil subject", nil, NewURIRef(6), NewURIRef(7)},
		{"variable subject", NewVariable(0), NewURIRef(6), NewURIRef(7)},
		{"empty subject", URIRef{}, NewURIRef(6), NewURIRef(7)},
		{"empty predicate", s, URIRef{}, NewURIRef(7)},
		{"@id predicate", s, NewURIRef(KeywordID), NewURIRef(7)},
		{"@graph predicate", s, NewURIRef(KeywordGraph), NewURIRef(7)},
		{"@value predicate", s, NewURIRef(KeywordValue), NewURIRef(7)},
		{"variable object", s, NewURIRef(6), NewVariable(1)},
		{"nil object", s, NewURIRef(6), nil},
		{"empty object", s, NewURIRef(6), URIRef{}},
		{"empty bnode subject", BNode{}, NewURIRef(6), NewURIRef(7)},
		{"empty bnode object", s, NewURIRef(6), BNode{}},
		{"empty literal object", s, NewURIRef(6), Literal{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t)
			require.NoError(t, g.AddTriple(s, NewURIRef(6), typed))
			before := append([]byte(nil), g.Bytes()...)

			err := g.AddTriple(tt.s, tt.p, tt.o)
			assert.ErrorIs(t, err, ErrArg)
			assert.Equal(t, ErrCodeArg, Code(err))
			assert.Equal(t, before, g.Bytes())

			require.NoError(t, g.AddTriple(s, NewURIRef(8), NewURIRef(9)))
			require.NoError(t, g.Freeze())
		})
	}
}

func TestAddTripleRDFType(t *testing.T) {
	g := mustGraph(t)
	require.NoError(t, g.AddTriple(NewURIRef(20), RDFType, NewURIRef(9)))
	assert.Equal(t, []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x02, 0x09, 0xFF, 0xFF, 0xFF}, g.Bytes())
}

func TestAddTripleMaxSize(t *testing.T) {
	g := mustGraph(t, WithMaxSize(16))
	s := NewCURIE(0, 0)
	require.NoError(t, g.AddTriple(s, NewURIRef(6), NewURIRef(7)))
	assert.Equal(t, 16, g.Len())
	before := append([]byte(nil), g.Bytes()...)

	err := g.AddTriple(s, NewURIRef(8), NewURIRef(9))
	require.ErrorIs(t, err, ErrMalloc)
	assert.Equal(t, StatusMallocError, Status(err))
	assert.Equal(t, before, g.Bytes())

	err = g.AddTriple(NewURIRef(21), NewURIRef(8), NewURIRef(9))
	require.ErrorIs(t, err, ErrMalloc)
	assert.Equal(t, before, g.Bytes())

	_, err = NewGraph(WithMaxSize(4))
	assert.ErrorIs(t, err, ErrMalloc)
}

func TestGraphGrowth(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := mustGraph(t, WithInitialCapacity(8), WithLogger(logger))
	assert.Equal(t, 8, g.Cap())
	for i := uint16(0); i < 50; i++ {
		require.NoError(t, g.AddTriple(NewURIRef(100+i), NewURIRef(6), NewLiteral("value")))
	}
	assert.Greater(t, g.Cap(), 8)
	assert.Contains(t, logs.String(), "graph buffer grown")
	assert.Contains(t, logs.String(), "triple spliced")

	st, err := g.Stats()
	require.NoError(t, err)
	assert.Equal(t, 50, st.Nodes)
	assert.Equal(t, g.Len(), st.Size)

	require.NoError(t, g.Freeze())
	assert.Equal(t, g.Len(), g.Cap())
	assert.Contains(t, logs.String(), "graph buffer trimmed")
}

func TestFreeze(t *testing.T) {
	g := mustGraph(t)
	require.NoError(t, g.AddTriple(NewURIRef(20), NewURIRef(6), NewURIRef(7)))
	require.NoError(t, g.Freeze())
	require.NoError(t, g.Freeze())

	err := g.AddTriple(NewURIRef(20), NewURIRef(8), NewURIRef(9))
	assert.ErrorIs(t, err, ErrArg)
}

func TestFreezeCorrupt(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tests := []struct {
		name string
		buf  []byte
	}{
		{"missing break", []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x06, 0x07, 0xFF, 0xFF}},
		{"trailing bytes", []byte{0xBF, 0x01, 0x9F, 0xFF, 0xFF, 0x00}},
		{"definite map", []byte{0xA1, 0x01, 0x80}},
		{"key without value", []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x06, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, WithLogger(logger))
			g.buf = tt.buf
			assert.Error(t, g.Freeze())
			assert.False(t, g.Frozen())
			assert.Equal(t, tt.buf, g.Bytes())
		})
	}
	assert.Contains(t, logs.String(), "graph freeze failed")
}

func TestLoadGraph(t *testing.T) {
	data := append([]byte(nil), treeDoc...)
	g, err := LoadGraph(data)
	require.NoError(t, err)
	assert.True(t, g.Frozen())
	assert.Equal(t, 44, g.Len())

	st, err := g.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Nodes: 3, Triples: 6, Size: 44}, st)

	assert.ErrorIs(t, g.AddTriple(NewURIRef(8), NewURIRef(6), NewURIRef(7)), ErrArg)

	_, err = LoadGraph(append(append([]byte(nil), treeDoc...), 0x00))
	assert.ErrorIs(t, err, ErrBuffer)

	_, err = LoadGraph(treeDoc[:20])
	assert.Error(t, err)

	_, err = LoadGraph(nil)
	assert.ErrorIs(t, err, ErrCBOR)
}

func TestLoadGraphRejectsVariables(t *testing.T) {
	doc := []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0xD9, 0x07, 0xE3, 0x00, 0x06, 0x07, 0xFF, 0xFF, 0xFF}
	_, err := LoadGraph(doc)
	assert.ErrorIs(t, err, ErrBuffer)
}

func TestLoadGraphMultiValued(t *testing.T) {
	doc := []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x06, 0x82, 0x07, 0x08, 0xFF, 0xFF, 0xFF}
	_, err := LoadGraph(doc)
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestRelease(t *testing.T) {
	g := mustGraph(t)
	require.NoError(t, g.AddTriple(NewURIRef(20), NewURIRef(6), NewURIRef(7)))
	g.Release()

	assert.Nil(t, g.Bytes())
	assert.ErrorIs(t, g.AddTriple(NewURIRef(20), NewURIRef(6), NewURIRef(7)), ErrArg)
	assert.ErrorIs(t, g.Freeze(), ErrArg)
	_, err := g.Stats()
	assert.ErrorIs(t, err, ErrArg)

	var c Cursor
	_, err = g.FindNextTriple(&c)
	assert.ErrorIs(t, err, ErrArg)
}

func TestNotImplemented(t *testing.T) {
	_, err := NewDataset()
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, ErrCodeNotImplemented, Code(err))

	var ds Dataset
	assert.Equal(t, DocumentDataset, ds.Kind())
	assert.ErrorIs(t, ds.AddGraph(mustGraph(t)), ErrNotImplemented)

	g := mustGraph(t)
	var c Cursor
	_, err = g.FindNextMapping(mustGraph(t), &c)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
