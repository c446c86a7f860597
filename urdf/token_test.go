package urdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		kind TokenKind
		size int
		arg  uint64
	}{
		{"small uint", []byte{0x06}, TokenUint, 1, 6},
		{"uint8", []byte{0x18, 0x64}, TokenUint, 2, 100},
		{"uint16", []byte{0x19, 0x01, 0x63}, TokenUint, 3, 355},
		{"uint32", []byte{0x1A, 0x65, 0xBA, 0x78, 0xEE}, TokenUint, 5, 1706719470},
		{"uint64", []byte{0x1B, 0, 0, 0, 1, 0, 0, 0, 0}, TokenUint, 9, 1 << 32},
		{"negint", []byte{0x20}, TokenNegInt, 1, 0},
		{"bytes", []byte{0x42, 0x01, 0x02}, TokenByteString, 3, 2},
		{"text", []byte{0x64, 0x70, 0x6C, 0x6F, 0x70}, TokenString, 5, 4},
		{"indef bytes", []byte{0x5F}, TokenByteStringStart, 1, 0},
		{"indef text", []byte{0x7F}, TokenStringStart, 1, 0},
		{"array", []byte{0x82}, TokenArrayStart, 1, 2},
		{"indef array", []byte{0x9F}, TokenIndefArrayStart, 1, 0},
		{"map", []byte{0xA2}, TokenMapStart, 1, 2},
		{"indef map", []byte{0xBF}, TokenIndefMapStart, 1, 0},
		{"tag epoch", []byte{0xC1}, TokenTag, 1, TagEpoch},
		{"tag curie", []byte{0xD9, 0x01, 0x40}, TokenTag, 3, TagCURIE},
		{"tag bnode", []byte{0xD9, 0x07, 0xE4}, TokenTag, 3, TagBNode},
		{"float32", []byte{0xFA, 0x40, 0x48, 0xF5, 0xC3}, TokenFloat, 5, 0x4048F5C3},
		{"half float", []byte{0xF9, 0x3C, 0x00}, TokenFloat, 3, 0x3C00},
		{"false", []byte{0xF4}, TokenBool, 1, 20},
		{"null", []byte{0xF6}, TokenNull, 1, 22},
		{"undefined", []byte{0xF7}, TokenUndefined, 1, 23},
		{"simple", []byte{0xE0}, TokenSimple, 1, 0},
		{"break", []byte{0xFF}, TokenBreak, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := DecodeToken(tt.in, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.size, tok.Size)
			assert.Equal(t, tt.arg, tok.Arg)
			assert.Equal(t, tt.size, tok.End())
			assert.Equal(t, tt.in[:tt.size], tok.Bytes(tt.in))
		})
	}
}

func TestDecodeTokenErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		off  int
	}{
		{"empty", nil, 0},
		{"offset past end", []byte{0x06}, 1},
		{"negative offset", []byte{0x06}, -1},
		{"truncated head", []byte{0x19, 0x01}, 0},
		{"truncated string", []byte{0x64, 0x70}, 0},
		{"indefinite uint", []byte{0x1F}, 0},
		{"indefinite tag", []byte{0xDF}, 0},
		{"reserved info", []byte{0x1C}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.in, tt.off)
			assert.ErrorIs(t, err, ErrCBOR)
			assert.Equal(t, StatusCBORError, Status(err))
		})
	}
}

func TestTokens(t *testing.T) {
	toks, err := Tokens(literalsDoc)
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	assert.Equal(t, TokenIndefMapStart, toks[0].Kind)
	assert.Equal(t, TokenBreak, toks[len(toks)-1].Kind)
	assert.Equal(t, len(literalsDoc), toks[len(toks)-1].End())
	assert.Equal(t, "map(_(0) @0+1", toks[0].String())

	toks, err = Tokens([]byte{0xBF, 0x01, 0x19})
	assert.ErrorIs(t, err, ErrCBOR)
	assert.Len(t, toks, 2)
}

func TestDecodeSkeleton(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		code ErrorCode
	}{
		{"definite graph map", []byte{0xA2, 0x01, 0x80}, ErrCodeBuffer},
		{"missing @graph", []byte{0xBF, 0x02, 0x9F, 0xFF, 0xFF}, ErrCodeBuffer},
		{"definite node list", []byte{0xBF, 0x01, 0x80, 0xFF}, ErrCodeBuffer},
		{"literal graph id", []byte{0xBF, 0x00, 0x61, 0x61, 0x01, 0x9F, 0xFF, 0xFF}, ErrCodeBuffer},
		{"missing graph id", []byte{0xBF, 0x00, 0xFF}, ErrCodeBuffer},
		{"definite node", []byte{0xBF, 0x01, 0x9F, 0xA0, 0xFF, 0xFF}, ErrCodeBuffer},
		{"literal key", []byte{0xBF, 0x01, 0x9F, 0xBF, 0x61, 0x61, 0x07, 0xFF, 0xFF, 0xFF}, ErrCodeBuffer},
		{"reserved key", []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x03, 0x07, 0xFF, 0xFF, 0xFF}, ErrCodeBuffer},
		{"truncated node", []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x06}, ErrCodeCBOR},
		{"truncated graph", []byte{0xBF, 0x01, 0x9F}, ErrCodeCBOR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scanGraph(tt.buf)
			require.Error(t, err)
			assert.Equal(t, tt.code, Code(err), "%v", err)
		})
	}
}

func TestDecodeNodeStartAtEnd(t *testing.T) {
	_, off, err := decodeGraphStart(treeDoc, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, off)

	_, _, err = decodeNodeStart(treeDoc, len(treeDoc)-2)
	assert.ErrorIs(t, err, ErrNoItem)
}
