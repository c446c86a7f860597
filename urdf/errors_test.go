package urdf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		status int
	}{
		{nil, "", StatusOK},
		{io.EOF, "", StatusOK},
		{ErrNoItem, ErrCodeNoItem, StatusNoItem},
		{ErrArg, ErrCodeArg, StatusArgError},
		{ErrCBOR, ErrCodeCBOR, StatusCBORError},
		{ErrBuffer, ErrCodeBuffer, StatusBufferError},
		{ErrMalloc, ErrCodeMalloc, StatusMallocError},
		{ErrNotImplemented, ErrCodeNotImplemented, StatusBufferError},
		{bufferError("value", 3, "bad"), ErrCodeBuffer, StatusBufferError},
		{argError("subject %d", 1), ErrCodeArg, StatusArgError},
		{fmt.Errorf("outer: %w", &DecodeError{Op: "token", Err: ErrCBOR}), ErrCodeCBOR, StatusCBORError},
		{&DecodeError{Op: "value", Err: errors.New("bad float")}, ErrCodeBuffer, StatusBufferError},
		{errors.New("unclassified"), ErrCodeIO, StatusBufferError},
		{&fs.PathError{Op: "open", Path: "g.cbor", Err: fs.ErrNotExist}, ErrCodeIO, StatusBufferError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err), "%v", tt.err)
		assert.Equal(t, tt.status, Status(tt.err), "%v", tt.err)
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := bufferError("node start", 12, "expected indefinite map")
	assert.Equal(t, "node start (offset 12): expected indefinite map: urdf: malformed buffer", err.Error())
	assert.ErrorIs(t, err, ErrBuffer)

	err = wrapDecodeError("graph start", 0, ErrCBOR)
	assert.Equal(t, "graph start (offset 0): urdf: cbor decode failed", err.Error())

	// Existing context is kept.
	inner := bufferError("value", 7, "bad")
	assert.Same(t, inner, wrapDecodeError("pair", 5, inner))
	assert.Equal(t, ErrNoItem, wrapDecodeError("pair", 5, ErrNoItem))
	assert.NoError(t, wrapDecodeError("pair", 5, nil))
}
