package urdf

import (
	"errors"
	"fmt"
	"io"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeArg indicates a term of the wrong kind was passed to an API.
	ErrCodeArg ErrorCode = "ARG_ERROR"
	// ErrCodeBuffer indicates bytes that do not match the document grammar.
	ErrCodeBuffer ErrorCode = "BUFFER_ERROR"
	// ErrCodeNoItem indicates the end of a sequence.
	ErrCodeNoItem ErrorCode = "NO_ITEM"
	// ErrCodeCBOR indicates the underlying CBOR item could not be decoded.
	ErrCodeCBOR ErrorCode = "CBOR_ERROR"
	// ErrCodeMalloc indicates a buffer could not grow.
	ErrCodeMalloc ErrorCode = "MALLOC_ERROR"
	// ErrCodeNotImplemented indicates a declared but unsupported feature.
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrCodeIO indicates an error from outside the codec, such as a file
	// that could not be read.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

var (
	// ErrArg indicates a term of the wrong kind was passed to an API requiring
	// a specific role, e.g. a literal used as a subject.
	ErrArg = errors.New("urdf: invalid argument")
	// ErrBuffer indicates that the bytes at the current offset do not match
	// the expected grammar (malformed, corrupt or truncated input).
	ErrBuffer = errors.New("urdf: malformed buffer")
	// ErrNoItem marks the end of a node list, a pair list or a triple scan.
	// It is not a failure.
	ErrNoItem = errors.New("urdf: no item")
	// ErrCBOR indicates that a single CBOR item could not be decoded,
	// e.g. because the buffer ends in the middle of it.
	ErrCBOR = errors.New("urdf: cbor decode failed")
	// ErrMalloc indicates that a buffer would exceed its configured maximum size.
	ErrMalloc = errors.New("urdf: buffer size limit exceeded")
	// ErrNotImplemented indicates a declared feature (datasets, mappings,
	// multi-valued objects) that has no implementation.
	ErrNotImplemented = errors.New("urdf: not implemented")
)

// Status codes shared with device firmware.
const (
	StatusOK          = 0
	StatusNoItem      = -1
	StatusCBORError   = -2
	StatusBufferError = -3
	StatusArgError    = -4
	StatusMallocError = -5
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}
	switch {
	case errors.Is(err, ErrNoItem):
		return ErrCodeNoItem
	case errors.Is(err, ErrArg):
		return ErrCodeArg
	case errors.Is(err, ErrCBOR):
		return ErrCodeCBOR
	case errors.Is(err, ErrMalloc):
		return ErrCodeMalloc
	case errors.Is(err, ErrNotImplemented):
		return ErrCodeNotImplemented
	case errors.Is(err, ErrBuffer):
		return ErrCodeBuffer
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return ErrCodeBuffer
	}
	return ErrCodeIO
}

// Status maps an error onto the numeric status codes used by firmware logs.
// Firmware has no status for IO_ERROR or NOT_IMPLEMENTED; both map to
// StatusBufferError.
func Status(err error) int {
	switch Code(err) {
	case "":
		return StatusOK
	case ErrCodeNoItem:
		return StatusNoItem
	case ErrCodeCBOR:
		return StatusCBORError
	case ErrCodeArg:
		return StatusArgError
	case ErrCodeMalloc:
		return StatusMallocError
	default:
		return StatusBufferError
	}
}

// DecodeError provides structured context for decode failures.
type DecodeError struct {
	Op     string // Decode entry point (e.g., "graph start", "value")
	Offset int    // Byte offset in the buffer
	Detail string // Optional description of what was expected
	Err    error  // Underlying sentinel error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s (offset %d)", e.Op, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// bufferError reports a grammar mismatch at off.
func bufferError(op string, off int, detail string) error {
	return &DecodeError{Op: op, Offset: off, Detail: detail, Err: ErrBuffer}
}

// wrapDecodeError adds op/offset context unless err already carries it.
func wrapDecodeError(op string, off int, err error) error {
	if err == nil {
		return nil
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) || errors.Is(err, ErrNoItem) {
		return err
	}
	return &DecodeError{Op: op, Offset: off, Err: err}
}

func argError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrArg}, args...)...)
}
