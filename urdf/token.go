package urdf

import (
	"encoding/binary"
	"fmt"
)

// CBOR major types.
const (
	majorUint   = 0
	majorNegInt = 1
	majorBytes  = 2
	majorText   = 3
	majorArray  = 4
	majorMap    = 5
	majorTag    = 6
	majorSimple = 7
)

const (
	infoIndefinite = 31
	breakByte      = 0xff
)

// TokenKind classifies a single CBOR item head.
type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenUint
	TokenNegInt
	TokenByteString
	TokenByteStringStart
	TokenString
	TokenStringStart
	TokenArrayStart
	TokenIndefArrayStart
	TokenMapStart
	TokenIndefMapStart
	TokenTag
	TokenFloat
	TokenSimple
	TokenBool
	TokenNull
	TokenUndefined
	TokenBreak
)

var tokenKindNames = [...]string{
	TokenInvalid:         "invalid",
	TokenUint:            "uint",
	TokenNegInt:          "negint",
	TokenByteString:      "bytes",
	TokenByteStringStart: "bytes(_",
	TokenString:          "text",
	TokenStringStart:     "text(_",
	TokenArrayStart:      "array",
	TokenIndefArrayStart: "array(_",
	TokenMapStart:        "map",
	TokenIndefMapStart:   "map(_",
	TokenTag:             "tag",
	TokenFloat:           "float",
	TokenSimple:          "simple",
	TokenBool:            "bool",
	TokenNull:            "null",
	TokenUndefined:       "undefined",
	TokenBreak:           "break",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "invalid"
}

// Token is a zero-copy view of one CBOR item head (plus payload for
// strings) inside a buffer. Containers and tags are not descended into:
// an array, map or tag token covers only its head, and the enclosed items
// follow as separate tokens.
type Token struct {
	Start int
	Size  int
	Kind  TokenKind
	// Arg is the head argument: the integer value, string length, container
	// count, tag number or raw float bits.
	Arg uint64
}

// End returns the offset of the first byte after the token.
func (t Token) End() int { return t.Start + t.Size }

// Bytes returns the token's bytes within buf.
func (t Token) Bytes(buf []byte) []byte { return buf[t.Start:t.End():t.End()] }

func (t Token) String() string {
	return fmt.Sprintf("%s(%d) @%d+%d", t.Kind, t.Arg, t.Start, t.Size)
}

// isKeyword reports whether t is the minimal encoding of keyword kw.
func (t Token) isKeyword(kw uint64) bool {
	return t.Kind == TokenUint && t.Size == 1 && t.Arg == kw
}

// DecodeToken classifies the CBOR item starting at buf[off]. Callers
// advance past the token with Token.End. Truncated or reserved heads
// yield ErrCBOR.
func DecodeToken(buf []byte, off int) (Token, error) {
	if off < 0 || off >= len(buf) {
		return Token{}, &DecodeError{Op: "token", Offset: off, Detail: "insufficient bytes", Err: ErrCBOR}
	}
	b := buf[off]
	if b == breakByte {
		return Token{Start: off, Size: 1, Kind: TokenBreak}, nil
	}
	major, info := b>>5, b&0x1f

	head := 1
	var arg uint64
	switch {
	case info < 24:
		arg = uint64(info)
	case info <= 27:
		n := 1 << (info - 24)
		if len(buf)-off-1 < n {
			return Token{}, &DecodeError{Op: "token", Offset: off, Detail: "truncated head", Err: ErrCBOR}
		}
		p := buf[off+1 : off+1+n]
		switch n {
		case 1:
			arg = uint64(p[0])
		case 2:
			arg = uint64(binary.BigEndian.Uint16(p))
		case 4:
			arg = uint64(binary.BigEndian.Uint32(p))
		default:
			arg = binary.BigEndian.Uint64(p)
		}
		head += n
	case info == infoIndefinite:
		switch major {
		case majorBytes:
			return Token{Start: off, Size: 1, Kind: TokenByteStringStart}, nil
		case majorText:
			return Token{Start: off, Size: 1, Kind: TokenStringStart}, nil
		case majorArray:
			return Token{Start: off, Size: 1, Kind: TokenIndefArrayStart}, nil
		case majorMap:
			return Token{Start: off, Size: 1, Kind: TokenIndefMapStart}, nil
		}
		return Token{}, &DecodeError{Op: "token", Offset: off, Detail: "invalid indefinite length", Err: ErrCBOR}
	default:
		return Token{}, &DecodeError{Op: "token", Offset: off, Detail: "reserved additional information", Err: ErrCBOR}
	}

	tok := Token{Start: off, Size: head, Arg: arg}
	switch major {
	case majorUint:
		tok.Kind = TokenUint
	case majorNegInt:
		tok.Kind = TokenNegInt
	case majorBytes, majorText:
		if arg > uint64(len(buf)-off-head) {
			return Token{}, &DecodeError{Op: "token", Offset: off, Detail: "truncated string", Err: ErrCBOR}
		}
		tok.Size += int(arg)
		tok.Kind = TokenByteString
		if major == majorText {
			tok.Kind = TokenString
		}
	case majorArray:
		tok.Kind = TokenArrayStart
	case majorMap:
		tok.Kind = TokenMapStart
	case majorTag:
		tok.Kind = TokenTag
	case majorSimple:
		switch {
		case info >= 25:
			tok.Kind = TokenFloat
		case info == 20 || info == 21:
			tok.Kind = TokenBool
		case info == 22:
			tok.Kind = TokenNull
		case info == 23:
			tok.Kind = TokenUndefined
		default:
			tok.Kind = TokenSimple
		}
	}
	return tok, nil
}

// PeekToken is DecodeToken used as lookahead: it is typically called to
// test for a break before committing to decode an item.
func PeekToken(buf []byte, off int) (Token, error) {
	return DecodeToken(buf, off)
}

// Tokens returns the flat token stream of buf, stopping at the first
// error. It is meant for diagnostics.
func Tokens(buf []byte) ([]Token, error) {
	var toks []Token
	for off := 0; off < len(buf); {
		tok, err := DecodeToken(buf, off)
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		off = tok.End()
	}
	return toks, nil
}
