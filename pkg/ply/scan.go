package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// value holds one decoded scalar. Integer types keep an exact int64 so
// that narrowing conversions truncate the same way in ASCII and binary
// files; floats never pass through the integer path.
type value struct {
	f       float64
	i       int64
	isFloat bool
}

func (v value) asFloat32() float32 {
	if v.isFloat {
		return float32(v.f)
	}
	return float32(v.i)
}

func (v value) asFloat64() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.i)
}

// asInt32 narrows by two's-complement truncation, matching the lossy
// conversions native PLY readers perform.
func (v value) asInt32() int32 {
	if v.isFloat {
		return int32(int64(v.f))
	}
	return int32(v.i)
}

func (v value) asUint8() uint8 {
	if v.isFloat {
		return uint8(int64(v.f))
	}
	return uint8(v.i)
}

// asCount returns a list length. Count types are integer-only, enforced
// at header parse time.
func (v value) asCount() int {
	if v.isFloat {
		return int(int64(v.f))
	}
	return int(v.i)
}

// scanner decodes scalars from the data section of a PLY stream.
type scanner interface {
	scalar(t ScalarType) (value, error)
}

// binaryScanner reads fixed-width values in the header's declared byte
// order. The offset tracks bytes consumed since the data section start,
// for error reporting.
type binaryScanner struct {
	r      io.Reader
	order  binary.ByteOrder
	buf    [8]byte
	offset int64
}

func newBinaryScanner(r io.Reader, order binary.ByteOrder) *binaryScanner {
	return &binaryScanner{r: r, order: order}
}

func (s *binaryScanner) scalar(t ScalarType) (value, error) {
	b := s.buf[:t.Size()]
	if _, err := io.ReadFull(s.r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return value{}, fmt.Errorf("%w: at data offset %d", ErrTruncatedData, s.offset)
		}
		return value{}, fmt.Errorf("reading data: %w", err)
	}
	s.offset += int64(len(b))

	switch t {
	case Int8:
		return value{i: int64(int8(b[0]))}, nil
	case Uint8:
		return value{i: int64(b[0])}, nil
	case Int16:
		return value{i: int64(int16(s.order.Uint16(b)))}, nil
	case Uint16:
		return value{i: int64(s.order.Uint16(b))}, nil
	case Int32:
		return value{i: int64(int32(s.order.Uint32(b)))}, nil
	case Uint32:
		return value{i: int64(s.order.Uint32(b))}, nil
	case Float32:
		return value{f: float64(math.Float32frombits(s.order.Uint32(b))), isFloat: true}, nil
	case Float64:
		return value{f: math.Float64frombits(s.order.Uint64(b)), isFloat: true}, nil
	default:
		return value{}, fmt.Errorf("%w: unknown scalar type %d", ErrMalformedData, int(t))
	}
}

// asciiScanner reads whitespace-delimited tokens. Row boundaries are not
// enforced; PLY text data is a flat token stream.
type asciiScanner struct {
	s      *bufio.Scanner
	tokens int64
}

func newASCIIScanner(r io.Reader) *asciiScanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &asciiScanner{s: s}
}

func (s *asciiScanner) scalar(t ScalarType) (value, error) {
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			return value{}, fmt.Errorf("reading data: %w", err)
		}
		return value{}, fmt.Errorf("%w: after %d values", ErrUnexpectedEOF, s.tokens)
	}
	s.tokens++
	tok := s.s.Text()

	switch t {
	case Float32:
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return value{}, fmt.Errorf("%w: %q is not a number", ErrMalformedData, tok)
		}
		return value{f: f, isFloat: true}, nil
	case Float64:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return value{}, fmt.Errorf("%w: %q is not a number", ErrMalformedData, tok)
		}
		return value{f: f, isFloat: true}, nil
	default:
		// All integer widths parse through int64 (covers uint32 range);
		// out-of-range values for the declared width truncate on store,
		// the same as the binary encodings.
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return value{}, fmt.Errorf("%w: %q is not an integer", ErrMalformedData, tok)
		}
		return value{i: n}, nil
	}
}
