// Package pbf provides a minimal streaming reader over Protocol Buffer
// wire-format bytes: per-field tag iteration plus typed payload decoding.
// It knows nothing about any particular .proto schema.
package pbf

import (
	"errors"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated is returned when the backing buffer ends in the middle of a
// tag, varint, or length-delimited payload.
var ErrTruncated = errors.New("pbf: truncated field")

// Scanner walks the fields of a single protobuf message held in a byte
// view. The view is never copied; Bytes returns a slice of the original
// backing array, while String copies the payload into a new string.
type Scanner struct {
	buf     []byte
	curType protowire.Type
}

// NewScanner wraps buf for field-by-field iteration.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Next consumes the next field's tag and reports its number and wire type.
// ok is false once the buffer is exhausted. The payload has not been
// consumed yet; call one of the typed readers or Skip before calling Next
// again.
func (s *Scanner) Next() (field protowire.Number, wire protowire.Type, ok bool, err error) {
	if len(s.buf) == 0 {
		return 0, 0, false, nil
	}
	num, typ, n := protowire.ConsumeTag(s.buf)
	if n < 0 {
		return 0, 0, false, ErrTruncated
	}
	s.buf = s.buf[n:]
	s.curType = typ
	return num, typ, true, nil
}

// Skip discards the current field's payload according to its wire type.
func (s *Scanner) Skip(wire protowire.Type) error {
	n := protowire.ConsumeFieldValue(0, wire, s.buf)
	if n < 0 {
		return ErrTruncated
	}
	s.buf = s.buf[n:]
	return nil
}

func (s *Scanner) consumeVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(s.buf)
	if n < 0 {
		return 0, ErrTruncated
	}
	s.buf = s.buf[n:]
	return v, nil
}

// Uint32 reads a varint-encoded field and narrows it to uint32.
func (s *Scanner) Uint32() (uint32, error) {
	v, err := s.consumeVarint()
	return uint32(v), err
}

// Uint64 reads a varint-encoded field.
func (s *Scanner) Uint64() (uint64, error) {
	return s.consumeVarint()
}

// Int64 reads a varint-encoded field interpreted as a plain (non-zigzag)
// signed integer, matching protobuf's `int64`/`int32` encoding.
func (s *Scanner) Int64() (int64, error) {
	v, err := s.consumeVarint()
	return int64(v), err
}

// Sint64 reads a varint-encoded field and zig-zag decodes it, matching
// protobuf's `sint64`/`sint32` encoding.
func (s *Scanner) Sint64() (int64, error) {
	v, err := s.consumeVarint()
	return protowire.DecodeZigZag(v), err
}

// Bool reads a varint-encoded field as a boolean (nonzero is true).
func (s *Scanner) Bool() (bool, error) {
	v, err := s.consumeVarint()
	return v != 0, err
}

// Float reads a fixed32-encoded IEEE-754 single-precision field.
func (s *Scanner) Float() (float32, error) {
	v, n := protowire.ConsumeFixed32(s.buf)
	if n < 0 {
		return 0, ErrTruncated
	}
	s.buf = s.buf[n:]
	return math.Float32frombits(v), nil
}

// Double reads a fixed64-encoded IEEE-754 double-precision field.
func (s *Scanner) Double() (float64, error) {
	v, n := protowire.ConsumeFixed64(s.buf)
	if n < 0 {
		return 0, ErrTruncated
	}
	s.buf = s.buf[n:]
	return math.Float64frombits(v), nil
}

// Bytes reads a length-delimited field as a raw view into the backing
// buffer; no copy is made.
func (s *Scanner) Bytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(s.buf)
	if n < 0 {
		return nil, ErrTruncated
	}
	s.buf = s.buf[n:]
	return v, nil
}

// String reads a length-delimited field as a string.
func (s *Scanner) String() (string, error) {
	v, err := s.Bytes()
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// PackedUint32 reads a repeated uint32 field. It accepts both the packed
// length-delimited encoding (a single BytesType field holding concatenated
// varints) and, for tolerance of producers that emit one varint per
// occurrence under the same field number, a single unpacked varint — the
// caller is expected to call PackedUint32 once per occurrence of the field
// and concatenate the results when the wire type is VarintType.
func (s *Scanner) PackedUint32(wire protowire.Type) ([]uint32, error) {
	if wire == protowire.VarintType {
		v, err := s.consumeVarint()
		if err != nil {
			return nil, err
		}
		return []uint32{uint32(v)}, nil
	}
	payload, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, len(payload)/2)
	for len(payload) > 0 {
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return nil, ErrTruncated
		}
		out = append(out, uint32(v))
		payload = payload[n:]
	}
	return out, nil
}
