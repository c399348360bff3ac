package mvt

import (
	"fmt"

	"github.com/atlasdatatech/mvt/internal/pbf"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueUint
	ValueInt
	ValueDouble
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "bool"
	case ValueUint:
		return "uint"
	case ValueInt:
		return "int"
	case ValueDouble:
		return "double"
	case ValueString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the tagged sum the MVT wire format's Value message decodes to.
// The zero Value is ValueNull.
type Value struct {
	kind ValueKind
	b    bool
	u    uint64
	i    int64
	d    float64
	s    string
}

// Kind reports which variant is populated.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value carries no payload.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// Bool returns the boolean payload; ok is false for any other kind.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == ValueBool }

// Uint64 returns the unsigned integer payload; ok is false for any other kind.
func (v Value) Uint64() (uint64, bool) { return v.u, v.kind == ValueUint }

// Int64 returns the signed integer payload; ok is false for any other kind.
func (v Value) Int64() (int64, bool) { return v.i, v.kind == ValueInt }

// Float64 returns the floating point payload (FLOAT and DOUBLE both land
// here); ok is false for any other kind.
func (v Value) Float64() (float64, bool) { return v.d, v.kind == ValueDouble }

// String returns the string payload; ok is false for any other kind.
func (v Value) String() (string, bool) { return v.s, v.kind == ValueString }

// Interface unwraps the value into a plain Go value: nil, bool, uint64,
// int64, float64, or string.
func (v Value) Interface() any {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueUint:
		return v.u
	case ValueInt:
		return v.i
	case ValueDouble:
		return v.d
	case ValueString:
		return v.s
	default:
		return nil
	}
}

// GoString supports %#v and friends without exposing the unexported fields.
func (v Value) GoString() string {
	return fmt.Sprintf("mvt.Value{Kind: %s, Value: %#v}", v.kind, v.Interface())
}

// Field numbers of the MVT Value message.
const (
	valueFieldString = 1
	valueFieldFloat  = 2
	valueFieldDouble = 3
	valueFieldInt    = 4
	valueFieldUint   = 5
	valueFieldSint   = 6
	valueFieldBool   = 7
)

// parseValue decodes a raw Value sub-message view. Per the MVT
// spec the message carries at most one populated field; the first
// value-bearing field encountered wins and the scan stops early.
func parseValue(view []byte) (Value, error) {
	s := pbf.NewScanner(view)
	for {
		num, wire, ok, err := s.Next()
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Value{}, nil
		}
		switch num {
		case valueFieldString:
			str, err := s.String()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueString, s: str}, nil
		case valueFieldFloat:
			f, err := s.Float()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueDouble, d: float64(f)}, nil
		case valueFieldDouble:
			d, err := s.Double()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueDouble, d: d}, nil
		case valueFieldInt:
			i, err := s.Int64()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueInt, i: i}, nil
		case valueFieldUint:
			u, err := s.Uint64()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueUint, u: u}, nil
		case valueFieldSint:
			i, err := s.Sint64()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueInt, i: i}, nil
		case valueFieldBool:
			b, err := s.Bool()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: ValueBool, b: b}, nil
		default:
			if err := s.Skip(wire); err != nil {
				return Value{}, err
			}
		}
	}
}

// IdentifierKind discriminates the variants of Identifier.
type IdentifierKind uint8

const (
	IdentifierNull IdentifierKind = iota
	IdentifierUint
	IdentifierInt
	IdentifierDouble
	IdentifierString
)

// Identifier is the tagged sum a Feature's id decodes to. The MVT wire
// schema only ever declares ID as an optional uint64, but this type
// stays open to the fuller id union some producers smuggle through
// extensions so callers never have to special-case an unexpected wire
// encoding.
type Identifier struct {
	kind IdentifierKind
	u    uint64
	i    int64
	d    float64
	s    string
}

// Kind reports which variant is populated.
func (id Identifier) Kind() IdentifierKind { return id.kind }

// IsNull reports whether the feature had no id.
func (id Identifier) IsNull() bool { return id.kind == IdentifierNull }

// Uint64 returns the unsigned payload; ok is false for any other kind.
func (id Identifier) Uint64() (uint64, bool) { return id.u, id.kind == IdentifierUint }

// Int64 returns the signed payload; ok is false for any other kind.
func (id Identifier) Int64() (int64, bool) { return id.i, id.kind == IdentifierInt }

// Float64 returns the double payload; ok is false for any other kind.
func (id Identifier) Float64() (float64, bool) { return id.d, id.kind == IdentifierDouble }

// String returns the string payload; ok is false for any other kind.
func (id Identifier) String() (string, bool) { return id.s, id.kind == IdentifierString }
