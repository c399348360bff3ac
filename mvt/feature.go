package mvt

import (
	"github.com/atlasdatatech/mvt/internal/pbf"
	"google.golang.org/protobuf/encoding/protowire"
)

// Feature field numbers.
const (
	featureFieldID       = 1
	featureFieldTags     = 2
	featureFieldType     = 3
	featureFieldGeometry = 4
)

// GeomType is a feature's geometry kind, per the MVT GeomType enum.
type GeomType uint8

const (
	GeomUnknown GeomType = iota
	GeomPoint
	GeomLineString
	GeomPolygon
)

func (t GeomType) String() string {
	switch t {
	case GeomPoint:
		return "Point"
	case GeomLineString:
		return "LineString"
	case GeomPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Warning is a non-fatal diagnostic returned alongside a successful
// decode.
type Warning uint8

const (
	WarnNone Warning = iota
	// WarnDuplicateKeys is returned by GetValue when the requested key
	// name resolves to more than one key-index in the layer's key
	// table (a malformed but tolerated producer output).
	WarnDuplicateKeys
)

func (w Warning) String() string {
	if w == WarnDuplicateKeys {
		return "duplicate keys with different tag ids are found"
	}
	return ""
}

// Feature is a lazily-bound cursor over one feature of a Layer. It holds
// a reference to layer and must not outlive it.
type Feature struct {
	layer    *Layer
	id       Identifier
	typ      GeomType
	tags     []uint32
	geometry []uint32
}

// BindFeature scans a feature's message once, capturing its id, geometry
// type, tag pairs, and geometry command stream. Unknown fields are
// skipped.
func BindFeature(view []byte, layer *Layer) (*Feature, error) {
	f := &Feature{layer: layer}
	s := pbf.NewScanner(view)
	for {
		num, wire, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch num {
		case featureFieldID:
			id, err := bindIdentifier(s, wire)
			if err != nil {
				return nil, err
			}
			f.id = id
		case featureFieldTags:
			tags, err := s.PackedUint32(wire)
			if err != nil {
				return nil, err
			}
			f.tags = append(f.tags, tags...)
		case featureFieldType:
			v, err := s.Uint32()
			if err != nil {
				return nil, err
			}
			f.typ = GeomType(v)
		case featureFieldGeometry:
			geom, err := s.PackedUint32(wire)
			if err != nil {
				return nil, err
			}
			f.geometry = append(f.geometry, geom...)
		default:
			if err := s.Skip(wire); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// bindIdentifier decodes the ID field according to whatever wire type the
// producer actually used, surfacing it as the matching Identifier
// variant. The MVT schema declares ID as a plain uint64, but this keeps
// faith with producers that smuggle a different representation through
// as a tagged sum rather than a plain uint64.
func bindIdentifier(s *pbf.Scanner, wire protowire.Type) (Identifier, error) {
	switch wire {
	case protowire.VarintType:
		u, err := s.Uint64()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{kind: IdentifierUint, u: u}, nil
	case protowire.Fixed64Type:
		d, err := s.Double()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{kind: IdentifierDouble, d: d}, nil
	case protowire.Fixed32Type:
		fl, err := s.Float()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{kind: IdentifierDouble, d: float64(fl)}, nil
	case protowire.BytesType:
		str, err := s.String()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{kind: IdentifierString, s: str}, nil
	default:
		if err := s.Skip(wire); err != nil {
			return Identifier{}, err
		}
		return Identifier{}, nil
	}
}

// Type returns the feature's geometry kind.
func (f *Feature) Type() GeomType { return f.typ }

// ID returns the feature's identifier, or a null Identifier if absent.
func (f *Feature) ID() Identifier { return f.id }

// Extent returns the extent of the layer this feature was bound from.
func (f *Feature) Extent() uint32 { return f.layer.Extent() }

// Version returns the version of the layer this feature was bound from.
func (f *Feature) Version() uint32 { return f.layer.Version() }

// GetValue looks up key in the layer's key table and scans the feature's
// tag pairs for a matching key-index, returning the associated value. A
// key absent from the layer's key table yields a null Value with no
// error. When the key name resolves to more than one key-index (a
// duplicate-keys producer), WarnDuplicateKeys accompanies a successful
// lookup.
func (f *Feature) GetValue(key string) (Value, Warning, error) {
	indices, ok := f.layer.keyIndex[key]
	if !ok {
		return Value{}, WarnNone, nil
	}
	if len(f.tags)%2 != 0 {
		return Value{}, WarnNone, ErrUnevenTags
	}
	for i := 0; i < len(f.tags); i += 2 {
		tagKey, tagVal := f.tags[i], f.tags[i+1]
		for _, idx := range indices {
			if int(tagKey) != idx {
				continue
			}
			val, err := f.layer.value(int(tagVal))
			if err != nil {
				return Value{}, WarnNone, err
			}
			warn := WarnNone
			if len(indices) > 1 {
				warn = WarnDuplicateKeys
			}
			return val, warn, nil
		}
	}
	return Value{}, WarnNone, nil
}

// Properties decodes every tag pair into a key→Value map. On a duplicate
// key name, the later tag pair overwrites the earlier one.
func (f *Feature) Properties() (map[string]Value, error) {
	if len(f.tags)%2 != 0 {
		return nil, ErrUnevenTags
	}
	props := make(map[string]Value, len(f.tags)/2)
	for i := 0; i < len(f.tags); i += 2 {
		keyIdx, valIdx := int(f.tags[i]), int(f.tags[i+1])
		if keyIdx < 0 || keyIdx >= len(f.layer.keys) {
			return nil, ErrKeyIndexOutOfRange
		}
		val, err := f.layer.value(valIdx)
		if err != nil {
			return nil, err
		}
		props[f.layer.keys[keyIdx]] = val
	}
	return props, nil
}
