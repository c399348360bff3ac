package mvt

import "github.com/atlasdatatech/mvt/internal/pbf"

// Layer field numbers.
const (
	layerFieldFeatures = 2
	layerFieldKeys     = 3
	layerFieldValues   = 4
	layerFieldExtent   = 5
	layerFieldVersion  = 15
)

// Layer holds one tile layer's shared attribute tables and an ordered,
// lazily-decoded list of feature byte views. A Layer is immutable after
// construction and holds only references into the Tile's backing buffer.
type Layer struct {
	name    string
	version uint32
	extent  uint32

	keys     []string
	keyIndex map[string][]int
	values   [][]byte
	features [][]byte
}

// parseLayer materializes a layer's tables from its raw sub-message view.
// Unknown fields are skipped for forward compatibility.
func parseLayer(view []byte) (*Layer, error) {
	l := &Layer{keyIndex: make(map[string][]int)}
	var hasName, hasExtent, hasVersion bool

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
		case layerFieldName:
			name, err := s.String()
			if err != nil {
				return nil, err
			}
			l.name, hasName = name, true
		case layerFieldFeatures:
			view, err := s.Bytes()
			if err != nil {
				return nil, err
			}
			l.features = append(l.features, view)
		case layerFieldKeys:
			key, err := s.String()
			if err != nil {
				return nil, err
			}
			l.keyIndex[key] = append(l.keyIndex[key], len(l.keys))
			l.keys = append(l.keys, key)
		case layerFieldValues:
			view, err := s.Bytes()
			if err != nil {
				return nil, err
			}
			l.values = append(l.values, view)
		case layerFieldExtent:
			extent, err := s.Uint32()
			if err != nil {
				return nil, err
			}
			l.extent, hasExtent = extent, true
		case layerFieldVersion:
			version, err := s.Uint32()
			if err != nil {
				return nil, err
			}
			l.version, hasVersion = version, true
		default:
			if err := s.Skip(wire); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case !hasName:
		return nil, &MissingFieldError{Which: FieldName}
	case !hasExtent:
		return nil, &MissingFieldError{Which: FieldExtent}
	case !hasVersion:
		return nil, &MissingFieldError{Which: FieldVersion}
	}
	return l, nil
}

// Name returns the layer's name.
func (l *Layer) Name() string { return l.name }

// Version returns the layer's declared MVT version (1 or 2).
func (l *Layer) Version() uint32 { return l.version }

// Extent returns the layer's local coordinate grid resolution.
func (l *Layer) Extent() uint32 { return l.extent }

// Keys returns the layer's shared key table in wire (insertion) order.
// The returned slice aliases the Layer's internal table and must not be
// mutated: a Layer is shared, unsynchronized, read-only state once
// constructed.
func (l *Layer) Keys() []string { return l.keys }

// FeatureCount returns the number of features in the layer.
func (l *Layer) FeatureCount() int { return len(l.features) }

// FeatureView returns the raw byte view of the i'th feature in wire order.
func (l *Layer) FeatureView(i int) ([]byte, error) {
	if i < 0 || i >= len(l.features) {
		return nil, ErrIndexOutOfRange
	}
	return l.features[i], nil
}

// GetFeature parses and binds the i'th feature.
func (l *Layer) GetFeature(i int) (*Feature, error) {
	view, err := l.FeatureView(i)
	if err != nil {
		return nil, err
	}
	return BindFeature(view, l)
}

// value parses and returns the layer's i'th value table entry. Value
// views are stored raw at layer-construction time and parsed on demand.
func (l *Layer) value(i int) (Value, error) {
	if i < 0 || i >= len(l.values) {
		return Value{}, ErrValueIndexOutOfRange
	}
	return parseValue(l.values[i])
}
