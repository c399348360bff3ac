package mvt

import (
	"sort"

	"github.com/atlasdatatech/mvt/internal/pbf"
)

// tileFieldLayers is the Tile message's LAYERS field number.
const tileFieldLayers = 3

// Tile is the top-level index over an encoded MVT buffer: a mapping from
// layer name to the byte range of its (still unparsed) Layer sub-message.
// A Tile holds only a reference into buf; buf must outlive it.
type Tile struct {
	layers map[string][]byte
}

// New scans buf's top-level fields, opening a nested scan of each LAYERS
// sub-message to find its name. That scan skips every other field without
// decoding keys, values, features, or any other layer content. Duplicate layer
// names: the last one encountered wins.
func New(buf []byte) (*Tile, error) {
	t := &Tile{layers: make(map[string][]byte)}
	s := pbf.NewScanner(buf)
	for {
		num, wire, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if num != tileFieldLayers {
			if err := s.Skip(wire); err != nil {
				return nil, err
			}
			continue
		}
		view, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		name, err := layerName(view)
		if err != nil {
			return nil, err
		}
		t.layers[name] = view
	}
	return t, nil
}

// layerFieldName is the Layer message's NAME field number.
const layerFieldName = 1

// layerName walks every field of a Layer sub-message, skipping all but
// NAME, and returns the last name found.
func layerName(view []byte) (string, error) {
	s := pbf.NewScanner(view)
	name := ""
	found := false
	for {
		num, wire, ok, err := s.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if num != layerFieldName {
			if err := s.Skip(wire); err != nil {
				return "", err
			}
			continue
		}
		str, err := s.String()
		if err != nil {
			return "", err
		}
		name, found = str, true
	}
	if !found || name == "" {
		return "", ErrMissingLayerName
	}
	return name, nil
}

// LayerNames returns the tile's layer names in ascending order, giving
// callers a deterministic enumeration independent of wire order.
func (t *Tile) LayerNames() []string {
	names := make([]string, 0, len(t.layers))
	for name := range t.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layers exposes the raw name-to-view index for alternate iteration.
// The returned map must not be mutated.
func (t *Tile) Layers() map[string][]byte {
	return t.layers
}

// GetLayer fully parses the named layer on demand.
func (t *Tile) GetLayer(name string) (*Layer, error) {
	view, ok := t.layers[name]
	if !ok {
		return nil, &LayerNotFoundError{Name: name}
	}
	return parseLayer(view)
}
