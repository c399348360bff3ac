package mvt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayerMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		parts layerParts
		which RequiredField
	}{
		{"no version", layerParts{name: "l", extent: 4096}, FieldVersion},
		{"no extent", layerParts{name: "l", version: 2}, FieldExtent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tile, err := New(buildTileView(buildLayerView(c.parts)))
			require.NoError(t, err)
			_, err = tile.GetLayer("l")
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMissingRequiredField))
			var mf *MissingFieldError
			require.True(t, errors.As(err, &mf))
			require.Equal(t, c.which, mf.Which)
		})
	}
}

func TestLayerZeroFeatures(t *testing.T) {
	layer := buildLayerView(layerParts{name: "empty", version: 2, extent: 4096})
	tile, err := New(buildTileView(layer))
	require.NoError(t, err)
	l, err := tile.GetLayer("empty")
	require.NoError(t, err)
	require.Equal(t, 0, l.FeatureCount())
}

func TestLayerFeatureViewBounds(t *testing.T) {
	f := buildFeatureView(featureParts{typ: GeomPoint})
	layer := buildLayerView(layerParts{name: "l", version: 2, extent: 4096, features: [][]byte{f}})
	tile, err := New(buildTileView(layer))
	require.NoError(t, err)
	l, err := tile.GetLayer("l")
	require.NoError(t, err)

	_, err = l.FeatureView(0)
	require.NoError(t, err)

	_, err = l.FeatureView(1)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = l.FeatureView(-1)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestLayerDuplicateKeysTolerated(t *testing.T) {
	layer := buildLayerView(layerParts{
		name: "l", version: 2, extent: 4096,
		keys: []string{"color", "size", "color"},
	})
	tile, err := New(buildTileView(layer))
	require.NoError(t, err)
	l, err := tile.GetLayer("l")
	require.NoError(t, err)
	require.Equal(t, []string{"color", "size", "color"}, l.Keys())
	require.Equal(t, []int{0, 2}, l.keyIndex["color"])
}
