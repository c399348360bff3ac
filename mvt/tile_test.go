package mvt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTileLayerNames(t *testing.T) {
	a := buildLayerView(layerParts{name: "roads", version: 2, extent: 4096})
	b := buildLayerView(layerParts{name: "buildings", version: 2, extent: 4096})

	tile, err := New(buildTileView(a, b))
	require.NoError(t, err)
	require.Equal(t, []string{"buildings", "roads"}, tile.LayerNames())
}

func TestTileEmpty(t *testing.T) {
	tile, err := New(nil)
	require.NoError(t, err)
	require.Empty(t, tile.LayerNames())
}

func TestTileGetLayerNotFound(t *testing.T) {
	tile, err := New(nil)
	require.NoError(t, err)

	_, err = tile.GetLayer("missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrLayerNotFound))
}

func TestTileMissingLayerName(t *testing.T) {
	noName := buildLayerView(layerParts{version: 2, extent: 4096, skipName: true})
	_, err := New(buildTileView(noName))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingLayerName))
}

func TestTileDuplicateLayerNamesLastWriteWins(t *testing.T) {
	first := buildLayerView(layerParts{name: "roads", version: 1, extent: 4096})
	second := buildLayerView(layerParts{name: "roads", version: 2, extent: 8192})

	tile, err := New(buildTileView(first, second))
	require.NoError(t, err)
	require.Equal(t, []string{"roads"}, tile.LayerNames())

	layer, err := tile.GetLayer("roads")
	require.NoError(t, err)
	require.EqualValues(t, 2, layer.Version())
	require.EqualValues(t, 8192, layer.Extent())
}

func TestTileUnknownTopLevelFieldIsSkipped(t *testing.T) {
	layer := buildLayerView(layerParts{name: "roads", version: 2, extent: 4096})
	buf := buildTileView(layer)
	buf = tagVarint(buf, 99, 12345) // unrecognized top-level field

	tile, err := New(buf)
	require.NoError(t, err)
	require.Equal(t, []string{"roads"}, tile.LayerNames())
}
