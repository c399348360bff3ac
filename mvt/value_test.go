package mvt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValueVariants(t *testing.T) {
	v, err := parseValue(buildStringValue("hi"))
	require.NoError(t, err)
	s, ok := v.String()
	require.True(t, ok)
	require.Equal(t, "hi", s)

	v, err = parseValue(buildUintValue(7))
	require.NoError(t, err)
	u, ok := v.Uint64()
	require.True(t, ok)
	require.EqualValues(t, 7, u)

	v, err = parseValue(buildSintValue(-3))
	require.NoError(t, err)
	i, ok := v.Int64()
	require.True(t, ok)
	require.EqualValues(t, -3, i)

	v, err = parseValue(buildBoolValue(true))
	require.NoError(t, err)
	b, ok := v.Bool()
	require.True(t, ok)
	require.True(t, b)

	v, err = parseValue(buildDoubleValue(1.5))
	require.NoError(t, err)
	d, ok := v.Float64()
	require.True(t, ok)
	require.Equal(t, 1.5, d)
}

func TestParseValueEmptyIsNull(t *testing.T) {
	v, err := parseValue(nil)
	require.NoError(t, err)
	require.True(t, v.IsNull())
	require.Nil(t, v.Interface())
}

func TestParseValueFloatUpcastsToDouble(t *testing.T) {
	buf := tagVarint(nil, 99, 1) // unrecognized field before the real one, must be skipped
	buf = append(buf, encodeFloatField(2.5)...)
	v, err := parseValue(buf)
	require.NoError(t, err)
	d, ok := v.Float64()
	require.True(t, ok)
	require.InDelta(t, 2.5, d, 1e-6)
}
