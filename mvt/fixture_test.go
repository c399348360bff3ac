package mvt

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Minimal MVT byte-fixture builders used only by tests in this package.
// These exist because mvt is a decode-only library (no
// encoding) — there is no production encoder to borrow from, so tests
// build raw wire bytes directly with protowire's Append helpers, the
// same primitives internal/pbf.Scanner consumes on the read side.

func tagVarint(buf []byte, field protowire.Number, v uint64) []byte {
	buf = protowire.AppendTag(buf, field, protowire.VarintType)
	return protowire.AppendVarint(buf, v)
}

func tagBytes(buf []byte, field protowire.Number, v []byte) []byte {
	buf = protowire.AppendTag(buf, field, protowire.BytesType)
	return protowire.AppendBytes(buf, v)
}

func tagString(buf []byte, field protowire.Number, v string) []byte {
	return tagBytes(buf, field, []byte(v))
}

func packedUint32(words ...uint32) []byte {
	var payload []byte
	for _, w := range words {
		payload = protowire.AppendVarint(payload, uint64(w))
	}
	return payload
}

// buildLayerView assembles a raw Layer sub-message from its parts.
type layerParts struct {
	name     string
	version  uint32
	extent   uint32
	keys     []string
	values   [][]byte // each a pre-encoded Value sub-message
	features [][]byte // each a pre-encoded Feature sub-message
	skipName bool
}

func buildLayerView(p layerParts) []byte {
	var buf []byte
	if !p.skipName {
		buf = tagString(buf, layerFieldName, p.name)
	}
	for _, f := range p.features {
		buf = tagBytes(buf, layerFieldFeatures, f)
	}
	for _, k := range p.keys {
		buf = tagString(buf, layerFieldKeys, k)
	}
	for _, v := range p.values {
		buf = tagBytes(buf, layerFieldValues, v)
	}
	// A zero extent or version leaves that field out of the message.
	if p.extent != 0 {
		buf = tagVarint(buf, layerFieldExtent, uint64(p.extent))
	}
	if p.version != 0 {
		buf = tagVarint(buf, layerFieldVersion, uint64(p.version))
	}
	return buf
}

func buildTileView(layers ...[]byte) []byte {
	var buf []byte
	for _, l := range layers {
		buf = tagBytes(buf, tileFieldLayers, l)
	}
	return buf
}

type featureParts struct {
	hasID    bool
	id       uint64
	typ      GeomType
	tags     []uint32
	geometry []uint32
}

func buildFeatureView(p featureParts) []byte {
	var buf []byte
	if p.hasID {
		buf = tagVarint(buf, featureFieldID, p.id)
	}
	if len(p.tags) > 0 {
		buf = tagBytes(buf, featureFieldTags, packedUint32(p.tags...))
	}
	if p.typ != GeomUnknown {
		buf = tagVarint(buf, featureFieldType, uint64(p.typ))
	}
	if len(p.geometry) > 0 {
		buf = tagBytes(buf, featureFieldGeometry, packedUint32(p.geometry...))
	}
	return buf
}

func buildStringValue(s string) []byte {
	return tagString(nil, valueFieldString, s)
}

func buildDoubleValue(d float64) []byte {
	buf := protowire.AppendTag(nil, valueFieldDouble, protowire.Fixed64Type)
	return protowire.AppendFixed64(buf, math.Float64bits(d))
}

func encodeFloatField(f float32) []byte {
	buf := protowire.AppendTag(nil, valueFieldFloat, protowire.Fixed32Type)
	return protowire.AppendFixed32(buf, math.Float32bits(f))
}

func buildBoolValue(b bool) []byte {
	v := uint64(0)
	if b {
		v = 1
	}
	return tagVarint(nil, valueFieldBool, v)
}

func buildUintValue(u uint64) []byte {
	return tagVarint(nil, valueFieldUint, u)
}

func buildSintValue(i int64) []byte {
	return tagVarint(nil, valueFieldSint, protowire.EncodeZigZag(i))
}

func zz(v int64) uint32 {
	return uint32(protowire.EncodeZigZag(v))
}

func cmdWord(id uint32, count uint32) uint32 {
	return (count << 3) | id
}
