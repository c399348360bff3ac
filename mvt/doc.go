// Package mvt decodes Mapbox Vector Tile (MVT) buffers, v1 and v2.
//
// Parsing is lazy and pull-based: Tile indexes layer byte ranges by name
// without touching their contents, Layer materializes a layer's shared
// key/value tables and feature byte ranges, and Feature decodes a single
// feature's properties and geometry only when asked. Nothing in this
// package performs I/O; every type holds read-only references into a
// caller-owned buffer and must not outlive it.
package mvt
