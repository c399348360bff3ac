package mvt

import (
	"math"
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
)

// Geometry command ids.
const (
	cmdMoveTo    uint32 = 1
	cmdLineTo    uint32 = 2
	cmdClosePath uint32 = 7
)

// maxReserve bounds speculative capacity reservation driven by an
// untrusted command word's repeat count, capped as a DoS hardening rule:
// ≤ 65536 entries keeps a single reservation under roughly 1 MiB.
const maxReserve = 65536

// Coordinate is the set of integer types a GeometryCollection may be
// parameterized over.
type Coordinate interface {
	~int16 | ~int32 | ~int64
}

// Point is one vertex of a decoded path.
type Point[C Coordinate] struct {
	X, Y C
}

// Path is one point sequence: all points of a Point feature, one line of
// a LineString feature, or one ring of a Polygon feature.
type Path[C Coordinate] []Point[C]

// GeometryCollection is the decoded output of Geometries: an ordered
// sequence of paths, in the wire order of the source command stream.
type GeometryCollection[C Coordinate] []Path[C]

func coordRange[C Coordinate]() (lo, hi int64) {
	var zero C
	switch reflect.ValueOf(zero).Kind() {
	case reflect.Int16:
		return math.MinInt16, math.MaxInt16
	case reflect.Int32:
		return math.MinInt32, math.MaxInt32
	case reflect.Int64:
		return math.MinInt64, math.MaxInt64
	default:
		panic("mvt: unsupported Coordinate type")
	}
}

func clampReserve(count uint32) int {
	if count > maxReserve {
		return maxReserve
	}
	return int(count)
}

// reserve grows p's capacity to at least capacity, preserving its
// current contents, without exceeding it needlessly.
func reserve[C Coordinate](p Path[C], capacity int) Path[C] {
	if capacity <= cap(p) {
		return p
	}
	grown := make(Path[C], len(p), capacity)
	copy(grown, p)
	return grown
}

// shrinkToFit reallocates p at exactly len(p) capacity if it currently
// holds more, undoing a clamped-but-unused speculative reservation.
func shrinkToFit[C Coordinate](p Path[C]) Path[C] {
	if cap(p) == len(p) {
		return p
	}
	tight := make(Path[C], len(p))
	copy(tight, p)
	return tight
}

// shrinkCollectionToFit applies the same normalization to the outer
// slice of paths.
func shrinkCollectionToFit[C Coordinate](paths GeometryCollection[C]) GeometryCollection[C] {
	if cap(paths) == len(paths) {
		return paths
	}
	tight := make(GeometryCollection[C], len(paths))
	copy(tight, paths)
	return tight
}

// Geometries runs the geometry command interpreter over f's
// packed command/parameter stream and materializes a GeometryCollection
// of coordinate type C, applying scale to each accumulated coordinate.
//
// Go does not allow a type parameter on a method, so Geometries is a
// free function taking the feature rather than (*Feature).Geometries.
func Geometries[C Coordinate](f *Feature, scale float32) (GeometryCollection[C], error) {
	lo, hi := coordRange[C]()
	loF, hiF := float64(lo), float64(hi)

	paths := make(GeometryCollection[C], 1)
	paths[0] = Path[C]{}

	isPoint := f.typ == GeomPoint
	extra := 0
	switch f.typ {
	case GeomLineString:
		extra = 1
	case GeomPolygon:
		extra = 2
	}

	var x, y int64
	var cmd uint32
	var length uint32
	first := true

	geom := f.geometry
	n := len(geom)
	for i := 0; i < n; {
		if length == 0 {
			word := geom[i]
			i++
			cmd = word & 0x7
			length = word >> 3
			if length == 0 {
				continue
			}
		}

		switch cmd {
		case cmdMoveTo, cmdLineTo:
			if i >= n {
				// Parameter stream exhausted exactly at a command
				// boundary: clean termination, not an error.
				length = 0
				continue
			}
			if i == n-1 {
				return nil, ErrTruncatedParameters
			}

			last := len(paths) - 1
			if isPoint {
				if first && cmd == cmdMoveTo {
					paths[0] = reserve(paths[0], clampReserve(length))
					first = false
				}
			} else if first && cmd == cmdLineTo {
				paths[last] = reserve(paths[last], clampReserve(length)+extra)
				first = false
			}

			if cmd == cmdMoveTo && !isPoint && len(paths[last]) > 0 {
				paths = append(paths, Path[C]{})
				last = len(paths) - 1
				first = true
			}

			dx := protowire.DecodeZigZag(uint64(geom[i]))
			dy := protowire.DecodeZigZag(uint64(geom[i+1]))
			i += 2
			x += dx
			y += dy

			px := math.Round(float64(x) * float64(scale))
			py := math.Round(float64(y) * float64(scale))
			if px < loF || px > hiF || py < loF || py > hiF {
				return nil, ErrCoordinateOutOfRange
			}
			paths[last] = append(paths[last], Point[C]{X: C(px), Y: C(py)})
			length--

		case cmdClosePath:
			last := len(paths) - 1
			if len(paths[last]) > 0 {
				paths[last] = append(paths[last], paths[last][0])
			}
			length = 0

		default:
			return nil, ErrUnknownCommand
		}
	}

	for i, p := range paths {
		paths[i] = shrinkToFit(p)
	}
	return shrinkCollectionToFit(paths), nil
}
