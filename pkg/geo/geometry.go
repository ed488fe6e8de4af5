package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// orb uses (lon, lat) ordering.

func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func FromPoint(p orb.Point) Coordinate {
	return NewCoordinate(p.Lat(), p.Lon())
}

func LineStringFromCoords(coords []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = c.Point()
	}
	return ls
}

// PointDistance. haversine distance between two orb points in metres
func PointDistance(a, b orb.Point) float64 {
	return CalculateHaversineDistance(a.Lat(), a.Lon(), b.Lat(), b.Lon()) * 1000
}

// LineStringLength. haversine length of ls in metres
func LineStringLength(ls orb.LineString) float64 {
	length := 0.0
	for i := 1; i < len(ls); i++ {
		length += PointDistance(ls[i-1], ls[i])
	}
	return length
}

func MultiLineStringLength(mls orb.MultiLineString) float64 {
	length := 0.0
	for _, ls := range mls {
		length += LineStringLength(ls)
	}
	return length
}

func ValidPoint(p orb.Point) bool {
	return util.IsFinite(p[0], p[1])
}

// Interpolate. linear interpolation a + t(b-a) in degree space, fine for the short segments of a road graph
func Interpolate(a, b orb.Point, t float64) orb.Point {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

// QuantizePoint. rounds both ordinates so that equal vertices produced by different code paths compare equal
func QuantizePoint(p orb.Point, precision uint) orb.Point {
	return orb.Point{util.RoundFloat(p[0], precision), util.RoundFloat(p[1], precision)}
}

// PointLess. lexicographic (lon, lat) order
func PointLess(a, b orb.Point) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// LocalFrame. equirectangular projection around an origin, x/y in metres.
type LocalFrame struct {
	lon0, lat0 float64
	kx, ky     float64
}

func NewLocalFrame(origin orb.Point) LocalFrame {
	ky := EarthRadiusM * math.Pi / 180.0
	return LocalFrame{
		lon0: origin.Lon(),
		lat0: origin.Lat(),
		kx:   ky * math.Cos(util.DegreeToRadians(origin.Lat())),
		ky:   ky,
	}
}

func (f LocalFrame) ToXY(p orb.Point) (float64, float64) {
	return normalizeLongitude(p.Lon()-f.lon0) * f.kx, (p.Lat() - f.lat0) * f.ky
}

// EncodePolyline. google encoded polyline (precision 5) of ls
func EncodePolyline(ls orb.LineString) string {
	if len(ls) == 0 {
		return ""
	}
	coords := make([][]float64, len(ls))
	for i, p := range ls {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePolyline(s string) (orb.LineString, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c[1], c[0]}
	}
	return ls, nil
}
