package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	oneDegree := 2 * math.Pi * EarthRadiusM / 360
	assert.InDelta(t, oneDegree, HaversineMeters(NewCoordinate(0, 0), NewCoordinate(0, 1)), 1e-6)
	assert.InDelta(t, oneDegree/1000, CalculateHaversineDistance(0, 0, 1, 0), 1e-9)
	assert.Zero(t, HaversineMeters(NewCoordinate(-6.2, 106.8), NewCoordinate(-6.2, 106.8)))
}

func TestGetDestinationPoint(t *testing.T) {
	start := NewCoordinate(-6.2, 106.8)
	for _, bearing := range []float64{0, 45, 90, 135, 180, 270} {
		lat, lon := GetDestinationPoint(start.Lat, start.Lon, bearing, 1.5)
		assert.InDelta(t, 1500, HaversineMeters(start, NewCoordinate(lat, lon)), 1e-3)
	}

	lat, lon := GetDestinationPoint(0, 179.9995, 90, 0.2)
	assert.InDelta(t, 0, lat, 1e-9)
	assert.Less(t, lon, -179.0)
}

func TestBoundingBoxCoversCircle(t *testing.T) {
	lat, lon, radius := -6.2, 106.8, 300.0
	lower, upper := BoundingBox(lat, lon, radius)
	for bearing := 0.0; bearing < 360; bearing += 15 {
		pLat, pLon := GetDestinationPoint(lat, lon, bearing, radius/1000)
		assert.GreaterOrEqual(t, pLon, lower[0])
		assert.GreaterOrEqual(t, pLat, lower[1])
		assert.LessOrEqual(t, pLon, upper[0])
		assert.LessOrEqual(t, pLat, upper[1])
	}
}

func TestCoordinateIsValid(t *testing.T) {
	assert.True(t, NewCoordinate(-6.2, 106.8).IsValid())
	assert.False(t, NewCoordinate(math.NaN(), 106.8).IsValid())
	assert.False(t, NewCoordinate(0, math.Inf(1)).IsValid())
	assert.False(t, NewCoordinate(91, 0).IsValid())
	assert.False(t, NewCoordinate(0, -181).IsValid())
}

func TestLineStringLength(t *testing.T) {
	coords := []Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 0.001), NewCoordinate(0.001, 0.001)}
	ls := LineStringFromCoords(coords)
	require.Len(t, ls, 3)
	assert.Equal(t, orb.Point{0.001, 0}, ls[1])
	assert.Equal(t, coords[2], FromPoint(ls[2]))

	want := HaversineMeters(coords[0], coords[1]) + HaversineMeters(coords[1], coords[2])
	assert.InDelta(t, want, LineStringLength(ls), 1e-9)
	assert.InDelta(t, 2*want, MultiLineStringLength(orb.MultiLineString{ls, ls}), 1e-9)
	assert.Zero(t, LineStringLength(orb.LineString{{1, 1}}))
}

func TestPointHelpers(t *testing.T) {
	a, b := orb.Point{106.8, -6.2}, orb.Point{106.9, -6.1}
	assert.Equal(t, a, Interpolate(a, b, -1))
	assert.Equal(t, b, Interpolate(a, b, 2))
	mid := Interpolate(a, b, 0.5)
	assert.InDelta(t, 106.85, mid[0], 1e-12)
	assert.InDelta(t, -6.15, mid[1], 1e-12)

	assert.Equal(t, orb.Point{106.123456789, -6.5}, QuantizePoint(orb.Point{106.1234567891, -6.5000000001}, 9))

	assert.True(t, PointLess(a, b))
	assert.False(t, PointLess(b, a))
	assert.True(t, PointLess(orb.Point{1, 1}, orb.Point{1, 2}))
	assert.False(t, PointLess(a, a))

	assert.True(t, ValidPoint(a))
	assert.False(t, ValidPoint(orb.Point{math.NaN(), 0}))
}

func TestLocalFrame(t *testing.T) {
	origin := orb.Point{106.8, -6.2}
	f := NewLocalFrame(origin)

	x, y := f.ToXY(origin)
	assert.Zero(t, x)
	assert.Zero(t, y)

	lat, lon := GetDestinationPoint(origin.Lat(), origin.Lon(), 90, 0.1)
	x, y = f.ToXY(orb.Point{lon, lat})
	assert.InDelta(t, 100, x, 0.05)
	assert.InDelta(t, 0, y, 0.05)

	lat, lon = GetDestinationPoint(origin.Lat(), origin.Lon(), 0, 0.1)
	x, y = f.ToXY(orb.Point{lon, lat})
	assert.InDelta(t, 0, x, 0.05)
	assert.InDelta(t, 100, y, 0.05)
}

func TestPolylineRoundTrip(t *testing.T) {
	ls := orb.LineString{{106.80001, -6.20001}, {106.80102, -6.20003}, {106.80205, -6.19901}}
	encoded := EncodePolyline(ls)
	require.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(ls))
	for i := range ls {
		assert.InDelta(t, ls[i][0], decoded[i][0], 1e-5)
		assert.InDelta(t, ls[i][1], decoded[i][1], 1e-5)
	}

	assert.Empty(t, EncodePolyline(nil))
}

func TestPointLinePerpendicularDistance(t *testing.T) {
	a, b := NewCoordinate(0, 0), NewCoordinate(0, 0.01)
	lat, _ := GetDestinationPoint(0, 0.005, 0, 0.01)
	assert.InDelta(t, 10, PointLinePerpendicularDistance(a, b, NewCoordinate(lat, 0.005)), 1e-3)

	// beyond the segment end the distance is to the endpoint
	p := NewCoordinate(0, 0.011)
	assert.InDelta(t, HaversineMeters(b, p), PointLinePerpendicularDistance(a, b, p), 1e-3)

	assert.InDelta(t, HaversineMeters(a, p), PointLinePerpendicularDistance(a, a, p), 1e-9)
}
