package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func (c Coordinate) IsValid() bool {
	return util.IsFinite(c.Lat, c.Lon) && c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
	EarthRadiusM  = earthRadiusKM * 1000
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(math.Min(1, a)))
	return earthRadiusKM * c
}

// HaversineMeters. haversine distance between a and b in metres
func HaversineMeters(a, b Coordinate) float64 {
	return CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon) * 1000
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return radToDeg(lat2), normalizeLongitude(radToDeg(lon2))
}

// BoundingBox. box (minLon, minLat), (maxLon, maxLat) that contains the circle of radius (metres) around (lat, lon).
// corners are taken along the diagonals at radius*sqrt(2) so the whole circle is covered.
func BoundingBox(lat, lon, radius float64) ([2]float64, [2]float64) {
	diag := radius * math.Sqrt2 * 1.01 / 1000 // slack for the spherical corner offset
	lowerLat, lowerLon := GetDestinationPoint(lat, lon, 225, diag)
	upperLat, upperLon := GetDestinationPoint(lat, lon, 45, diag)
	return [2]float64{math.Min(lowerLon, lon), math.Min(lowerLat, lat)},
		[2]float64{math.Max(upperLon, lon), math.Max(upperLat, lat)}
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}
