package geo

import (
	"github.com/golang/geo/s2"
)

func toS2(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// return in meter
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	if pointA == pointB {
		return HaversineMeters(pointA, snap)
	}
	angle := s2.DistanceFromSegment(toS2(snap), toS2(pointA), toS2(pointB))
	return angle.Radians() * EarthRadiusM
}
