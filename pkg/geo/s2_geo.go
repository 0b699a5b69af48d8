package geo

import (
	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

func toS2Point(c datastructure.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// ProjectPointToLineCoord closest point to p on the great-circle segment (a, b).
func ProjectPointToLineCoord(a, b, p datastructure.Coordinate) datastructure.Coordinate {
	projection := s2.Project(toS2Point(p), toS2Point(a), toS2Point(b))
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointLinePerpendicularDistance distance in meter from p to the segment (a, b).
func PointLinePerpendicularDistance(a, b, p datastructure.Coordinate) float64 {
	projection := ProjectPointToLineCoord(a, b, p)
	return HaversineDistance(projection, p) * 1000
}

// RadiusCap spherical cap of radiusKm around center.
type RadiusCap struct {
	cap s2.Cap
}

func NewRadiusCap(center datastructure.Coordinate, radiusKm float64) RadiusCap {
	angle := s1.Angle(radiusKm / earthRadiusKM)
	return RadiusCap{cap: s2.CapFromCenterAngle(toS2Point(center), angle)}
}

func (r RadiusCap) Contains(c datastructure.Coordinate) bool {
	return r.cap.ContainsPoint(toS2Point(c))
}
