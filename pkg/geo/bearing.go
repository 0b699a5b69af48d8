package geo

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
)

// https://www.movable-type.co.uk/scripts/latlong.html

// GetDestinationPoint point reached from (lat, lon) after dist km on the given initial bearing (degree, clockwise from north).
func GetDestinationPoint(lat, lon, bearing, dist float64) (float64, float64) {
	latRad := degreeToRadians(lat)
	lonRad := degreeToRadians(lon)
	bearingRad := degreeToRadians(bearing)
	angular := dist / earthRadiusKM

	destLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	destLon := lonRad + math.Atan2(math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(destLat))

	// normalise to -180..180
	destLonDeg := math.Mod(radiansToDegree(destLon)+540, 360) - 180
	return radiansToDegree(destLat), destLonDeg
}

// Bearing initial bearing from a to b in degree [0, 360).
func Bearing(a, b datastructure.Coordinate) float64 {
	latOne := degreeToRadians(a.Lat)
	latTwo := degreeToRadians(b.Lat)
	dLon := degreeToRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(latTwo)
	x := math.Cos(latOne)*math.Sin(latTwo) - math.Sin(latOne)*math.Cos(latTwo)*math.Cos(dLon)
	return math.Mod(radiansToDegree(math.Atan2(y, x))+360, 360)
}
