package geo

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
)

const (
	earthRadiusKM = 6371.0

	kmPerMile = 1.60934
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radiansToDegree(angle float64) float64 {
	return angle * (180.0 / math.Pi)
}

// CalculateHaversineDistance great-circle distance in km.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	// rounding can push a slightly above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// HaversineDistance great-circle distance between two coordinates in km.
func HaversineDistance(a, b datastructure.Coordinate) float64 {
	if a == b {
		return 0
	}
	return CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

func KmToMiles(km float64) float64 {
	return km / kmPerMile
}

func MilesToKm(miles float64) float64 {
	return miles * kmPerMile
}
