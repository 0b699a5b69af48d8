package routingalgorithm

import (
	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
)

// RouteResult route ready to be rendered. Points keep the path order.
type RouteResult struct {
	Points        []datastructure.Coordinate
	DistanceKm    float64
	DistanceMiles float64
	NodeCount     int
	// Polyline google encoded polyline of the douglas peucker simplified points.
	Polyline string
}

// Assemble maps the node ids of path to coordinates. ids missing from graph are skipped.
func Assemble(graph *datastructure.Graph, path []int64, distanceKm float64) RouteResult {
	points := make([]datastructure.Coordinate, 0, len(path))
	for _, id := range path {
		n, ok := graph.GetNode(id)
		if !ok {
			continue
		}
		points = append(points, n.Point)
	}

	return RouteResult{
		Points:        points,
		DistanceKm:    distanceKm,
		DistanceMiles: geo.KmToMiles(distanceKm),
		NodeCount:     len(points),
		Polyline:      datastructure.CreatePolyline(geo.RamerDouglasPeucker(points, geo.DOUGLAS_PEUCKER_THRESHOLDS)),
	}
}

// LngLats points in [lng, lat] order.
func (r RouteResult) LngLats() [][2]float64 {
	coords := make([][2]float64, 0, len(r.Points))
	for _, p := range r.Points {
		coords = append(coords, p.LngLat())
	}
	return coords
}
