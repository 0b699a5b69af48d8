package routingalgorithm

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
)

var fixtureOrigin = datastructure.NewCoordinate(-7.5506, 110.7806)

func offset(from datastructure.Coordinate, bearing, km float64) datastructure.Coordinate {
	lat, lon := geo.GetDestinationPoint(from.Lat, from.Lon, bearing, km)
	return datastructure.NewCoordinate(lat, lon)
}

func addNode(g *datastructure.Graph, id int64, c datastructure.Coordinate) {
	g.AddNode(id, c.Lat, c.Lon)
}

// pentagonGraph regular pentagon with 1 km sides, nodes 1..5 clockwise from north.
func pentagonGraph() *datastructure.Graph {
	g := datastructure.NewGraph()
	circumradius := 1 / (2 * math.Sin(math.Pi/5))
	for i := 0; i < 5; i++ {
		addNode(g, int64(i+1), offset(fixtureOrigin, float64(i)*72, circumradius))
	}
	for i := 0; i < 5; i++ {
		g.AddEdge(int64(i+1), int64((i+1)%5+1))
	}
	return g
}

// ringGraph n nodes on a circle, consecutive nodes linked.
func ringGraph(n int, radiusKm float64) *datastructure.Graph {
	g := datastructure.NewGraph()
	for i := 0; i < n; i++ {
		addNode(g, int64(i+1), offset(fixtureOrigin, float64(i)*360/float64(n), radiusKm))
	}
	for i := 0; i < n; i++ {
		g.AddEdge(int64(i+1), int64((i+1)%n+1))
	}
	return g
}

// gridGraph size x size lattice, spacingKm apart, id = row*size + col + 1.
func gridGraph(size int, spacingKm float64) *datastructure.Graph {
	g := datastructure.NewGraph()
	for row := 0; row < size; row++ {
		rowStart := offset(fixtureOrigin, 0, float64(row)*spacingKm)
		for col := 0; col < size; col++ {
			addNode(g, int64(row*size+col+1), offset(rowStart, 90, float64(col)*spacingKm))
		}
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			id := int64(row*size + col + 1)
			if col+1 < size {
				g.AddEdge(id, id+1)
			}
			if row+1 < size {
				g.AddEdge(id, id+int64(size))
			}
		}
	}
	return g
}

func pathLength(g *datastructure.Graph, path []int64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		a, _ := g.GetNode(path[i-1])
		b, _ := g.GetNode(path[i])
		total += geo.HaversineDistance(a.Point, b.Point)
	}
	return total
}

func testConfig(strategy string) Config {
	cfg := DefaultConfig()
	cfg.Strategy = strategy
	cfg.ProgressEvery = 0
	return cfg
}
