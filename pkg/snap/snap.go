package snap

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
)

// NodeSnapper finds the graph node closest to an arbitrary coordinate.
type NodeSnapper interface {
	FindClosest(graph *datastructure.Graph, p datastructure.Coordinate) *datastructure.GraphNode
}

// LinearSnapper scans every node. ties keep the first node in graph enumeration order.
type LinearSnapper struct{}

func NewLinearSnapper() *LinearSnapper {
	return &LinearSnapper{}
}

// FindClosest returns nil only for an empty graph.
func (ls *LinearSnapper) FindClosest(graph *datastructure.Graph, p datastructure.Coordinate) *datastructure.GraphNode {
	var closest *datastructure.GraphNode
	minDist := math.Inf(1)

	graph.ForEachNode(func(n *datastructure.GraphNode) bool {
		dist := geo.HaversineDistance(n.Point, p)
		if dist < minDist {
			minDist = dist
			closest = n
		}
		return true
	})
	return closest
}
