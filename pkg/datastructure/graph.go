package datastructure

import (
	"golang.org/x/exp/slices"
)

// GraphNode is a road network point keyed by its openstreetmap node id.
// neighbors only reference other node ids of the same Graph.
type GraphNode struct {
	ID        int64
	Point     Coordinate
	neighbors []int64
}

func NewGraphNode(id int64, lat, lon float64) *GraphNode {
	return &GraphNode{
		ID:        id,
		Point:     NewCoordinate(lat, lon),
		neighbors: make([]int64, 0, 2),
	}
}

// Neighbors returns the adjacent node ids in insertion order. callers must not modify it.
func (n *GraphNode) Neighbors() []int64 {
	return n.neighbors
}

func (n *GraphNode) HasNeighbor(id int64) bool {
	return slices.Contains(n.neighbors, id)
}

func (n *GraphNode) Degree() int {
	return len(n.neighbors)
}

func (n *GraphNode) addNeighbor(id int64) {
	if n.HasNeighbor(id) {
		return
	}
	n.neighbors = append(n.neighbors, id)
}

// Graph undirected road graph. nodes are stored in an id keyed arena, edges are
// neighbor id sets on both endpoints.
type Graph struct {
	nodes map[int64]*GraphNode
	order []int64
	edges int
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[int64]*GraphNode),
		order: make([]int64, 0),
	}
}

// AddNode inserts a node. re-adding an existing id keeps the first one.
func (g *Graph) AddNode(id int64, lat, lon float64) *GraphNode {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := NewGraphNode(id, lat, lon)
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// AddEdge links from and to in both directions. returns false if either endpoint
// is missing or from == to, in that case the graph is left untouched.
func (g *Graph) AddEdge(from, to int64) bool {
	if from == to {
		return false
	}
	fromNode, ok := g.nodes[from]
	if !ok {
		return false
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return false
	}
	if !fromNode.HasNeighbor(to) {
		g.edges++
	}
	fromNode.addNeighbor(to)
	toNode.addNeighbor(from)
	return true
}

func (g *Graph) GetNode(id int64) (*GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges number of undirected edges.
func (g *Graph) NumEdges() int {
	return g.edges
}

// ForEachNode visits nodes in insertion order until fn returns false.
func (g *Graph) ForEachNode(fn func(n *GraphNode) bool) {
	for _, id := range g.order {
		if !fn(g.nodes[id]) {
			return
		}
	}
}

// NodeIDs returns a copy of the node ids in insertion order.
func (g *Graph) NodeIDs() []int64 {
	return slices.Clone(g.order)
}

// Centroid mean position of every node, false for an empty graph.
func (g *Graph) Centroid() (Coordinate, bool) {
	if len(g.order) == 0 {
		return Coordinate{}, false
	}
	var lat, lon float64
	for _, id := range g.order {
		p := g.nodes[id].Point
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(g.order))
	return NewCoordinate(lat/n, lon/n), true
}
