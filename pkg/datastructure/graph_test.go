package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphAddEdgeSymmetric(t *testing.T) {
	g := NewGraph()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 0.01)
	g.AddNode(3, 0.01, 0.01)

	assert.True(t, g.AddEdge(1, 2))
	assert.True(t, g.AddEdge(2, 3))
	// parallel edge, neighbors are a set
	assert.True(t, g.AddEdge(2, 1))

	n1, _ := g.GetNode(1)
	n2, _ := g.GetNode(2)
	n3, _ := g.GetNode(3)

	assert.Equal(t, []int64{2}, n1.Neighbors())
	assert.Equal(t, []int64{1, 3}, n2.Neighbors())
	assert.Equal(t, []int64{2}, n3.Neighbors())
	assert.Equal(t, 2, g.NumEdges())
}

func TestGraphNoDanglingEdges(t *testing.T) {
	g := NewGraph()
	g.AddNode(1, 0, 0)

	assert.False(t, g.AddEdge(1, 99))
	assert.False(t, g.AddEdge(99, 1))
	assert.False(t, g.AddEdge(1, 1))

	n1, _ := g.GetNode(1)
	assert.Empty(t, n1.Neighbors())
	assert.Equal(t, 0, g.NumEdges())
}

func TestGraphAddNodeKeepsFirst(t *testing.T) {
	g := NewGraph()
	g.AddNode(7, 1, 1)
	g.AddNode(7, 2, 2)

	n, ok := g.GetNode(7)
	assert.True(t, ok)
	assert.Equal(t, NewCoordinate(1, 1), n.Point)
	assert.Equal(t, 1, g.NumNodes())
}

func TestGraphForEachNodeInsertionOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []int64{30, 10, 20} {
		g.AddNode(id, 0, 0)
	}

	visited := []int64{}
	g.ForEachNode(func(n *GraphNode) bool {
		visited = append(visited, n.ID)
		return true
	})
	assert.Equal(t, []int64{30, 10, 20}, visited)
	assert.Equal(t, []int64{30, 10, 20}, g.NodeIDs())

	visited = visited[:0]
	g.ForEachNode(func(n *GraphNode) bool {
		visited = append(visited, n.ID)
		return false
	})
	assert.Equal(t, []int64{30}, visited)
}

func TestGraphCentroid(t *testing.T) {
	g := NewGraph()
	_, ok := g.Centroid()
	assert.False(t, ok)

	g.AddNode(1, 0, 0)
	g.AddNode(2, 2, 4)
	c, ok := g.Centroid()
	assert.True(t, ok)
	assert.InDelta(t, 1.0, c.Lat, 1e-9)
	assert.InDelta(t, 2.0, c.Lon, 1e-9)
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(47.615248, -122.320817),
		NewCoordinate(47.615248, -122.321466),
		NewCoordinate(47.615157, -122.321464),
	}
	encoded := CreatePolyline(path)
	assert.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	assert.NoError(t, err)
	assert.Len(t, decoded, 3)
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}
	assert.Equal(t, [2]float64{-122.320817, 47.615248}, path[0].LngLat())
}
