package routingalgorithm

import (
	"testing"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	g := pentagonGraph()
	res := Assemble(g, []int64{1, 2, 99, 3, 4, 5, 1}, 5)

	require.Len(t, res.Points, 6)
	assert.Equal(t, 6, res.NodeCount)
	n1, _ := g.GetNode(1)
	n3, _ := g.GetNode(3)
	assert.Equal(t, n1.Point, res.Points[0])
	assert.Equal(t, n3.Point, res.Points[2])
	assert.Equal(t, n1.Point, res.Points[5])

	assert.Equal(t, 5.0, res.DistanceKm)
	assert.InDelta(t, 3.10686, res.DistanceMiles, 1e-5)

	lngLats := res.LngLats()
	require.Len(t, lngLats, 6)
	assert.Equal(t, [2]float64{n1.Point.Lon, n1.Point.Lat}, lngLats[0])

	decoded, err := datastructure.DecodePolyline(res.Polyline)
	require.NoError(t, err)
	require.Len(t, decoded, 6)
	for i := range decoded {
		assert.InDelta(t, res.Points[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, res.Points[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestAssembleEmpty(t *testing.T) {
	res := Assemble(datastructure.NewGraph(), []int64{1, 2}, 0)
	assert.Empty(t, res.Points)
	assert.Equal(t, 0, res.NodeCount)
	assert.Equal(t, 0.0, res.DistanceMiles)
	assert.Empty(t, res.Polyline)
	assert.Empty(t, res.LngLats())
}
