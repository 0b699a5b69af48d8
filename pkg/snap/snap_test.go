package snap

import (
	"testing"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func buildGraph() *datastructure.Graph {
	g := datastructure.NewGraph()
	g.AddNode(0, 47.615248, -122.320817)
	g.AddNode(1, 47.615248, -122.321466)
	g.AddNode(2, 47.615157, -122.321464)
	g.AddNode(3, 47.614111, -122.321455)
	g.AddNode(4, 47.615233, -122.322150)
	g.AddNode(5, 47.614087, -122.322129)
	return g
}

func TestLinearSnapper(t *testing.T) {
	g := buildGraph()
	snapper := NewLinearSnapper()

	n := snapper.FindClosest(g, datastructure.NewCoordinate(47.614100, -122.321400))
	assert.NotNil(t, n)
	assert.Equal(t, int64(3), n.ID)

	n = snapper.FindClosest(g, datastructure.NewCoordinate(47.615248, -122.320817))
	assert.Equal(t, int64(0), n.ID)
}

func TestLinearSnapperTieKeepsFirst(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddNode(9, 0, 0.001)
	g.AddNode(3, 0, -0.001)

	n := NewLinearSnapper().FindClosest(g, datastructure.NewCoordinate(0, 0))
	assert.Equal(t, int64(9), n.ID)
}

func TestSnapperEmptyGraph(t *testing.T) {
	g := datastructure.NewGraph()
	assert.Nil(t, NewLinearSnapper().FindClosest(g, datastructure.NewCoordinate(0, 0)))
	assert.Nil(t, NewRtreeSnapper(0).FindClosest(g, datastructure.NewCoordinate(0, 0)))
}

func TestRtreeSnapperMatchesLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := datastructure.NewGraph()
	for i := 0; i < 2000; i++ {
		g.AddNode(int64(i), -7.56+rng.Float64()*0.05, 110.77+rng.Float64()*0.05)
	}

	index := NewRtreeIndex(g, 0)
	assert.Equal(t, 2000, index.Size())

	linear := NewLinearSnapper()
	for i := 0; i < 200; i++ {
		q := datastructure.NewCoordinate(-7.56+rng.Float64()*0.05, 110.77+rng.Float64()*0.05)
		want := linear.FindClosest(g, q)
		got := index.Nearest(q)
		assert.Equal(t, want.ID, got.ID)
	}
}
