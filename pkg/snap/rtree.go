package snap

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	pointTolerance   = 1e-9
	// planar degree distance is only an approximation of the haversine one,
	// so the k nearest candidates are re-ranked
	defaultCandidates = 8
)

type nodeEntry struct {
	node *datastructure.GraphNode
	rect rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// RtreeIndex r-tree over the nodes of one graph.
type RtreeIndex struct {
	tree       *rtreego.Rtree
	candidates int
}

func NewRtreeIndex(graph *datastructure.Graph, candidates int) *RtreeIndex {
	if candidates <= 0 {
		candidates = defaultCandidates
	}
	entries := make([]rtreego.Spatial, 0, graph.NumNodes())
	graph.ForEachNode(func(n *datastructure.GraphNode) bool {
		entries = append(entries, &nodeEntry{
			node: n,
			rect: rtreego.Point{n.Point.Lat, n.Point.Lon}.ToRect(pointTolerance),
		})
		return true
	})
	return &RtreeIndex{
		tree:       rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, entries...),
		candidates: candidates,
	}
}

func (ri *RtreeIndex) Size() int {
	return ri.tree.Size()
}

// Nearest node with the smallest haversine distance among the k planar nearest.
func (ri *RtreeIndex) Nearest(p datastructure.Coordinate) *datastructure.GraphNode {
	if ri.tree.Size() == 0 {
		return nil
	}
	found := ri.tree.NearestNeighbors(ri.candidates, rtreego.Point{p.Lat, p.Lon})

	var closest *datastructure.GraphNode
	minDist := math.Inf(1)
	for _, s := range found {
		entry, ok := s.(*nodeEntry)
		if !ok || entry == nil {
			continue
		}
		dist := geo.HaversineDistance(entry.node.Point, p)
		if dist < minDist {
			minDist = dist
			closest = entry.node
		}
	}
	return closest
}

// RtreeSnapper builds an r-tree for the graph and queries it.
type RtreeSnapper struct {
	candidates int
}

func NewRtreeSnapper(candidates int) *RtreeSnapper {
	return &RtreeSnapper{candidates: candidates}
}

func (rs *RtreeSnapper) FindClosest(graph *datastructure.Graph, p datastructure.Coordinate) *datastructure.GraphNode {
	if graph.NumNodes() == 0 {
		return nil
	}
	return NewRtreeIndex(graph, rs.candidates).Nearest(p)
}
