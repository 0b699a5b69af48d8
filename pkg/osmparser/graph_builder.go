package osmparser

import (
	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/paulmach/osm"
)

// AcceptOsmWay ways a runner can use: anything carrying a highway or footway tag.
func AcceptOsmWay(way *osm.Way) bool {
	if way == nil {
		return false
	}
	return way.Tags.Find("highway") != "" || way.Tags.Find("footway") != ""
}

// BuildGraph turns raw openstreetmap nodes and ways into an undirected graph.
// every node element becomes a graph node, every accepted way links its consecutive
// node pairs when both endpoints are known. a pair with an unknown node is skipped
// without aborting the rest of the way.
func BuildGraph(data *osm.OSM) *datastructure.Graph {
	graph := datastructure.NewGraph()
	if data == nil {
		return graph
	}

	for _, node := range data.Nodes {
		if node == nil {
			continue
		}
		graph.AddNode(int64(node.ID), node.Lat, node.Lon)
	}

	for _, way := range data.Ways {
		if !AcceptOsmWay(way) {
			continue
		}
		for i := 0; i+1 < len(way.Nodes); i++ {
			graph.AddEdge(int64(way.Nodes[i].ID), int64(way.Nodes[i+1].ID))
		}
	}

	return graph
}
