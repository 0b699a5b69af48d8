package roadnetwork

import (
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/osmparser"

	"github.com/paulmach/osm"
	"github.com/uber/h3-go/v4"
	"golang.org/x/exp/slices"
)

const h3Resolution = 8

// AreaIndex in memory road network answering radius queries. read only after NewAreaIndex,
// safe for concurrent Around calls.
type AreaIndex struct {
	nodes    map[osm.NodeID]*osm.Node
	ways     osm.Ways
	nodeWays map[osm.NodeID][]int
	cells    map[h3.Cell][]osm.NodeID
}

// NewAreaIndex keeps the runnable ways of data and the nodes they reference.
func NewAreaIndex(data *osm.OSM) *AreaIndex {
	ai := &AreaIndex{
		nodes:    make(map[osm.NodeID]*osm.Node),
		ways:     make(osm.Ways, 0),
		nodeWays: make(map[osm.NodeID][]int),
		cells:    make(map[h3.Cell][]osm.NodeID),
	}
	if data == nil {
		return ai
	}

	known := make(map[osm.NodeID]*osm.Node, len(data.Nodes))
	for _, n := range data.Nodes {
		if _, ok := known[n.ID]; !ok {
			known[n.ID] = n
		}
	}

	for _, way := range data.Ways {
		if !osmparser.AcceptOsmWay(way) {
			continue
		}
		wayIdx := len(ai.ways)
		ai.ways = append(ai.ways, way)
		for _, wn := range way.Nodes {
			n, ok := known[wn.ID]
			if !ok {
				continue
			}
			ways := ai.nodeWays[wn.ID]
			if len(ways) > 0 && ways[len(ways)-1] == wayIdx {
				continue
			}
			ai.nodeWays[wn.ID] = append(ways, wayIdx)
			if _, ok := ai.nodes[wn.ID]; ok {
				continue
			}
			ai.nodes[wn.ID] = n
			cell := h3.LatLngToCell(h3.NewLatLng(n.Lat, n.Lon), h3Resolution)
			ai.cells[cell] = append(ai.cells[cell], n.ID)
		}
	}
	return ai
}

func (ai *AreaIndex) NumNodes() int {
	return len(ai.nodes)
}

func (ai *AreaIndex) NumWays() int {
	return len(ai.ways)
}

// Around returns every indexed way with at least one node within radiusKm of center,
// together with all known nodes of those ways. ways keep their index order, nodes their first
// appearance order along those ways.
func (ai *AreaIndex) Around(center datastructure.Coordinate, radiusKm float64) *osm.OSM {
	result := &osm.OSM{
		Nodes: make(osm.Nodes, 0),
		Ways:  make(osm.Ways, 0),
	}
	if len(ai.nodes) == 0 || radiusKm <= 0 {
		return result
	}

	radiusCap := geo.NewRadiusCap(center, radiusKm)
	wayIdxs := make([]int, 0)
	seenWay := make(map[int]struct{})
	for _, cell := range kRingIndexesArea(center.Lat, center.Lon, radiusKm) {
		for _, id := range ai.cells[cell] {
			n := ai.nodes[id]
			if !radiusCap.Contains(datastructure.NewCoordinate(n.Lat, n.Lon)) {
				continue
			}
			for _, wayIdx := range ai.nodeWays[id] {
				if _, ok := seenWay[wayIdx]; ok {
					continue
				}
				seenWay[wayIdx] = struct{}{}
				wayIdxs = append(wayIdxs, wayIdx)
			}
		}
	}
	slices.Sort(wayIdxs)

	seenNode := make(map[osm.NodeID]struct{})
	for _, wayIdx := range wayIdxs {
		way := ai.ways[wayIdx]
		result.Ways = append(result.Ways, way)
		for _, wn := range way.Nodes {
			n, ok := ai.nodes[wn.ID]
			if !ok {
				continue
			}
			if _, ok := seenNode[wn.ID]; ok {
				continue
			}
			seenNode[wn.ID] = struct{}{}
			result.Nodes = append(result.Nodes, n)
		}
	}
	return result
}

// kRingIndexesArea h3 disk around (lat, lon) whose area covers the search circle, plus one ring
// so cells cut by the circle boundary are included.
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	origin := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea
	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius+1)
}
