package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/engine/routingalgorithm"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/osmparser"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/server"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/util"

	"github.com/paulmach/osm"
)

const (
	minRadiusKm = 0.5

	msgInvalidInput  = "Invalid route request."
	msgFetchFailed   = "Failed to fetch road network data."
	msgNoRoadData    = "No road data found in this area."
	msgGraphFailed   = "Failed to create graph from road data."
	msgNoStartNode   = "No start node found."
	msgNoPath        = "No path found."
	msgSearchFailure = "Failed to generate route."
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyData    = errors.New("empty road network data")
	ErrNoStartNode  = errors.New("no start node found")
)

type RoadNetworkFetcher interface {
	Fetch(ctx context.Context, center datastructure.Coordinate, radiusKm float64) (*osm.OSM, error)
}

type NodeSnapper interface {
	FindClosest(graph *datastructure.Graph, p datastructure.Coordinate) *datastructure.GraphNode
}

// GeneratedRoute assembled route plus how the search ended.
type GeneratedRoute struct {
	routingalgorithm.RouteResult
	Closed     bool
	Terminal   routingalgorithm.Terminal
	Iterations int
	GraphNodes int
	GraphEdges int
}

type RouteGenerationService struct {
	fetcher RoadNetworkFetcher
	snapper NodeSnapper
	cfg     routingalgorithm.Config
}

func NewRouteGenerationService(fetcher RoadNetworkFetcher, snapper NodeSnapper, cfg routingalgorithm.Config) (*RouteGenerationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RouteGenerationService{fetcher: fetcher, snapper: snapper, cfg: cfg}, nil
}

// SearchRadiusKm radius of the road network fetched for a loop of desiredKm.
func SearchRadiusKm(desiredKm float64) float64 {
	return math.Max(desiredKm/2, minRadiusKm)
}

// GenerateRoute builds a loop of about desiredMiles starting and ending near (startLat, startLng)
// with the configured strategy.
func (uc *RouteGenerationService) GenerateRoute(ctx context.Context, startLat, startLng, desiredMiles float64,
	log util.LogFn) (GeneratedRoute, error) {
	return uc.GenerateRouteWithStrategy(ctx, startLat, startLng, desiredMiles, "", log)
}

// GenerateRouteWithStrategy like GenerateRoute, a non empty strategy overrides the configured one.
func (uc *RouteGenerationService) GenerateRouteWithStrategy(ctx context.Context, startLat, startLng, desiredMiles float64,
	strategy string, log util.LogFn) (GeneratedRoute, error) {
	if err := validateInput(startLat, startLng, desiredMiles, strategy); err != nil {
		log.Printf("invalid route request: %v", err)
		return GeneratedRoute{}, server.WrapErrorf(err, server.ErrBadParamInput, msgInvalidInput)
	}

	cfg := uc.cfg
	if strategy != "" {
		cfg.Strategy = strategy
	}

	start := datastructure.NewCoordinate(startLat, startLng)
	desiredKm := geo.MilesToKm(desiredMiles)
	radiusKm := SearchRadiusKm(desiredKm)

	log.Printf("fetching road network around (%.6f, %.6f) within %.2f km", startLat, startLng, radiusKm)
	data, err := uc.fetcher.Fetch(ctx, start, radiusKm)
	if err != nil {
		log.Printf("road network fetch failed: %v", err)
		return GeneratedRoute{}, server.WrapErrorf(err, server.ErrBadGateway, msgFetchFailed)
	}

	numNodes, numWays := 0, 0
	if data != nil {
		numNodes, numWays = len(data.Nodes), len(data.Ways)
	}
	log.Printf("received %d elements (%d nodes, %d ways)", numNodes+numWays, numNodes, numWays)
	if numNodes+numWays == 0 {
		return GeneratedRoute{}, server.WrapErrorf(ErrEmptyData, server.ErrNotFound, msgNoRoadData)
	}

	graph := osmparser.BuildGraph(data)
	log.Printf("graph built: %d nodes, %d edges", graph.NumNodes(), graph.NumEdges())
	if graph.NumNodes() == 0 {
		return GeneratedRoute{}, server.WrapErrorf(ErrEmptyData, server.ErrNotFound, msgGraphFailed)
	}

	startNode := uc.snapper.FindClosest(graph, start)
	if startNode == nil {
		log.Printf("no start node near (%.6f, %.6f)", startLat, startLng)
		return GeneratedRoute{}, server.WrapErrorf(ErrNoStartNode, server.ErrNotFound, msgNoStartNode)
	}
	log.Printf("start node %d at (%.6f, %.6f), %.3f km from the requested point", startNode.ID,
		startNode.Point.Lat, startNode.Point.Lon, geo.HaversineDistance(start, startNode.Point))

	rt, err := routingalgorithm.NewRouteAlgorithm(graph, cfg, log)
	if err != nil {
		return GeneratedRoute{}, server.WrapErrorf(err, server.ErrInternalServerError, msgSearchFailure)
	}

	res, err := rt.Search(startNode.ID, desiredKm)
	if errors.Is(err, routingalgorithm.ErrNoPath) {
		log.Printf("route search failed after %d iterations: %v", res.Iterations, err)
		return GeneratedRoute{}, server.WrapErrorf(err, server.ErrNotFound, msgNoPath)
	} else if err != nil {
		log.Printf("route search failed: %v", err)
		return GeneratedRoute{}, server.WrapErrorf(err, server.ErrInternalServerError, msgSearchFailure)
	}

	route := routingalgorithm.Assemble(graph, res.Path, res.DistanceKm)
	log.Printf("route generated (%s): %d nodes, %.2f miles (%.2f km, requested %.2f miles) after %d iterations",
		res.Terminal, route.NodeCount, route.DistanceMiles, route.DistanceKm, desiredMiles, res.Iterations)

	return GeneratedRoute{
		RouteResult: route,
		Closed:      res.Closed,
		Terminal:    res.Terminal,
		Iterations:  res.Iterations,
		GraphNodes:  graph.NumNodes(),
		GraphEdges:  graph.NumEdges(),
	}, nil
}

func validateInput(lat, lng, miles float64, strategy string) error {
	switch {
	case math.IsNaN(lat) || lat < -90 || lat > 90:
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidInput, lat)
	case math.IsNaN(lng) || lng < -180 || lng > 180:
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidInput, lng)
	case math.IsNaN(miles) || math.IsInf(miles, 0) || miles <= 0:
		return fmt.Errorf("%w: desired distance must be a positive number of miles, got %v", ErrInvalidInput, miles)
	}
	if strategy != "" {
		if _, err := routingalgorithm.NewStrategy(strategy); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return nil
}
