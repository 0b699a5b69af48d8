package routingalgorithm

import (
	"fmt"
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
)

// CandidateScorer ranks the neighbors of the current node, lower is better.
// one scorer serves exactly one attempt.
type CandidateScorer interface {
	Score(cumulativeKm float64, current, candidate *datastructure.GraphNode) float64
	// Moved is called after every step with the new current node.
	Moved(cumulativeKm float64, current *datastructure.GraphNode)
}

// Strategy creates the scorer of each search attempt.
type Strategy interface {
	Name() string
	Attempts(cfg Config) int
	NewScorer(graph *datastructure.Graph, start *datastructure.GraphNode, desiredKm float64, attempt int, cfg Config) CandidateScorer
}

func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyGreedy:
		return greedyStrategy{}, nil
	case StrategyHeuristic:
		return heuristicStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
	}
}

type greedyStrategy struct{}

func (greedyStrategy) Name() string {
	return StrategyGreedy
}

func (greedyStrategy) Attempts(cfg Config) int {
	return 1
}

func (greedyStrategy) NewScorer(graph *datastructure.Graph, start *datastructure.GraphNode, desiredKm float64,
	attempt int, cfg Config) CandidateScorer {
	return greedyScorer{desiredKm: desiredKm}
}

// greedyScorer deviation from the desired distance right after taking the step.
type greedyScorer struct {
	desiredKm float64
}

func (g greedyScorer) Score(cumulativeKm float64, current, candidate *datastructure.GraphNode) float64 {
	return math.Abs(cumulativeKm + geo.HaversineDistance(current.Point, candidate.Point) - g.desiredKm)
}

func (g greedyScorer) Moved(cumulativeKm float64, current *datastructure.GraphNode) {}

type heuristicStrategy struct{}

func (heuristicStrategy) Name() string {
	return StrategyHeuristic
}

func (heuristicStrategy) Attempts(cfg Config) int {
	return cfg.Attempts
}

func (heuristicStrategy) NewScorer(graph *datastructure.Graph, start *datastructure.GraphNode, desiredKm float64,
	attempt int, cfg Config) CandidateScorer {
	bearing := GoalBearing(graph, start, attempt, cfg.Attempts)
	lat, lon := geo.GetDestinationPoint(start.Point.Lat, start.Point.Lon, bearing, desiredKm/2)
	goal := datastructure.NewCoordinate(lat, lon)
	return &heuristicScorer{
		start:       start.Point,
		goal:        goal,
		goalToStart: geo.HaversineDistance(goal, start.Point),
		desiredKm:   desiredKm,
		penalty:     cfg.Penalty,
	}
}

// GoalBearing bearing of the synthetic far point for the given attempt: toward the graph
// centroid, rotated by 360/attempts per attempt. north when start is the centroid.
func GoalBearing(graph *datastructure.Graph, start *datastructure.GraphNode, attempt, attempts int) float64 {
	bearing := 0.0
	if centroid, ok := graph.Centroid(); ok && geo.HaversineDistance(start.Point, centroid) > 1e-6 {
		bearing = geo.Bearing(start.Point, centroid)
	}
	if attempts > 0 {
		bearing += float64(attempt) * 360 / float64(attempts)
	}
	return math.Mod(bearing, 360)
}

// heuristicScorer a* style scorer. outbound it estimates the total loop length through the
// goal, inbound it estimates the length of going straight home.
type heuristicScorer struct {
	start       datastructure.Coordinate
	goal        datastructure.Coordinate
	goalToStart float64
	desiredKm   float64
	penalty     float64
	inbound     bool
}

func (h *heuristicScorer) Score(cumulativeKm float64, current, candidate *datastructure.GraphNode) float64 {
	g := cumulativeKm + geo.HaversineDistance(current.Point, candidate.Point)
	if h.inbound {
		return math.Abs(g + geo.HaversineDistance(candidate.Point, h.start) - h.desiredKm)
	}
	toGoal := geo.HaversineDistance(candidate.Point, h.goal)
	return math.Abs(g + toGoal + h.goalToStart + h.penalty*toGoal - h.desiredKm)
}

func (h *heuristicScorer) Moved(cumulativeKm float64, current *datastructure.GraphNode) {
	if h.inbound {
		return
	}
	if geo.HaversineDistance(current.Point, h.goal) <= 0.1*h.desiredKm || cumulativeKm >= h.desiredKm/2 {
		h.inbound = true
	}
}
