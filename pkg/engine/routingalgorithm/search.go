package routingalgorithm

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/util"

	"golang.org/x/exp/slices"
)

var (
	ErrNoPath = errors.New("no path found")
)

// Terminal why a search attempt stopped.
type Terminal int

const (
	TerminalNone Terminal = iota
	TerminalClosed
	TerminalDeadEnd
	TerminalExhausted
)

func (t Terminal) String() string {
	switch t {
	case TerminalClosed:
		return "closed"
	case TerminalDeadEnd:
		return "dead_end"
	case TerminalExhausted:
		return "exhausted"
	default:
		return "none"
	}
}

// SearchResult node id path of a loop search. Closed paths start and end at the start node,
// best effort paths only start there.
type SearchResult struct {
	Path       []int64
	DistanceKm float64
	Terminal   Terminal
	Closed     bool
	Iterations int
	Attempts   int
}

// searchState one attempt of the walk. hops[i] is the length of the hop ending at path[i].
// from is the node the walk just came from, it can differ from the path tail after pruning.
type searchState struct {
	visited    map[int64]struct{}
	path       []int64
	hops       []float64
	cumulative float64
	from       int64
	hasFrom    bool

	bestPath      []int64
	bestDistance  float64
	bestDeviation float64

	pq *datastructure.MinHeap[*datastructure.GraphNode]
}

func newSearchState(start int64) *searchState {
	return &searchState{
		visited:       map[int64]struct{}{start: {}},
		path:          []int64{start},
		hops:          []float64{0},
		bestDeviation: math.Inf(1),
		pq:            datastructure.NewMinHeap[*datastructure.GraphNode](),
	}
}

func (s *searchState) isVisited(id int64) bool {
	_, ok := s.visited[id]
	return ok
}

func (s *searchState) move(from, id int64, hopKm float64) {
	s.from = from
	s.hasFrom = true
	s.path = append(s.path, id)
	s.hops = append(s.hops, hopKm)
	s.visited[id] = struct{}{}
	s.cumulative += hopKm
}

// prune pops the last point when its hop is shorter than thresholdKm. the walk keeps going
// from the popped node, its position is within thresholdKm of the new path tail.
func (s *searchState) prune(thresholdKm float64) bool {
	last := len(s.path) - 1
	if last < 1 || s.hops[last] >= thresholdKm {
		return false
	}
	s.cumulative -= s.hops[last]
	s.path = s.path[:last]
	s.hops = s.hops[:last]
	return true
}

func (s *searchState) trackBest(desiredKm float64) {
	if len(s.path) < 2 {
		return
	}
	deviation := math.Abs(s.cumulative - desiredKm)
	if deviation < s.bestDeviation {
		s.bestDeviation = deviation
		s.bestDistance = s.cumulative
		s.bestPath = slices.Clone(s.path)
	}
}

type RouteAlgorithm struct {
	graph    *datastructure.Graph
	cfg      Config
	strategy Strategy
	log      util.LogFn
}

func NewRouteAlgorithm(graph *datastructure.Graph, cfg Config, log util.LogFn) (*RouteAlgorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &RouteAlgorithm{
		graph:    graph,
		cfg:      cfg,
		strategy: strategy,
		log:      log,
	}, nil
}

// Search walks the graph from startID looking for a loop of about desiredKm. the first closed
// attempt wins, otherwise the best seen path over all attempts is returned as a best effort
// result. ErrNoPath when the walk never left the start node.
func (rt *RouteAlgorithm) Search(startID int64, desiredKm float64) (SearchResult, error) {
	if desiredKm <= 0 || math.IsNaN(desiredKm) || math.IsInf(desiredKm, 0) {
		return SearchResult{}, fmt.Errorf("%w: desired distance must be positive, got %v", ErrInvalidConfig, desiredKm)
	}
	start, ok := rt.graph.GetNode(startID)
	if !ok {
		return SearchResult{}, fmt.Errorf("%w: start node %d is not in the graph", ErrNoPath, startID)
	}

	iterations := 0
	attempts := rt.strategy.Attempts(rt.cfg)
	terminal := TerminalNone
	var best *searchState
	ran := 0

	for attempt := 0; attempt < attempts; attempt++ {
		ran++
		scorer := rt.strategy.NewScorer(rt.graph, start, desiredKm, attempt, rt.cfg)
		s := newSearchState(startID)

		terminal = rt.walk(s, start, desiredKm, scorer, attempt, &iterations)
		if terminal == TerminalClosed {
			rt.log.Printf("loop search: closed loop after %d iterations (attempt %d), %.3f km, %d nodes",
				iterations, attempt+1, s.cumulative, len(s.path))
			return SearchResult{
				Path:       slices.Clone(s.path),
				DistanceKm: s.cumulative,
				Terminal:   TerminalClosed,
				Closed:     true,
				Iterations: iterations,
				Attempts:   ran,
			}, nil
		}

		rt.log.Printf("loop search: attempt %d ended %s after %d iterations", attempt+1, terminal, iterations)
		if best == nil || s.bestDeviation < best.bestDeviation {
			best = s
		}
		if terminal == TerminalExhausted {
			break
		}
	}

	if best == nil || best.bestPath == nil {
		return SearchResult{Terminal: terminal, Iterations: iterations, Attempts: ran}, ErrNoPath
	}
	return SearchResult{
		Path:       best.bestPath,
		DistanceKm: best.bestDistance,
		Terminal:   terminal,
		Closed:     false,
		Iterations: iterations,
		Attempts:   ran,
	}, nil
}

func (rt *RouteAlgorithm) walk(s *searchState, start *datastructure.GraphNode, desiredKm float64,
	scorer CandidateScorer, attempt int, iterations *int) Terminal {
	current := start
	for {
		if *iterations >= rt.cfg.MaxIterations {
			return TerminalExhausted
		}
		*iterations++
		if rt.cfg.ProgressEvery > 0 && *iterations%rt.cfg.ProgressEvery == 0 {
			rt.log.Printf("loop search: iteration %d (attempt %d), path %d nodes, %.3f km",
				*iterations, attempt+1, len(s.path), s.cumulative)
		}

		next, ok := rt.nextNode(s, current, scorer)
		if !ok {
			return TerminalDeadEnd
		}
		s.move(current.ID, next.ID, geo.HaversineDistance(current.Point, next.Point))
		current = next
		scorer.Moved(s.cumulative, current)

		if rt.tryClose(s, start, current, desiredKm) {
			return TerminalClosed
		}

		s.prune(rt.cfg.PruneKm)
		s.trackBest(desiredKm)
	}
}

// nextNode lowest scoring unvisited neighbor. when every neighbor was visited, any neighbor
// except the one the walk came from.
func (rt *RouteAlgorithm) nextNode(s *searchState, current *datastructure.GraphNode, scorer CandidateScorer) (*datastructure.GraphNode, bool) {
	s.pq.Clear()
	for _, id := range current.Neighbors() {
		if s.isVisited(id) {
			continue
		}
		rt.pushCandidate(s, current, id, scorer)
	}

	if s.pq.Size() == 0 {
		for _, id := range current.Neighbors() {
			if s.hasFrom && id == s.from {
				continue
			}
			rt.pushCandidate(s, current, id, scorer)
		}
	}

	best, ok := s.pq.ExtractMin()
	if !ok {
		return nil, false
	}
	return best.Item, true
}

func (rt *RouteAlgorithm) pushCandidate(s *searchState, current *datastructure.GraphNode, id int64, scorer CandidateScorer) {
	n, ok := rt.graph.GetNode(id)
	if !ok {
		return
	}
	s.pq.Insert(datastructure.NewPriorityQueueNode(scorer.Score(s.cumulative, current, n), n))
}

// tryClose closes the loop when going back to start lands within tolerance of the desired
// distance. with a finite ClosureSnapKm the closing hop must also be an edge or no longer than it.
func (rt *RouteAlgorithm) tryClose(s *searchState, start, current *datastructure.GraphNode, desiredKm float64) bool {
	closing := geo.HaversineDistance(start.Point, current.Point)
	potential := s.cumulative + closing
	if math.Abs(potential-desiredKm) > rt.cfg.Tolerance*desiredKm {
		return false
	}

	atStart := current.ID == start.ID
	if !atStart && !current.HasNeighbor(start.ID) && closing > rt.cfg.ClosureSnapKm {
		return false
	}

	if !atStart {
		s.path = append(s.path, start.ID)
		s.hops = append(s.hops, closing)
	}
	s.cumulative = potential
	return true
}
