package routingalgorithm

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/geo"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearch(t *testing.T, g *datastructure.Graph, cfg Config) *RouteAlgorithm {
	t.Helper()
	rt, err := NewRouteAlgorithm(g, cfg, nil)
	require.NoError(t, err)
	return rt
}

func TestSearchPentagonLoop(t *testing.T) {
	phi := (1 + math.Sqrt(5)) / 2
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		t.Run(strategy, func(t *testing.T) {
			g := pentagonGraph()
			res, err := newSearch(t, g, testConfig(strategy)).Search(1, 5)
			require.NoError(t, err)

			// three sides plus the diagonal home already land within 10% of 5 km.
			assert.True(t, res.Closed)
			assert.Equal(t, TerminalClosed, res.Terminal)
			require.Len(t, res.Path, 5)
			assert.Equal(t, int64(1), res.Path[0])
			assert.Equal(t, int64(1), res.Path[4])
			assert.Len(t, uniqueIDs(res.Path[:4]), 4)
			assert.InDelta(t, 3+phi, res.DistanceKm, 1e-3)
			assert.GreaterOrEqual(t, res.DistanceKm, 4.5)
			assert.LessOrEqual(t, res.DistanceKm, 5.5)
			assert.InDelta(t, pathLength(g, res.Path), res.DistanceKm, 1e-9)
			assert.Equal(t, 1, res.Attempts)
		})
	}
}

func TestSearchPentagonLoopWalkableClosure(t *testing.T) {
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		t.Run(strategy, func(t *testing.T) {
			g := pentagonGraph()
			cfg := testConfig(strategy)
			cfg.ClosureSnapKm = 0.2
			res, err := newSearch(t, g, cfg).Search(1, 5)
			require.NoError(t, err)

			assert.True(t, res.Closed)
			require.Len(t, res.Path, 6)
			assert.Equal(t, int64(1), res.Path[0])
			assert.Equal(t, int64(1), res.Path[5])
			assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, res.Path[:5])
			assert.InDelta(t, 5.0, res.DistanceKm, 1e-3)
			assert.InDelta(t, pathLength(g, res.Path), res.DistanceKm, 1e-9)
		})
	}
}

func TestSearchClosesOverNonAdjacentStart(t *testing.T) {
	g := datastructure.NewGraph()
	addNode(g, 1, fixtureOrigin)
	east := offset(fixtureOrigin, 90, 1)
	addNode(g, 2, east)
	addNode(g, 3, offset(east, 0, 1))
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	s, _ := g.GetNode(1)
	b, _ := g.GetNode(3)
	closing := geo.HaversineDistance(s.Point, b.Point)
	desired := 2 + closing

	res, err := newSearch(t, g, DefaultConfig()).Search(1, desired)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.Equal(t, TerminalClosed, res.Terminal)
	assert.Equal(t, []int64{1, 2, 3, 1}, res.Path)
	assert.InDelta(t, desired, res.DistanceKm, 1e-6)

	cfg := DefaultConfig()
	cfg.ClosureSnapKm = 0.2
	res, err = newSearch(t, g, cfg).Search(1, desired)
	require.NoError(t, err)
	assert.False(t, res.Closed)
	assert.Equal(t, TerminalDeadEnd, res.Terminal)
	assert.Equal(t, []int64{1, 2, 3}, res.Path)
}

func TestSearchSingleNode(t *testing.T) {
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		t.Run(strategy, func(t *testing.T) {
			g := datastructure.NewGraph()
			g.AddNode(7, fixtureOrigin.Lat, fixtureOrigin.Lon)

			res, err := newSearch(t, g, testConfig(strategy)).Search(7, 3)
			assert.ErrorIs(t, err, ErrNoPath)
			assert.Equal(t, TerminalDeadEnd, res.Terminal)
			assert.Empty(t, res.Path)
		})
	}
}

func TestSearchDeadEnd(t *testing.T) {
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		t.Run(strategy, func(t *testing.T) {
			g := datastructure.NewGraph()
			addNode(g, 1, fixtureOrigin)
			addNode(g, 2, offset(fixtureOrigin, 0, 1))
			g.AddEdge(1, 2)

			res, err := newSearch(t, g, testConfig(strategy)).Search(1, 5)
			require.NoError(t, err)
			assert.False(t, res.Closed)
			assert.Equal(t, TerminalDeadEnd, res.Terminal)
			assert.Equal(t, []int64{1, 2}, res.Path)
			assert.InDelta(t, 1.0, res.DistanceKm, 1e-6)
		})
	}
}

func TestSearchStartNotInGraph(t *testing.T) {
	_, err := newSearch(t, pentagonGraph(), testConfig(StrategyGreedy)).Search(42, 5)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestSearchInvalidDistance(t *testing.T) {
	rt := newSearch(t, pentagonGraph(), testConfig(StrategyGreedy))
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := rt.Search(1, d)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestSearchClosesWithinTolerance(t *testing.T) {
	g := gridGraph(6, 0.5)
	cfg := DefaultConfig()
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		for _, desired := range []float64{2, 3, 4, 5, 6, 8} {
			for _, start := range []int64{1, 15, 36} {
				t.Run(fmt.Sprintf("%s/%v/%d", strategy, desired, start), func(t *testing.T) {
					res, err := newSearch(t, g, testConfig(strategy)).Search(start, desired)
					require.NoError(t, err)
					require.NotEmpty(t, res.Path)
					assert.Equal(t, start, res.Path[0])
					assert.InDelta(t, pathLength(g, res.Path), res.DistanceKm, 1e-9)

					for i := 1; i < len(res.Path)-1; i++ {
						n, _ := g.GetNode(res.Path[i-1])
						assert.True(t, n.HasNeighbor(res.Path[i]), "hop %d -> %d is not an edge", res.Path[i-1], res.Path[i])
					}

					if !res.Closed {
						return
					}
					assert.Equal(t, start, res.Path[len(res.Path)-1])
					assert.LessOrEqual(t, math.Abs(res.DistanceKm-desired), cfg.Tolerance*desired+1e-9)
				})
			}
		}
	}
}

func TestSearchHeuristicClosesGridSquare(t *testing.T) {
	g := gridGraph(6, 0.5)
	// goal sits 0.99 km north east of the corner, the walk turns home at the opposite square corner.
	res, err := newSearch(t, g, testConfig(StrategyHeuristic)).Search(1, 1.98)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	require.Len(t, res.Path, 5)
	assert.Equal(t, int64(8), res.Path[2])
	assert.InDelta(t, 2.0, res.DistanceKm, 0.01)
}

func TestSearchExhausted(t *testing.T) {
	for _, strategy := range []string{StrategyGreedy, StrategyHeuristic} {
		t.Run(strategy, func(t *testing.T) {
			g := ringGraph(10, 1.6)
			cfg := testConfig(strategy)
			cfg.MaxIterations = 25

			res, err := newSearch(t, g, cfg).Search(1, 1000)
			require.NoError(t, err)
			assert.False(t, res.Closed)
			assert.Equal(t, TerminalExhausted, res.Terminal)
			assert.Equal(t, 25, res.Iterations)
			assert.Equal(t, 1, res.Attempts)
			assert.Len(t, res.Path, 26)
			assert.InDelta(t, pathLength(g, res.Path), res.DistanceKm, 1e-9)
		})
	}
}

func TestSearchTieBreaksByNeighborOrder(t *testing.T) {
	g := datastructure.NewGraph()
	addNode(g, 1, fixtureOrigin)
	same := offset(fixtureOrigin, 45, 1)
	addNode(g, 10, same)
	addNode(g, 5, same)
	g.AddEdge(1, 10)
	g.AddEdge(1, 5)

	res, err := newSearch(t, g, testConfig(StrategyGreedy)).Search(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 10}, res.Path)
}

func TestSearchFallbackRevisits(t *testing.T) {
	// a 6 km hexagon only reaches 9 km on a second lap, the diagonal home closes it at 8 + sqrt(3).
	g := ringGraph(6, 1)
	res, err := newSearch(t, g, testConfig(StrategyGreedy)).Search(1, 9)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 1, 2, 3, 1}, res.Path)
	for i := 2; i < len(res.Path); i++ {
		assert.NotEqual(t, res.Path[i-2], res.Path[i], "immediate u-turn at %d", i)
	}
	assert.InDelta(t, 8+math.Sqrt(3), res.DistanceKm, 1e-3)
	assert.Equal(t, 8, res.Iterations)
}

func TestSearchPrunesMicroHops(t *testing.T) {
	g := datastructure.NewGraph()
	addNode(g, 1, fixtureOrigin)
	nearby := offset(fixtureOrigin, 0, 0.005)
	addNode(g, 2, nearby)
	addNode(g, 3, offset(nearby, 0, 1))
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	res, err := newSearch(t, g, testConfig(StrategyGreedy)).Search(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, res.Path)
	assert.InDelta(t, 1.0, res.DistanceKm, 1e-6)
}

func TestSearchProgressLog(t *testing.T) {
	g := ringGraph(12, 2)
	cfg := testConfig(StrategyGreedy)
	cfg.MaxIterations = 250
	cfg.ProgressEvery = 100

	lines := make([]string, 0)
	var log util.LogFn = func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	rt, err := NewRouteAlgorithm(g, cfg, log)
	require.NoError(t, err)
	_, err = rt.Search(1, 5000)
	require.NoError(t, err)

	progress := 0
	for _, l := range lines {
		if strings.Contains(l, "loop search: iteration") {
			progress++
		}
	}
	assert.Equal(t, 2, progress)
}

func TestTrackBestKeepsMinimumDeviation(t *testing.T) {
	s := newSearchState(1)
	s.trackBest(5)
	assert.Nil(t, s.bestPath)

	deviations := make([]float64, 0)
	for i, hop := range []float64{2, 2, 3, 0.5, 4} {
		s.move(int64(i+1), int64(i+2), hop)
		s.trackBest(5)
		deviations = append(deviations, math.Abs(s.cumulative-5))
		for _, d := range deviations {
			assert.LessOrEqual(t, s.bestDeviation, d)
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, s.bestPath)
	assert.Equal(t, 4.0, s.bestDistance)
}

func TestPrune(t *testing.T) {
	s := newSearchState(1)
	s.move(1, 2, 0.5)
	assert.False(t, s.prune(0.01))
	s.move(2, 3, 0.004)
	assert.True(t, s.prune(0.01))
	assert.Equal(t, []int64{1, 2}, s.path)
	assert.InDelta(t, 0.5, s.cumulative, 1e-12)
	assert.True(t, s.isVisited(3))
}

func TestTerminalString(t *testing.T) {
	assert.Equal(t, "closed", TerminalClosed.String())
	assert.Equal(t, "dead_end", TerminalDeadEnd.String())
	assert.Equal(t, "exhausted", TerminalExhausted.String())
	assert.Equal(t, "none", TerminalNone.String())
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
