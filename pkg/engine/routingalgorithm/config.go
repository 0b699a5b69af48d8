package routingalgorithm

import (
	"errors"
	"fmt"
	"math"
)

const (
	StrategyGreedy    = "greedy"
	StrategyHeuristic = "heuristic"
)

var ErrInvalidConfig = errors.New("invalid route search config")

// Config tunes the loop search. distances are kilometers.
type Config struct {
	// Tolerance relative deviation from the desired distance accepted for a closed loop.
	Tolerance float64
	// MaxIterations step budget shared by every attempt of one search.
	MaxIterations int
	// ClosureSnapKm longest straight hop back to the start accepted when start is not a neighbor.
	// +Inf accepts any closing hop, closure then depends on the tolerance alone.
	ClosureSnapKm float64
	// PruneKm hops shorter than this are dropped from the path.
	PruneKm float64
	// Penalty weight of the backtracking term of the heuristic score.
	Penalty float64
	// Attempts number of goal bearings tried by the heuristic strategy.
	Attempts int
	// ProgressEvery log interval in iterations.
	ProgressEvery int
	Strategy      string
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     0.1,
		MaxIterations: 5000,
		ClosureSnapKm: math.Inf(1),
		PruneKm:       0.01,
		Penalty:       0.1,
		Attempts:      4,
		ProgressEvery: 100,
		Strategy:      StrategyGreedy,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Tolerance <= 0 || c.Tolerance >= 1:
		return fmt.Errorf("%w: tolerance must be in (0, 1), got %v", ErrInvalidConfig, c.Tolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.ClosureSnapKm < 0 || math.IsNaN(c.ClosureSnapKm):
		return fmt.Errorf("%w: closure snap radius must not be negative", ErrInvalidConfig)
	case c.PruneKm < 0:
		return fmt.Errorf("%w: prune threshold must not be negative", ErrInvalidConfig)
	case c.Penalty < 0:
		return fmt.Errorf("%w: penalty must not be negative", ErrInvalidConfig)
	case c.Attempts <= 0:
		return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidConfig, c.Attempts)
	}
	if _, err := NewStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}
