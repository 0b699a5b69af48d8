package util

import (
	"math"
)

// LogFn milestone logger, compatible with log.Printf. a nil LogFn discards everything.
type LogFn func(format string, args ...any)

func (l LogFn) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l(format, args...)
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
