package geo

import (
	"container/list"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
)

const (
	DOUGLAS_PEUCKER_THRESHOLDS = 7.0 // 7 meter
)

// https://cartography-playground.gitlab.io/playgrounds/douglas-peucker-algorithm/

// RamerDouglasPeucker drops points closer than threshold meter to the simplified line.
// first and last point are always kept.
func RamerDouglasPeucker(coords []datastructure.Coordinate, threshold float64) []datastructure.Coordinate {
	size := len(coords)
	if size < 3 {
		return coords
	}

	kept := make([]bool, size)
	kept[0] = true
	kept[size-1] = true

	stack := list.New()
	stack.PushBack([2]int{0, size - 1})

	for stack.Len() > 0 {
		pair := stack.Remove(stack.Back()).([2]int)
		left, right := pair[0], pair[1]
		var maxDist float64
		farthestIndex := left

		// sweep over range to find the farthest point from the segment (left,right)
		for i := left + 1; i < right; i++ {
			var dist float64
			if coords[left] == coords[right] {
				// closed loop segment, project onto a point
				dist = HaversineDistance(coords[left], coords[i]) * 1000
			} else {
				dist = PointLinePerpendicularDistance(coords[left], coords[right], coords[i])
			}
			if dist > maxDist {
				maxDist = dist
				farthestIndex = i
			}
		}

		if maxDist > threshold {
			kept[farthestIndex] = true
			if left < farthestIndex {
				stack.PushBack([2]int{left, farthestIndex})
			}
			if farthestIndex < right {
				stack.PushBack([2]int{farthestIndex, right})
			}
		}
	}

	simplified := make([]datastructure.Coordinate, 0, size)
	for i, necessary := range kept {
		if necessary {
			simplified = append(simplified, coords[i])
		}
	}
	return simplified
}
