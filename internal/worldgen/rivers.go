package worldgen

import (
	"math"
	"sort"
)

var flowDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
var flowDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}

// computeFlowAccumulation walks cells from highest to lowest elevation,
// at each step pushing the cell's accumulated flow to its single
// steepest-descent neighbor (D8). Every cell starts contributing 1 unit
// of its own, so accumulation only ever grows downhill.
func computeFlowAccumulation(elevation []float64, w, h int) []float64 {
	flow := make([]float64, w*h)
	for i := range flow {
		flow[i] = 1.0
	}

	order := make([]int, w*h)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return elevation[order[a]] > elevation[order[b]]
	})

	for _, i := range order {
		x, y := i%w, i/w
		best := elevation[i]
		bx, by := x, y
		for k := 0; k < 8; k++ {
			nx, ny := x+flowDX[k], y+flowDY[k]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if e := elevation[ny*w+nx]; e < best {
				best, bx, by = e, nx, ny
			}
		}
		if bx == x && by == y {
			continue // local sink; flow terminates here
		}
		flow[by*w+bx] += flow[i]
	}
	return flow
}

// carveRivers marks every cell whose flow accumulation clears
// flowThreshold as a river and lowers its elevation proportional to the
// square root of its flow, then runs one smoothing pass over the marked
// cells so channels don't show hard single-cell notches.
func carveRivers(elevation []float64, flow []float64, w, h int, flowThreshold float64) []bool {
	river := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if flow[i] < flowThreshold {
				continue
			}
			river[i] = true
			cut := 0.02 * math.Sqrt(flow[i])
			if cut > 2.0 {
				cut = 2.0
			}
			elevation[i] -= cut
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if !river[i] {
				continue
			}
			var sum float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += elevation[(y+dy)*w+(x+dx)]
				}
			}
			elevation[i] = 0.25*elevation[i] + 0.75*(sum/9)
		}
	}
	return river
}
