package vision

// Grid geometry. The frame is divided into a fixed 3x3 layout, row-major:
// index = row*GridCols + col. The central column (indices 1, 4, 7)
// represents the path directly ahead.
const (
	GridRows  = 3
	GridCols  = 3
	GridCells = GridRows * GridCols
)

// SafetyThresholdMeters is the distance below which a detection counts as an
// obstacle for the grid and the feedback gate.
const SafetyThresholdMeters = 1.0

// Grid is a row-major 3x3 occupancy map of within-safety-range obstacles.
// It is rebuilt from scratch every frame with no temporal carry-over.
type Grid [GridCells]bool

// CentralColumnClear reports whether the middle third of the frame is free
// of obstacles.
func (g Grid) CentralColumnClear() bool {
	return !(g[1] || g[4] || g[7])
}

// Occupied returns the number of set cells.
func (g Grid) Occupied() int {
	n := 0
	for _, cell := range g {
		if cell {
			n++
		}
	}
	return n
}

// MapGrid folds the frame's depth results into a fresh grid. A result marks
// the cell under its normalized box center when its depth is below
// safetyThreshold; everything else leaves the grid untouched. The fold has
// no memory: a frame with zero in-range results yields an all-false grid
// regardless of what the previous frame produced.
func MapGrid(results []Result, safetyThreshold float64) Grid {
	var g Grid
	for _, r := range results {
		if r.DepthMeters >= safetyThreshold {
			continue
		}
		col := clampInt(int(r.Detection.Norm.CenterX()*GridCols), 0, GridCols-1)
		row := clampInt(int(r.Detection.Norm.CenterY()*GridRows), 0, GridRows-1)
		g[row*GridCols+col] = true
	}
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
