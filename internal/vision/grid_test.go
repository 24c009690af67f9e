package vision

import "testing"

// resultAt builds a result whose normalized box is centred on (cx, cy) with
// the given depth.
func resultAt(cx, cy, depth float64) Result {
	const half = 0.05
	return Result{
		Detection: Detection{
			Label: "person",
			Norm:  NormBox{Left: cx - half, Top: cy - half, Right: cx + half, Bottom: cy + half},
		},
		DepthMeters: depth,
	}
}

func TestMapGridCellIndices(t *testing.T) {
	tests := []struct {
		name     string
		cx, cy   float64
		wantCell int
	}{
		{"top left", 0.1, 0.1, 0},
		{"centre", 0.5, 0.5, 4},
		{"bottom right", 0.9, 0.9, 8},
		{"top centre", 0.5, 0.1, 1},
		{"bottom centre", 0.5, 0.9, 7},
		{"mid left", 0.1, 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := MapGrid([]Result{resultAt(tt.cx, tt.cy, 0.8)}, SafetyThresholdMeters)
			for i, cell := range g {
				want := i == tt.wantCell
				if cell != want {
					t.Errorf("cell %d = %v, want %v", i, cell, want)
				}
			}
		})
	}
}

func TestMapGridClampsEdgeCenters(t *testing.T) {
	// A centre exactly at 1.0 would floor to column 3; it must clamp to 2.
	g := MapGrid([]Result{resultAt(0.95, 0.95, 0.8)}, SafetyThresholdMeters)
	if !g[8] {
		t.Error("edge-of-frame centre should land in cell 8")
	}
}

func TestMapGridIgnoresOutOfRangeDepths(t *testing.T) {
	g := MapGrid([]Result{
		resultAt(0.5, 0.5, SafetyThresholdMeters),     // at threshold: not an obstacle
		resultAt(0.1, 0.1, SafetyThresholdMeters+1.0), // beyond
	}, SafetyThresholdMeters)

	if g.Occupied() != 0 {
		t.Errorf("grid has %d occupied cells, want 0", g.Occupied())
	}
	if !g.CentralColumnClear() {
		t.Error("central column should be clear")
	}
}

func TestCentralColumnClear(t *testing.T) {
	tests := []struct {
		name  string
		cells []int
		clear bool
	}{
		{"empty", nil, true},
		{"side cells only", []int{0, 3, 6, 2, 5, 8}, true},
		{"top centre", []int{1}, false},
		{"middle centre", []int{4}, false},
		{"bottom centre", []int{7}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grid
			for _, i := range tt.cells {
				g[i] = true
			}
			if got := g.CentralColumnClear(); got != tt.clear {
				t.Errorf("CentralColumnClear() = %v, want %v", got, tt.clear)
			}
		})
	}
}

func TestMapGridIsStatelessAcrossFrames(t *testing.T) {
	// Frame 1: blocked centre.
	g1 := MapGrid([]Result{resultAt(0.5, 0.5, 0.5)}, SafetyThresholdMeters)
	if g1.CentralColumnClear() {
		t.Fatal("frame 1 should block the central column")
	}

	// Frame 2: zero detections; the grid must be all-false regardless of
	// the previous frame.
	g2 := MapGrid(nil, SafetyThresholdMeters)
	if g2.Occupied() != 0 || !g2.CentralColumnClear() {
		t.Error("empty frame must produce an all-false grid")
	}
}
