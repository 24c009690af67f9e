package monitor

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DepthPlotter renders the recorded frame history as PNG time series for
// offline replay runs, where a browser may not be handy.
type DepthPlotter struct {
	history   *History
	outputDir string
}

// NewDepthPlotter creates a plotter writing into outputDir.
func NewDepthPlotter(history *History, outputDir string) *DepthPlotter {
	return &DepthPlotter{history: history, outputDir: outputDir}
}

// WritePlots renders min-depth and estimation-count series to PNG files and
// returns their paths.
func (dp *DepthPlotter) WritePlots() ([]string, error) {
	samples := dp.history.Samples()
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}

	if err := os.MkdirAll(dp.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	depthPts := make(plotter.XYs, 0, len(samples))
	countPts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		if !math.IsInf(s.MinDepth, 1) {
			depthPts = append(depthPts, plotter.XY{X: float64(s.FrameIdx), Y: s.MinDepth})
		}
		countPts = append(countPts, plotter.XY{X: float64(s.FrameIdx), Y: float64(s.Estimations)})
	}

	var written []string

	if len(depthPts) > 0 {
		depthPlot := plot.New()
		depthPlot.Title.Text = "Minimum obstacle depth"
		depthPlot.X.Label.Text = "frame"
		depthPlot.Y.Label.Text = "depth (m)"

		depthLine, err := plotter.NewLine(depthPts)
		if err != nil {
			return written, fmt.Errorf("failed to build depth line: %w", err)
		}
		depthLine.Width = vg.Points(1)
		depthPlot.Add(depthLine, plotter.NewGrid())

		depthFile := filepath.Join(dp.outputDir, "min_depth.png")
		if err := depthPlot.Save(14*vg.Inch, 6*vg.Inch, depthFile); err != nil {
			return written, fmt.Errorf("failed to save depth plot: %w", err)
		}
		written = append(written, depthFile)
	}

	countPlot := plot.New()
	countPlot.Title.Text = "Estimations per frame"
	countPlot.X.Label.Text = "frame"
	countPlot.Y.Label.Text = "count"

	countLine, err := plotter.NewLine(countPts)
	if err != nil {
		return written, fmt.Errorf("failed to build count line: %w", err)
	}
	countLine.Width = vg.Points(1)
	countPlot.Add(countLine, plotter.NewGrid())

	countFile := filepath.Join(dp.outputDir, "estimations.png")
	if err := countPlot.Save(14*vg.Inch, 6*vg.Inch, countFile); err != nil {
		return written, fmt.Errorf("failed to save count plot: %w", err)
	}
	written = append(written, countFile)

	return written, nil
}
