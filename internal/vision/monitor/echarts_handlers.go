package monitor

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WebServer serves quick echarts views of the engine's recent behaviour.
// These are debugging-only endpoints (no auth) for eyeballing depth series
// and grid pressure without a full UI.
type WebServer struct {
	history *History
}

// NewWebServer creates a monitor web server over the given history.
func NewWebServer(history *History) *WebServer {
	return &WebServer{history: history}
}

// Routes registers the monitor endpoints on mux.
func (ws *WebServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/monitor/depth", ws.handleDepthSeries)
	mux.HandleFunc("/monitor/grid", ws.handleGridOccupancy)
}

// handleDepthSeries renders a line chart (HTML) of min and mean depth per
// retained frame.
func (ws *WebServer) handleDepthSeries(w http.ResponseWriter, r *http.Request) {
	samples := ws.history.Samples()
	if len(samples) == 0 {
		http.Error(w, "no frames recorded yet", http.StatusNotFound)
		return
	}

	xs := make([]string, 0, len(samples))
	minSeries := make([]opts.LineData, 0, len(samples))
	meanSeries := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		xs = append(xs, fmt.Sprintf("%d", s.FrameIdx))
		if math.IsInf(s.MinDepth, 1) {
			minSeries = append(minSeries, opts.LineData{Value: nil})
		} else {
			minSeries = append(minSeries, opts.LineData{Value: s.MinDepth})
		}
		meanSeries = append(meanSeries, opts.LineData{Value: s.MeanDepth})
	}

	summary := ws.history.Summary()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Depth Series", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Depth per frame",
			Subtitle: fmt.Sprintf("frames=%d mean=%.2fm p95=%.2fm", summary.Frames, summary.Mean, summary.P95),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Depth (m)", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(xs).
		AddSeries("min depth", minSeries).
		AddSeries("mean depth", meanSeries)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleGridOccupancy renders a scatter of per-cell occupancy fraction over
// the retained frames. Cell coordinates are drawn screen-style: row 0 at
// the top.
func (ws *WebServer) handleGridOccupancy(w http.ResponseWriter, r *http.Request) {
	if ws.history.Len() == 0 {
		http.Error(w, "no frames recorded yet", http.StatusNotFound)
		return
	}

	occupancy := ws.history.CellOccupancy()
	data := make([]opts.ScatterData, 0, len(occupancy))
	for i, fraction := range occupancy {
		col := i % 3
		row := i / 3
		data = append(data, opts.ScatterData{Value: []interface{}{col, 2 - row, fraction}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Obstacle Grid", Theme: "dark", Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Grid occupancy",
			Subtitle: fmt.Sprintf("fraction of last %d frames each cell was blocked", ws.history.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: 3, Name: "column"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: 3, Name: "row"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#26828e", "#6ece58", "#fde725"}},
		}),
	)
	scatter.AddSeries("occupancy", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 40}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
