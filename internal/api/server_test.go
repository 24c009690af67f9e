package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/waypath-data/waypath/internal/settings"
	"github.com/waypath-data/waypath/internal/testutil"
	"github.com/waypath-data/waypath/internal/timeutil"
	"github.com/waypath-data/waypath/internal/units"
	"github.com/waypath-data/waypath/internal/vision"
)

func newTestServer(t *testing.T) (*Server, *vision.Pipeline) {
	t.Helper()

	cfg := vision.NewEstimatorConfig(500, 500, 1000, 1000)
	pipeline := vision.NewPipeline(vision.NewConfigHolder(cfg), timeutil.NewMockClock(time.Unix(1000, 0)))

	store, err := settings.NewStore(":memory:")
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewServer(pipeline, store, units.Meters), pipeline
}

func personAt(left, top, right, bottom float64) vision.Detection {
	d := vision.Detection{
		Label:      "person",
		Confidence: 0.9,
		Pixel:      vision.Box{Left: left, Top: top, Right: right, Bottom: bottom},
	}
	d.Normalize(1000, 1000)
	return d
}

func TestShowStats(t *testing.T) {
	server, pipeline := newTestServer(t)
	mux := server.ServeMux()

	// depth = 500*0.5/500 = 0.5 m
	pipeline.ProcessFrame([]vision.Detection{personAt(250, 200, 750, 900)})

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/stats"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp statsResponse
	testutil.AssertNoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	if resp.TotalEstimations != 1 {
		t.Errorf("total = %d, want 1", resp.TotalEstimations)
	}
	if resp.PerClassCounts["person"] != 1 {
		t.Errorf("person count = %d, want 1", resp.PerClassCounts["person"])
	}
	if resp.Units != units.Meters {
		t.Errorf("units = %q, want m", resp.Units)
	}
}

func TestClearStatsRequiresPost(t *testing.T) {
	server, pipeline := newTestServer(t)
	mux := server.ServeMux()

	pipeline.ProcessFrame([]vision.Detection{personAt(250, 200, 750, 900)})

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/stats/clear"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)

	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodPost, "/api/stats/clear"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	if snap := pipeline.Stats().Snapshot(); snap.TotalEstimations != 0 {
		t.Errorf("stats not cleared: total = %d", snap.TotalEstimations)
	}
}

func TestShowGrid(t *testing.T) {
	server, pipeline := newTestServer(t)
	mux := server.ServeMux()

	outcome := pipeline.ProcessFrame([]vision.Detection{personAt(250, 200, 750, 900)})
	server.RecordOutcome(outcome)

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/grid"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp gridResponse
	testutil.AssertNoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	if resp.Frames != 1 {
		t.Errorf("frames = %d, want 1", resp.Frames)
	}
	if resp.CentralColumnClear {
		t.Error("central column should be blocked")
	}
	if resp.MinDepth == nil || *resp.MinDepth != 0.5 {
		t.Errorf("min depth = %v, want 0.5", resp.MinDepth)
	}
	// 0.5 m sits exactly on the warning threshold, which is strict.
	if resp.Fired != "light" {
		t.Errorf("fired = %q, want light", resp.Fired)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	server, pipeline := newTestServer(t)
	mux := server.ServeMux()

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/config"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var before configResponse
	testutil.AssertNoError(t, json.NewDecoder(rec.Body).Decode(&before))
	if before.Method != "Width" {
		t.Errorf("method = %q, want Width", before.Method)
	}

	// Hot-swap via POST.
	body := strings.NewReader(`{"fov_degrees": 90, "image_width": 1000, "calculation_method": "height"}`)
	req, err := http.NewRequest(http.MethodPost, "/api/config", body)
	testutil.AssertNoError(t, err)
	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	cfg := pipeline.Config().Load()
	if cfg.Method != vision.MethodHeight {
		t.Errorf("method after swap = %v, want height", cfg.Method)
	}
	if cfg.FocalLengthX < 499.9 || cfg.FocalLengthX > 500.1 {
		t.Errorf("focalX after swap = %v, want ~500", cfg.FocalLengthX)
	}
	if cfg.Catalog == nil || cfg.Catalog.Len() == 0 {
		t.Error("catalog lost across hot swap")
	}
}

func TestUpdateConfigRejectsInvalidFOV(t *testing.T) {
	server, pipeline := newTestServer(t)
	mux := server.ServeMux()
	original := pipeline.Config().Load()

	body := strings.NewReader(`{"fov_degrees": 270}`)
	req, err := http.NewRequest(http.MethodPost, "/api/config", body)
	testutil.AssertNoError(t, err)
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	// Rejected config must leave the published one untouched.
	if got := pipeline.Config().Load(); got != original {
		t.Error("invalid POST mutated the live config")
	}
}

func TestSettingsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	mux := server.ServeMux()

	body := strings.NewReader(`{"obstacle_avoidance_enabled": "true", "show_depth_overlay": "false"}`)
	req, err := http.NewRequest(http.MethodPost, "/api/settings", body)
	testutil.AssertNoError(t, err)
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/settings"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var all map[string]string
	testutil.AssertNoError(t, json.NewDecoder(rec.Body).Decode(&all))
	if all["obstacle_avoidance_enabled"] != "true" {
		t.Errorf("settings = %v", all)
	}
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/healthz"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}
