package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/waypath-data/waypath/internal/vision"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"fov_degrees": 70,
		"image_width": 1280,
		"image_height": 720,
		"calculation_method": "average",
		"max_depth_meters": 20
	}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}
	if cfg.GetFOVDegrees() != 70 {
		t.Errorf("fov = %v, want 70", cfg.GetFOVDegrees())
	}
	if cfg.GetImageWidth() != 1280 || cfg.GetImageHeight() != 720 {
		t.Errorf("image = %dx%d, want 1280x720", cfg.GetImageWidth(), cfg.GetImageHeight())
	}
	if cfg.GetMethod() != vision.MethodAverageDimension {
		t.Errorf("method = %v, want average dimension", cfg.GetMethod())
	}
	if cfg.MinDepthMeters != nil {
		t.Error("min_depth_meters should be unset")
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	if _, err := LoadTuningConfig("tuning.yaml"); err == nil {
		t.Error("expected error for non-json extension")
	}
}

func TestPartialConfigUsesDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()
	if cfg.GetFOVDegrees() != DefaultFOVDegrees {
		t.Errorf("fov default = %v", cfg.GetFOVDegrees())
	}
	if cfg.GetImageWidth() != DefaultImageWidth || cfg.GetImageHeight() != DefaultImageHeight {
		t.Error("image size defaults wrong")
	}
	if cfg.GetMethod() != vision.MethodWidth {
		t.Errorf("method default = %v, want width", cfg.GetMethod())
	}
}

func TestValidateRejectsBadFOV(t *testing.T) {
	for _, fov := range []float64{0, -30, 180, 200} {
		cfg := &TuningConfig{FOVDegrees: ptrFloat64(fov)}
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate accepted fov=%v", fov)
		}
	}
}

func TestValidateRejectsInvertedDepthBounds(t *testing.T) {
	cfg := &TuningConfig{
		MinDepthMeters: ptrFloat64(5),
		MaxDepthMeters: ptrFloat64(2),
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted max < min")
	}
}

func TestValidateRejectsUnknownMethodAndUnits(t *testing.T) {
	if err := (&TuningConfig{CalculationMethod: ptrString("diagonal")}).Validate(); err == nil {
		t.Error("Validate accepted unknown method")
	}
	if err := (&TuningConfig{DisplayUnits: ptrString("furlongs")}).Validate(); err == nil {
		t.Error("Validate accepted unknown units")
	}
}

func TestBuildEstimatorConfigFromFOV(t *testing.T) {
	cfg := &TuningConfig{
		FOVDegrees: ptrFloat64(90),
		ImageWidth: ptrInt(1000),
	}

	est, err := cfg.BuildEstimatorConfig(nil)
	if err != nil {
		t.Fatalf("BuildEstimatorConfig failed: %v", err)
	}
	// tan(45°) = 1 -> f = 500
	if math.Abs(est.FocalLengthX-500) > 1e-9 {
		t.Errorf("focalX = %v, want 500", est.FocalLengthX)
	}
	if est.FocalLengthY != est.FocalLengthX {
		t.Error("focalY should default to focalX")
	}
	if est.MinDepth != vision.DefaultMinDepthMeters || est.MaxDepth != vision.DefaultMaxDepthMeters {
		t.Error("depth bounds should default")
	}
	if est.Catalog == nil || est.Catalog.Len() == 0 {
		t.Error("catalog should default to the built-in table")
	}
}

func TestBuildEstimatorConfigExplicitFocalWins(t *testing.T) {
	cfg := &TuningConfig{
		FOVDegrees:   ptrFloat64(90),
		FocalLengthX: ptrFloat64(777),
		FocalLengthY: ptrFloat64(888),
	}

	est, err := cfg.BuildEstimatorConfig(nil)
	if err != nil {
		t.Fatalf("BuildEstimatorConfig failed: %v", err)
	}
	if est.FocalLengthX != 777 || est.FocalLengthY != 888 {
		t.Errorf("focal = (%v, %v), want (777, 888)", est.FocalLengthX, est.FocalLengthY)
	}
}

func TestBuildEstimatorConfigCustomCatalog(t *testing.T) {
	catalog := vision.NewCatalog(map[string]vision.ObjectDimensions{
		"cane": {Width: 0.03, Height: 0.9},
	})
	est, err := EmptyTuningConfig().BuildEstimatorConfig(catalog)
	if err != nil {
		t.Fatalf("BuildEstimatorConfig failed: %v", err)
	}
	if _, ok := est.Catalog.Lookup("cane"); !ok {
		t.Error("custom catalog not wired into config")
	}
}
