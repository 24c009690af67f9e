package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/waypath-data/waypath/internal/units"
	"github.com/waypath-data/waypath/internal/vision"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// Fallback values used when a field is absent from both the JSON file and
// the defaults file.
const (
	DefaultFOVDegrees  = 60.0
	DefaultImageWidth  = 640
	DefaultImageHeight = 480
)

// TuningConfig represents the root configuration for the depth engine.
// The schema matches the /api/config endpoint so the same JSON can be used
// for both startup configuration and runtime hot-swaps. All fields are
// optional; Get* methods provide fallback defaults, so partial configs are
// safe.
type TuningConfig struct {
	// Camera geometry. When focal lengths are set explicitly they win;
	// otherwise they are derived from the field of view.
	FOVDegrees   *float64 `json:"fov_degrees,omitempty"`
	FocalLengthX *float64 `json:"focal_length_x,omitempty"`
	FocalLengthY *float64 `json:"focal_length_y,omitempty"`
	ImageWidth   *int     `json:"image_width,omitempty"`
	ImageHeight  *int     `json:"image_height,omitempty"`

	// Estimation params
	CalculationMethod *string  `json:"calculation_method,omitempty"` // width|height|average|max|min
	MinDepthMeters    *float64 `json:"min_depth_meters,omitempty"`
	MaxDepthMeters    *float64 `json:"max_depth_meters,omitempty"`

	// Display params
	DisplayUnits *string `json:"display_units,omitempty"` // m|ft|cm
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid. FOV validation
// happens here, at configuration-edit time: the engine itself does not
// recover from an invalid field of view.
func (c *TuningConfig) Validate() error {
	if c.FOVDegrees != nil {
		if err := vision.ValidateFOV(*c.FOVDegrees); err != nil {
			return err
		}
	}
	if c.FocalLengthX != nil && *c.FocalLengthX <= 0 {
		return fmt.Errorf("focal_length_x must be positive, got %f", *c.FocalLengthX)
	}
	if c.FocalLengthY != nil && *c.FocalLengthY <= 0 {
		return fmt.Errorf("focal_length_y must be positive, got %f", *c.FocalLengthY)
	}
	if c.ImageWidth != nil && *c.ImageWidth <= 0 {
		return fmt.Errorf("image_width must be positive, got %d", *c.ImageWidth)
	}
	if c.ImageHeight != nil && *c.ImageHeight <= 0 {
		return fmt.Errorf("image_height must be positive, got %d", *c.ImageHeight)
	}
	if c.CalculationMethod != nil {
		if _, err := vision.ParseMethod(*c.CalculationMethod); err != nil {
			return err
		}
	}
	if c.MinDepthMeters != nil && *c.MinDepthMeters <= 0 {
		return fmt.Errorf("min_depth_meters must be positive, got %f", *c.MinDepthMeters)
	}
	if c.MinDepthMeters != nil && c.MaxDepthMeters != nil && *c.MaxDepthMeters <= *c.MinDepthMeters {
		return fmt.Errorf("max_depth_meters (%f) must exceed min_depth_meters (%f)",
			*c.MaxDepthMeters, *c.MinDepthMeters)
	}
	if c.DisplayUnits != nil && !units.IsValid(*c.DisplayUnits) {
		return fmt.Errorf("invalid display_units %q (want %s)", *c.DisplayUnits, units.ValidUnitsString())
	}
	return nil
}

// GetFOVDegrees returns the configured field of view or the default.
func (c *TuningConfig) GetFOVDegrees() float64 {
	if c.FOVDegrees == nil {
		return DefaultFOVDegrees
	}
	return *c.FOVDegrees
}

// GetImageWidth returns the configured image width or the default.
func (c *TuningConfig) GetImageWidth() int {
	if c.ImageWidth == nil {
		return DefaultImageWidth
	}
	return *c.ImageWidth
}

// GetImageHeight returns the configured image height or the default.
func (c *TuningConfig) GetImageHeight() int {
	if c.ImageHeight == nil {
		return DefaultImageHeight
	}
	return *c.ImageHeight
}

// GetMethod returns the configured calculation method or MethodWidth.
func (c *TuningConfig) GetMethod() vision.Method {
	if c.CalculationMethod == nil {
		return vision.MethodWidth
	}
	method, err := vision.ParseMethod(*c.CalculationMethod)
	if err != nil {
		return vision.MethodWidth
	}
	return method
}

// GetDisplayUnits returns the configured display units or meters.
func (c *TuningConfig) GetDisplayUnits() string {
	if c.DisplayUnits == nil || !units.IsValid(*c.DisplayUnits) {
		return units.Meters
	}
	return *c.DisplayUnits
}

// BuildEstimatorConfig resolves the tuning values into an immutable engine
// configuration. Explicit focal lengths win over the field of view; the FOV
// path derives both focal lengths from the horizontal FOV and the image
// width, matching square-pixel sensors.
func (c *TuningConfig) BuildEstimatorConfig(catalog *vision.Catalog) (vision.EstimatorConfig, error) {
	if err := c.Validate(); err != nil {
		return vision.EstimatorConfig{}, err
	}

	imageWidth := float64(c.GetImageWidth())
	imageHeight := float64(c.GetImageHeight())

	var focalX, focalY float64
	if c.FocalLengthX != nil {
		focalX = *c.FocalLengthX
	} else {
		focalX = vision.FocalLengthFromFOV(imageWidth, c.GetFOVDegrees())
	}
	if c.FocalLengthY != nil {
		focalY = *c.FocalLengthY
	} else {
		focalY = focalX
	}

	cfg := vision.NewEstimatorConfig(focalX, focalY, imageWidth, imageHeight)
	cfg.Method = c.GetMethod()
	if c.MinDepthMeters != nil {
		cfg.MinDepth = *c.MinDepthMeters
	}
	if c.MaxDepthMeters != nil {
		cfg.MaxDepth = *c.MaxDepthMeters
	}
	if catalog != nil {
		cfg.Catalog = catalog
	}
	return cfg, nil
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
