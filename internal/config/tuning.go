package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/lanecruise/internal/units"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/planner.defaults.json"

// PlannerConfig represents the tuning parameters of a planning cycle. All
// fields are pointers so a partial JSON file overrides only what it names;
// the Get* methods supply compiled-in defaults for the rest.
type PlannerConfig struct {
	// Geometry params
	DownsampleStride  *int     `json:"downsample_stride,omitempty"`
	TrimBehindVehicle *bool    `json:"trim_behind_vehicle,omitempty"`
	ResampleCurve     *bool    `json:"resample_curve,omitempty"`
	SampleSpacingM    *float64 `json:"sample_spacing_m,omitempty"`

	// Cycle params
	PlanTimeout    *string `json:"plan_timeout,omitempty"` // duration string like "100ms"
	LogDiagnostics *bool   `json:"log_diagnostics,omitempty"`

	// Display params
	SpeedUnits *string `json:"speed_units,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyPlannerConfig returns a PlannerConfig with all fields set to nil.
// Use LoadPlannerConfig to load actual values from the defaults file.
func EmptyPlannerConfig() *PlannerConfig {
	return &PlannerConfig{}
}

// LoadPlannerConfig loads a PlannerConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyPlannerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical planner defaults from
// DefaultConfigPath. It searches for the file in the current directory and
// common parent directories. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *PlannerConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadPlannerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *PlannerConfig) Validate() error {
	if c.DownsampleStride != nil {
		if *c.DownsampleStride < 1 {
			return fmt.Errorf("downsample_stride must be at least 1, got %d", *c.DownsampleStride)
		}
	}

	if c.SampleSpacingM != nil {
		if *c.SampleSpacingM <= 0 {
			return fmt.Errorf("sample_spacing_m must be positive, got %f", *c.SampleSpacingM)
		}
	}

	if c.PlanTimeout != nil && *c.PlanTimeout != "" {
		if _, err := time.ParseDuration(*c.PlanTimeout); err != nil {
			return fmt.Errorf("invalid plan_timeout '%s': %w", *c.PlanTimeout, err)
		}
	}

	if c.SpeedUnits != nil && *c.SpeedUnits != "" {
		if !units.IsValid(*c.SpeedUnits) {
			return fmt.Errorf("invalid speed_units '%s', valid units are: %s", *c.SpeedUnits, units.ValidUnitsString())
		}
	}

	return nil
}

// GetDownsampleStride returns the downsample_stride value or the default.
func (c *PlannerConfig) GetDownsampleStride() int {
	if c.DownsampleStride == nil {
		return 8 // default: keep every 8th centerline point
	}
	return *c.DownsampleStride
}

// GetTrimBehindVehicle returns the trim_behind_vehicle value or the default.
func (c *PlannerConfig) GetTrimBehindVehicle() bool {
	if c.TrimBehindVehicle == nil {
		return true // default: drop points behind the localized position
	}
	return *c.TrimBehindVehicle
}

// GetResampleCurve returns the resample_curve value or the default.
func (c *PlannerConfig) GetResampleCurve() bool {
	if c.ResampleCurve == nil {
		return true // default: evaluate the fitted curve uniformly
	}
	return *c.ResampleCurve
}

// GetSampleSpacingM returns the sample_spacing_m value or the default.
func (c *PlannerConfig) GetSampleSpacingM() float64 {
	if c.SampleSpacingM == nil {
		return 1.0 // default: 1m between curve samples
	}
	return *c.SampleSpacingM
}

// GetPlanTimeout parses and returns the PlanTimeout as a time.Duration.
func (c *PlannerConfig) GetPlanTimeout() time.Duration {
	if c.PlanTimeout == nil || *c.PlanTimeout == "" {
		return 100 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.PlanTimeout)
	if err != nil {
		return 100 * time.Millisecond // default on parse error
	}
	return d
}

// GetLogDiagnostics returns the log_diagnostics value or the default.
func (c *PlannerConfig) GetLogDiagnostics() bool {
	if c.LogDiagnostics == nil {
		return true // default: mirror diagnostics to the package logger
	}
	return *c.LogDiagnostics
}

// GetSpeedUnits returns the speed_units value or the default.
func (c *PlannerConfig) GetSpeedUnits() string {
	if c.SpeedUnits == nil || !units.IsValid(*c.SpeedUnits) {
		return units.MPS // default: plans carry m/s
	}
	return *c.SpeedUnits
}
