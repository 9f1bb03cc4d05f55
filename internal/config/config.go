package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Failure policies for unreadable or unparsable input files
const (
	PolicyLenient = "lenient" // skip the file, report it, keep the group
	PolicyStrict  = "strict"  // abort the run on the first file failure
)

// Calibration statistics: how one condition is reduced to a calibration point
const (
	StatisticSeriesMax    = "series_max"    // max aggregated mean inside the band
	StatisticReplicateMax = "replicate_max" // mean of per-replicate band maxima
)

// Config represents the complete application configuration
type Config struct {
	Parser   ParserConfig   `mapstructure:"parser"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Fit      FitConfig      `mapstructure:"fit"`
	Tauc     TaucConfig     `mapstructure:"tauc"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ParserConfig controls file decoding
type ParserConfig struct {
	Encodings  []string `mapstructure:"encodings" validate:"min=1,dive,required"`
	Delimiters []string `mapstructure:"delimiters" validate:"min=1,dive,required"`
	Policy     string   `mapstructure:"policy" validate:"oneof=lenient strict"`
}

// AnalysisConfig controls aggregation and calibration point extraction
type AnalysisConfig struct {
	SmoothingWindow int     `mapstructure:"smoothing_window" validate:"gte=1"`
	Workers         int     `mapstructure:"workers" validate:"gte=1,lte=256"`
	BandMin         float64 `mapstructure:"band_min"` // Emission band lower edge (inclusive)
	BandMax         float64 `mapstructure:"band_max"` // Emission band upper edge (inclusive)
	Statistic       string  `mapstructure:"statistic" validate:"oneof=series_max replicate_max"`
	Unit            string  `mapstructure:"unit"` // Concentration unit shown in reports, e.g. "µM"
}

// FitConfig restricts which conditions take part in the regression.
// A zero MaxConcentration means no upper bound.
type FitConfig struct {
	MinConcentration float64 `mapstructure:"min_concentration" validate:"gte=0"`
	MaxConcentration float64 `mapstructure:"max_concentration" validate:"gte=0"`
	LowerInclusive   bool    `mapstructure:"lower_inclusive"`
	UpperInclusive   bool    `mapstructure:"upper_inclusive"`
}

// TaucConfig controls optical band-gap extraction
type TaucConfig struct {
	Exponent  float64 `mapstructure:"exponent" validate:"gt=0"` // 2 for direct allowed, 0.5 for indirect
	EnergyMin float64 `mapstructure:"energy_min" validate:"gte=0"`
	EnergyMax float64 `mapstructure:"energy_max" validate:"gtfield=EnergyMin"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

var validate = validator.New()

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Parser.Validate(); err != nil {
		return fmt.Errorf("parser config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Fit.Validate(); err != nil {
		return fmt.Errorf("fit config: %w", err)
	}

	if err := c.Tauc.Validate(); err != nil {
		return fmt.Errorf("tauc config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates parser configuration
func (c *ParserConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Delimiters))
	for _, d := range c.Delimiters {
		if seen[d] {
			return fmt.Errorf("duplicate delimiter %q", d)
		}
		seen[d] = true
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.BandMax <= c.BandMin {
		return fmt.Errorf("band_max (%g) must be greater than band_min (%g)", c.BandMax, c.BandMin)
	}

	return nil
}

// Validate validates fit configuration
func (c *FitConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.MaxConcentration != 0 && c.MaxConcentration <= c.MinConcentration {
		return fmt.Errorf("max_concentration (%g) must be greater than min_concentration (%g)",
			c.MaxConcentration, c.MinConcentration)
	}

	return nil
}

// UpperBound returns the upper concentration limit, +Inf when unbounded
func (c *FitConfig) UpperBound() float64 {
	if c.MaxConcentration == 0 {
		return math.Inf(1)
	}
	return c.MaxConcentration
}

// Validate validates tauc configuration
func (c *TaucConfig) Validate() error {
	return validate.Struct(c)
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	return validate.Struct(c)
}

// IsStrict reports whether file failures abort the run
func (c *Config) IsStrict() bool {
	return strings.EqualFold(c.Parser.Policy, PolicyStrict)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}
