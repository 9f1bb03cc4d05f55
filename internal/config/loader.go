package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("spectrocal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	// SPECTROCAL_FIT_MAX_CONCENTRATION overrides fit.max_concentration
	v.SetEnvPrefix("SPECTROCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("parser.encodings", d.Parser.Encodings)
	v.SetDefault("parser.delimiters", d.Parser.Delimiters)
	v.SetDefault("parser.policy", d.Parser.Policy)

	v.SetDefault("analysis.smoothing_window", d.Analysis.SmoothingWindow)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.band_min", d.Analysis.BandMin)
	v.SetDefault("analysis.band_max", d.Analysis.BandMax)
	v.SetDefault("analysis.statistic", d.Analysis.Statistic)
	v.SetDefault("analysis.unit", d.Analysis.Unit)

	v.SetDefault("fit.min_concentration", d.Fit.MinConcentration)
	v.SetDefault("fit.max_concentration", d.Fit.MaxConcentration)
	v.SetDefault("fit.lower_inclusive", d.Fit.LowerInclusive)
	v.SetDefault("fit.upper_inclusive", d.Fit.UpperInclusive)

	v.SetDefault("tauc.exponent", d.Tauc.Exponent)
	v.SetDefault("tauc.energy_min", d.Tauc.EnergyMin)
	v.SetDefault("tauc.energy_max", d.Tauc.EnergyMax)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Encodings:  []string{"utf-8", "latin-1", "windows-1252"},
			Delimiters: []string{" ", "\t", "  "},
			Policy:     PolicyLenient,
		},
		Analysis: AnalysisConfig{
			SmoothingWindow: 5,
			Workers:         4,
			BandMin:         395,
			BandMax:         650,
			Statistic:       StatisticSeriesMax,
			Unit:            "µM",
		},
		Fit: FitConfig{
			MinConcentration: 0,
			MaxConcentration: 0,
			LowerInclusive:   true,
			UpperInclusive:   true,
		},
		Tauc: TaucConfig{
			Exponent:  2,
			EnergyMin: 3.3,
			EnergyMax: 3.5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
