// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/pixel-primitives/internal/compare"
	"github.com/ironsheep/pixel-primitives/internal/labeling"
	"github.com/ironsheep/pixel-primitives/internal/logger"
)

// Environment variable names.
const (
	EnvLogLevel      = "PIXEL_LOG_LEVEL"
	EnvLabelCapacity = "PIXEL_LABEL_CAPACITY"
	EnvBinaryLevel   = "PIXEL_BINARY_LEVEL"
	EnvHuThreshold   = "PIXEL_HU_THRESHOLD"
)

// DefaultBinaryLevel is the threshold applied before labeling and contour
// extraction when a caller does not give one.
const DefaultBinaryLevel uint8 = 127

// Config holds the settings shared by the server and the CLI.
type Config struct {
	LogLevel      zerolog.Level
	LabelCapacity int
	BinaryLevel   uint8
	HuThreshold   float64
}

// Default returns the settings used when no variable is set.
func Default() *Config {
	return &Config{
		LogLevel:      zerolog.InfoLevel,
		LabelCapacity: labeling.DefaultCapacity,
		BinaryLevel:   DefaultBinaryLevel,
		HuThreshold:   compare.MatchThreshold,
	}
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads settings through getenv. Unset or empty variables keep
// their defaults; malformed values are errors.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level, err := logger.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := strings.TrimSpace(getenv(EnvLabelCapacity)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLabelCapacity, err)
		}
		if n < 2 || n > 65536 {
			return nil, fmt.Errorf("%s: %d outside [2,65536]", EnvLabelCapacity, n)
		}
		cfg.LabelCapacity = n
	}

	if v := strings.TrimSpace(getenv(EnvBinaryLevel)); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvBinaryLevel, err)
		}
		cfg.BinaryLevel = uint8(n)
	}

	if v := strings.TrimSpace(getenv(EnvHuThreshold)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHuThreshold, err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("%s: must be positive, got %v", EnvHuThreshold, f)
		}
		cfg.HuThreshold = f
	}

	return cfg, nil
}
