package cluster

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Default tuning values.
const (
	DefaultMaxIterations = 50
	DefaultEpsilon       = 0.05
)

// Environment variables read by ConfigFromEnv.
const (
	EnvWorkers       = "DITHERUM_WORKERS"
	EnvMaxIterations = "DITHERUM_MAX_ITERATIONS"
)

// Config tunes a clustering run.
type Config struct {
	// Workers is the size of the assignment pool. Zero or negative means
	// runtime.NumCPU().
	Workers int

	// MaxIterations caps the number of Lloyd iterations. Zero or negative
	// means DefaultMaxIterations.
	MaxIterations int

	// Epsilon is the largest centroid move, in Lab units, still considered
	// converged. Zero or negative means DefaultEpsilon, so the zero Config
	// behaves like DefaultConfig.
	Epsilon float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by DITHERUM_WORKERS and
// DITHERUM_MAX_ITERATIONS when they are set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", EnvMaxIterations, v)
		}
		cfg.MaxIterations = n
	}

	return cfg, nil
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}
