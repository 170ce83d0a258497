package stimulus

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the randomized stimulus parameters for one fuzz run.
type Config struct {
	// DataWidth is the bit width of the words pushed through the stage.
	DataWidth int `json:"data_width"`

	// Ticks is the number of randomized ticks before draining.
	Ticks uint64 `json:"ticks"`

	// Seed seeds the stimulus random stream for reproducible runs.
	Seed int64 `json:"seed"`

	// ValidProbability is the per-tick chance the producer offers an item.
	ValidProbability float64 `json:"valid_probability"`

	// ReadyProbability is the per-tick chance the consumer accepts.
	ReadyProbability float64 `json:"ready_probability"`

	// ResetProbability is the per-tick chance reset is asserted.
	ResetProbability float64 `json:"reset_probability"`

	// DrainLimit bounds the post-run drain. A conforming single-slot stage
	// empties in one ready tick; hitting this bound means it is stuck.
	DrainLimit uint64 `json:"drain_limit"`
}

// DefaultConfig returns the stimulus parameters used when no config file
// is given: a long run with mild backpressure and occasional resets.
func DefaultConfig() *Config {
	return &Config{
		DataWidth:        32,
		Ticks:            10000,
		Seed:             1,
		ValidProbability: 0.7,
		ReadyProbability: 0.6,
		ResetProbability: 0.01,
		DrainLimit:       16,
	}
}

// LoadConfig reads stimulus parameters from a JSON file. Missing fields
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the parameters for consistency.
func (c *Config) Validate() error {
	if c.Ticks == 0 {
		return fmt.Errorf("ticks must be > 0")
	}
	for name, p := range map[string]float64{
		"valid_probability": c.ValidProbability,
		"ready_probability": c.ReadyProbability,
		"reset_probability": c.ResetProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", name, p)
		}
	}
	if c.DrainLimit == 0 {
		return fmt.Errorf("drain_limit must be > 0")
	}
	return nil
}
