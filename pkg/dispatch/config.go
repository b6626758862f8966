// pkg/dispatch/config.go

package dispatch

import (
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml and describes how a demo or application loop
// sets up its dispatcher.
type Config struct {
	TickMS    int    `yaml:"tick_ms"`    // 1 (by default)
	Policy    string `yaml:"policy"`     // interval | cycle | timing
	PoolLimit uint   `yaml:"pool_limit"` // 0 = unbounded
	RunForMS  int    `yaml:"run_for_ms"` // how long the demo loop runs
	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // text | json
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		TickMS:    1,
		Policy:    "interval",
		PoolLimit: 0,
		RunForMS:  2000,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig reads YAML and overrides defaults; empty path = defaults only.
func LoadConfig(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 1
	}
	if cfg.RunForMS < 0 {
		cfg.RunForMS = 0
	}

	return cfg
}

// SchedulingPolicy parses the configured policy name; unrecognized values
// fall back to PolicyInterval.
func (c Config) SchedulingPolicy() SchedulingPolicy {
	switch strings.ToLower(c.Policy) {
	case "cycle":
		return PolicyCycle
	case "timing":
		return PolicyTiming
	default:
		return PolicyInterval
	}
}
