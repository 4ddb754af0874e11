package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/goccy/go-yaml"
)

// Config holds the ambient process knobs: how to log, how strictly to
// treat malformed input, and how many weeks the chart spans by
// default. It never carries planning semantics (strategies, plans,
// budgets) — those live entirely in the chart file consumed by
// internal/configtree.
type Config struct {
	LogLevel  string `yaml:"log_level" env:"PLANNER_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"PLANNER_LOG_FORMAT"`
	LogFile   string `yaml:"log_file" env:"PLANNER_LOG_FILE"`

	// Strict halts the run on any malformed chart line. Lenient (the
	// default) skips the line and logs a warning instead.
	Strict bool `yaml:"strict" env:"PLANNER_STRICT"`

	// Weeks is the default chart horizon used when the chart file does
	// not declare one via a [chart] "weeks" attribute.
	Weeks uint32 `yaml:"weeks" env:"PLANNER_WEEKS"`

	// OutputFormat selects the rendering of the weekly view: "text" or
	// "json".
	OutputFormat string `yaml:"output_format" env:"PLANNER_OUTPUT_FORMAT"`

	// Watch enables hot-reload: re-run the pipeline whenever the chart
	// file changes on disk.
	Watch bool `yaml:"watch" env:"PLANNER_WATCH"`
}

// defaultConfig returns the config used when no YAML file and no
// environment override supplies a value.
func defaultConfig() Config {
	return Config{
		LogLevel:     logLevelInfoString,
		LogFormat:    "text",
		Weeks:        20,
		OutputFormat: "text",
	}
}

// NewConfig loads defaults, then layers each YAML file in
// pathConfigs (in order, missing files are skipped rather than
// failing), then applies environment variable overrides.
func NewConfig(pathConfigs ...string) (Config, error) {
	cfg := defaultConfig()

	for _, path := range pathConfigs {
		bts, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if strings.TrimSpace(string(bts)) == "" {
			continue
		}
		if err := yaml.Unmarshal(bts, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment overrides: %w", err)
	}

	return cfg, nil
}
