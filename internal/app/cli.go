// Package app wires the engine packages (source, configtree, allocate,
// view) into a runnable CLI: load a chart, allocate it, print the
// weekly view, optionally watching the chart file for changes.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rgefryer/planner/internal/common"
)

const (
	fConfig = "config"
	fChart  = "chart"
	fWeeks  = "weeks"
	fFormat = "format"
	fWatch  = "watch"
	fStrict = "strict"
)

// New builds the "planner" CLI application.
func New() *cli.App {
	return &cli.App{
		Name:  "planner",
		Usage: "allocate a quarter-day resource chart and print the weekly view",

		Writer:    os.Stdout,
		ErrWriter: os.Stderr,

		Flags: []cli.Flag{
			&cli.PathFlag{Name: fConfig, Required: false, Value: "", Usage: "config file(s), comma-separated"},
			&cli.PathFlag{Name: fChart, Required: true, Usage: "path to the .chart file to allocate"},
			&cli.UintFlag{Name: fWeeks, Required: false, Usage: "chart horizon in weeks when [chart] declares none (overrides config)"},
			&cli.StringFlag{Name: fFormat, Required: false, Value: "", Usage: "output format: text or json (overrides config)"},
			&cli.BoolFlag{Name: fWatch, Required: false, Usage: "re-run on every chart file change"},
			&cli.BoolFlag{Name: fStrict, Required: false, Usage: "abort on the first malformed chart line"},
		},

		Action: action,
	}
}

func action(c *cli.Context) error {
	var pathConfigs []string
	if v := strings.TrimSpace(c.Path(fConfig)); v != "" {
		pathConfigs = strings.Split(v, ",")
	}

	cfg, err := common.NewConfig(pathConfigs...)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %v: %w", pathConfigs, err)
	}

	if c.IsSet(fWeeks) {
		cfg.Weeks = uint32(c.Uint(fWeeks))
	}
	if v := strings.TrimSpace(c.String(fFormat)); v != "" {
		cfg.OutputFormat = v
	}
	if c.IsSet(fWatch) {
		cfg.Watch = c.Bool(fWatch)
	}
	if c.IsSet(fStrict) {
		cfg.Strict = c.Bool(fStrict)
	}

	chartPath := c.Path(fChart)

	if cfg.Watch {
		return watch(chartPath, cfg, c.App.Writer)
	}
	return runOnce(chartPath, cfg, c.App.Writer)
}
