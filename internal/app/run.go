package app

import (
	"fmt"
	"io"

	"github.com/rgefryer/planner/internal/allocate"
	"github.com/rgefryer/planner/internal/common"
	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/source"
	"github.com/rgefryer/planner/internal/view"
)

// runOnce loads, allocates and renders chartPath exactly once.
func runOnce(chartPath string, cfg common.Config, w io.Writer) error {
	rows, err := process(chartPath, cfg)
	if err != nil {
		return err
	}
	return render(rows, cfg.OutputFormat, w)
}

// process runs a chart file through the full pipeline: read, build,
// allocate, project.
func process(chartPath string, cfg common.Config) ([]view.Row, error) {
	logger := common.DefaultLogger()

	readerOpts := source.ReaderOptions{Strict: cfg.Strict, Logger: logger}
	src, err := source.ReadFile(chartPath, readerOpts)
	if err != nil {
		return nil, fmt.Errorf("reading chart %q: %w", chartPath, err)
	}

	tree, err := configtree.Build(src, cfg.Weeks)
	if err != nil {
		return nil, fmt.Errorf("building chart %q: %w", chartPath, err)
	}

	if weeks := tree.ConfigUint("weeks", cfg.Weeks); weeks != cfg.Weeks {
		// Re-build against the chart's own declared horizon: cells and
		// ranges are sized to Tree.Weeks at construction time, so a
		// [chart] "weeks" override can't just be patched in afterward.
		src, err = source.ReadFile(chartPath, readerOpts)
		if err != nil {
			return nil, fmt.Errorf("reading chart %q: %w", chartPath, err)
		}
		tree, err = configtree.Build(src, weeks)
		if err != nil {
			return nil, fmt.Errorf("building chart %q: %w", chartPath, err)
		}
	}

	if err := allocate.Run(tree); err != nil {
		return nil, fmt.Errorf("allocating chart %q: %w", chartPath, err)
	}

	return view.Project(tree), nil
}
