package app

import (
	"fmt"
	"io"

	"github.com/fsnotify/fsnotify"

	"github.com/rgefryer/planner/internal/common"
)

// watch runs the pipeline once, then re-runs it on every write to
// chartPath until one of the watcher's channels closes. Watcher errors
// are logged and watching continues.
func watch(chartPath string, cfg common.Config, w io.Writer) error {
	logger := common.DefaultLogger()

	if err := runOnce(chartPath, cfg, w); err != nil {
		logger.Error("initial run failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(chartPath); err != nil {
		return fmt.Errorf("failed to watch chart file %q: %w", chartPath, err)
	}

	logger.Info("watching %s for changes", chartPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			logger.Info("chart file changed: %s", event.Name)
			if err := runOnce(chartPath, cfg, w); err != nil {
				logger.Error("re-run failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error: %v", err)
		}
	}
}
