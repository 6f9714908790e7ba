package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/internal/observability"
	"github.com/stridecanvas/stridecanvas-cli/internal/persistence"
	"github.com/stridecanvas/stridecanvas-cli/internal/reporting"
	"github.com/stridecanvas/stridecanvas-cli/internal/threat"
)

// newWatchCmd creates and configures the `watch` command.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <diagram.json>",
		Short: "Re-runs threat analysis whenever the diagram file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			path := args[0]
			debounce := cfg.Analysis().WatchDebounce

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory rather than the file: editors that save via
			// rename would otherwise drop the watch after the first write.
			dir := filepath.Dir(path)
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}

			analyze := func() {
				if err := runWatchAnalysis(path, logger); err != nil {
					logger.Warn("Analysis failed", zap.Error(err))
				}
			}
			analyze()

			logger.Info("Watching for changes", zap.String("path", path))

			var timer *time.Timer
			pending := make(chan struct{}, 1)
			ctx := cmd.Context()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-pending:
					analyze()
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(path) {
						continue
					}
					if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
						continue
					}
					// Debounce: a save often produces several events in quick
					// succession, only the last one matters.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("Watcher error", zap.Error(err))
				}
			}
		},
	}
}

// runWatchAnalysis loads the diagram and prints a text summary to stdout.
func runWatchAnalysis(path string, logger *zap.Logger) error {
	doc, err := persistence.LoadDocument(path, logger)
	if err != nil {
		return err
	}

	model := threat.NewThreatModel(cfg.Analysis().ModelName, doc.Shapes(), doc.Connectors(), logger)
	if engine := cfg.Analysis().ExternalEngine; engine != "" {
		model.SetExternalEngine(threat.NewCommandEngine(engine, logger))
	}
	model.RunAnalysis()
	report := model.Report()

	reporter, err := reporting.New("text", "")
	if err != nil {
		return err
	}
	defer reporter.Close()
	return reporter.Write(&report)
}

func init() {
	rootCmd.AddCommand(newWatchCmd())
}
