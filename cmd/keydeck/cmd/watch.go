package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = 200 * time.Millisecond

// deckWatcher re-checks a deck whenever it or one of the files it includes
// changes. Directories are watched so that editors that save by renaming are
// seen too.
type deckWatcher struct {
	app      *app
	path     string
	debounce time.Duration
	report   func(checkResult)

	watcher *fsnotify.Watcher
	dirs    map[string]bool
	files   map[string]bool
}

func newDeckWatcher(a *app, path string, report func(checkResult)) *deckWatcher {
	return &deckWatcher{
		app:      a,
		path:     path,
		debounce: defaultDebounce,
		report:   report,
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
	}
}

// Run checks the deck once, then again after every change, until ctx is
// done.
func (dw *deckWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	dw.watcher = watcher
	logger := dw.app.container.Logger().Named("watch")

	top, err := filepath.Abs(dw.path)
	if err != nil {
		return err
	}
	if err := dw.track(top); err != nil {
		return err
	}
	dw.check(logger)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !dw.files[event.Name] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("deck file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			fire = time.After(dw.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			dw.check(logger)
		}
	}
}

func (dw *deckWatcher) track(path string) error {
	dw.files[path] = true
	dir := filepath.Dir(path)
	if dw.dirs[dir] {
		return nil
	}
	if err := dw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	dw.dirs[dir] = true
	return nil
}

func (dw *deckWatcher) check(logger *zap.Logger) {
	m, r, err := dw.app.read(dw.path)
	if r == nil {
		logger.Error("cannot create reader", zap.Error(err))
		return
	}
	for _, f := range r.Files() {
		if err := dw.track(f); err != nil {
			logger.Warn("cannot watch include", zap.Error(err))
		}
	}
	dw.report(checkResult{
		path:     dw.path,
		keywords: m.Len(),
		issues:   r.Issues(),
		failed:   err != nil || r.HasErrors(),
	})
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch <deck>",
		Short: "Re-check a deck whenever it or its includes change",
		Long: `Check a deck, then keep watching it and every file it includes,
checking again after each change. Stop with Ctrl-C.
With --metrics-addr the read metrics are served at /metrics.

Example:
  keydeck watch model.k
  keydeck watch model.k --metrics-addr localhost:9300`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			dw := newDeckWatcher(a, args[0], func(res checkResult) {
				status := "ok"
				if res.failed {
					status = "FAIL"
				}
				fmt.Fprintf(out, "%s  %-4s  %s (%d keywords, %d issues)\n",
					time.Now().Format(time.TimeOnly), status, res.path, res.keywords, len(res.issues))
				printIssues(out, res.issues)
			})
			dw.debounce = debounce
			if metricsAddr == "" {
				return dw.Run(ctx)
			}

			c := a.container
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return dw.Run(gctx) })
			g.Go(func() error {
				logger := c.Logger().Named("metrics")
				return serveMetrics(gctx, metricsAddr, newMetricsRouter(c.Metrics(), logger), logger)
			})
			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after a change before checking")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}
