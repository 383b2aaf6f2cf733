package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"renderhq/janus/pkg/config"
	"renderhq/janus/pkg/engine"
)

var daemonFlags struct {
	paths []string
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled cleanups",
	Long: `Run cleanups on the configured cron schedule until interrupted.

When telemetry metrics are enabled the daemon serves Prometheus metrics on
the configured listen address. When catalog watching is enabled the pattern
catalog file is reloaded on change.

Examples:
  # Daily at 3 AM per the config's schedule field
  janus daemon --path /mnt/projects/show01`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringArrayVarP(&daemonFlags.paths, "path", "p", nil, "tree to clean (repeatable)")
	daemonCmd.MarkFlagRequired("path")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if cfg.Schedule == "" {
		return fmt.Errorf("daemon mode needs a schedule in the configuration")
	}

	c, err := assemble(cfg, cfg.Telemetry.Metrics.Enabled)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := engine.NewScheduler(c.engine, cfg.Schedule, engine.RunOptions{
		Roots: daemonFlags.paths,
	})
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	if cfg.Telemetry.Metrics.Enabled {
		go serveMetrics(ctx, cfg, c.metrics)
	}
	if cfg.Rules.WatchCatalog && cfg.Rules.CatalogPath != "" {
		go watchCatalog(ctx, cfg, c)
	}

	if next := scheduler.NextRun(); next != nil {
		slog.Info("daemon running", "next_run", next.Format(time.RFC3339))
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func serveMetrics(ctx context.Context, cfg *config.Config, metrics *engine.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "address", cfg.Telemetry.Metrics.ListenAddress)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server failed", "error", err)
	}
}

// watchCatalog reloads the pattern catalog on file change and swaps it into
// the engine on the next run by reassembling. A failed reload keeps the
// previous catalog active.
func watchCatalog(ctx context.Context, cfg *config.Config, c *collaborators) {
	watcher := config.NewFileWatcher(cfg.Rules.CatalogPath, config.DefaultDebounceInterval)
	err := watcher.Watch(ctx, func() error {
		ruleSet, err := loadRuleSet(cfg)
		if err != nil {
			return err
		}
		return c.engine.ReplaceRules(ruleSet)
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("catalog watcher stopped", "error", err)
	}
}
