package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-worktime-tracker/internal/config"
	"github.com/penwyp/go-worktime-tracker/internal/core/monitor"
	"github.com/penwyp/go-worktime-tracker/internal/core/recorder"
	"github.com/penwyp/go-worktime-tracker/internal/data/aggregator"
	"github.com/penwyp/go-worktime-tracker/internal/data/spool"
	"github.com/penwyp/go-worktime-tracker/internal/data/store"
	"github.com/penwyp/go-worktime-tracker/internal/server"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run the tracking daemon",
	Long: `track runs the long-lived tracking daemon. It serves the local HTTP API
that editor plugins and browser extensions report to, watches the spool
directory for offline browsing reports, and flushes completed sessions to
the database. Configuration comes from WORKTIME_* environment variables.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}

	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer db.Close()

	m := monitor.NewActivityMonitor()
	registry := recorder.NewRegistry(m, db, recorder.Config{
		IdleThreshold: cfg.IdleThreshold,
		Granularity:   cfg.FlushGranularity,
	})
	defer registry.StopAll()

	browsing := recorder.NewBrowsingReporter(db)

	watcher, err := spool.NewWatcher(cfg.SpoolDir, browsing)
	if err != nil {
		return fmt.Errorf("open spool watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start spool watcher: %w", err)
	}
	defer watcher.Stop()

	agg := aggregator.New(db, cfg.MergeGap)
	srv := server.New(cfg.ListenAddr, registry, browsing, agg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	util.LogInfof("Tracking daemon started (db=%s, spool=%s)", cfg.DBPath, cfg.SpoolDir)

	select {
	case sig := <-sigCh:
		util.LogInfof("Received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.LogWarnf("HTTP shutdown did not complete cleanly: %v", err)
	}
	return nil
}
