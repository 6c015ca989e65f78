package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/app"
	"github.com/ttc-klingenmuenster/clubsync/internal/config"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

// syncrun executes a single sync cycle and exits, for cron-style
// deployments without the long-running API server.
func main() {
	idsFlag := flag.String("ids", "", "comma separated feed match ids; empty runs a full auto sync")
	timeoutFlag := flag.Duration("timeout", 2*time.Minute, "cycle timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	ids := splitIDs(*idsFlag)
	report := runCycle(ctx, application, ids, logger)

	logger.Info("sync cycle finished",
		"created", len(report.Created),
		"updated", report.Updated,
		"failed", len(report.Failed),
		"skipped", report.Skipped,
	)
	if out := report.Render(); out != "" {
		logger.Info("sync report", "report", out)
	}
}

func runCycle(ctx context.Context, application *app.App, ids []string, logger *logging.Logger) usecase.SyncReport {
	var (
		report usecase.SyncReport
		err    error
	)
	if len(ids) > 0 {
		report, err = application.Sync.ManualSync(ctx, ids)
	} else {
		report, err = application.Sync.AutoSync(ctx)
	}
	if err != nil {
		logger.Error("sync cycle failed", "error", err)
		os.Exit(1)
	}
	return report
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
