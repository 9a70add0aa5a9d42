package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"matchrate-backend/internal/bootstrap"
	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/storage/db"
	"matchrate-backend/internal/shared/telemetry"
)

const (
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := max(1, envInt("MR_WORKER_CONCURRENCY", defaultWorkerConcurrency))
	shutdownTimeout := time.Duration(envInt("MR_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	// The worker only consumes; exports it processes must not be re-queued.
	buildCfg := cfg
	buildCfg.QueueBackend = ""
	buildCfg.DBRole = string(db.RoleWorker)
	app, err := bootstrap.Build(buildCfg)
	if err != nil {
		fatal("worker.bootstrap_failed", err)
	}

	switch cfg.QueueBackend {
	case "sqs":
		err = runSQS(ctx, cfg, app.ExportsService, concurrency, shutdownTimeout)
	case "amqp":
		err = runAMQP(ctx, cfg, app.ExportsService, concurrency, shutdownTimeout)
	default:
		telemetry.Error("worker.no_queue", map[string]any{"queue_backend": cfg.QueueBackend})
		os.Exit(1)
	}
	if err != nil {
		fatal("worker.stopped", err)
	}
	telemetry.Info("worker.exit", nil)
}

func fatal(msg string, err error) {
	telemetry.Error(msg, map[string]any{"error": err.Error()})
	os.Exit(1)
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
