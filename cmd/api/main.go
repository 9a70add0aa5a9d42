package main

import (
	"os"

	"matchrate-backend/internal/bootstrap"
	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/server"
	"matchrate-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	telemetry.Info("api.starting", map[string]any{
		"addr":          addr,
		"env":           cfg.Env,
		"object_store":  cfg.ObjectStoreType,
		"queue_backend": cfg.QueueBackend,
		"database":      app.DB != nil,
	})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("api.server_error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
