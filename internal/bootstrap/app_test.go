package bootstrap

import (
	"testing"

	"matchrate-backend/internal/llm"
	"matchrate-backend/internal/shared/config"
)

func TestBuildDevFallsBackToMemory(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil || app.Queue != nil {
		t.Fatalf("expected memory repos and inline exports")
	}
	if app.Router == nil || app.ExportsService == nil {
		t.Fatalf("expected router and services")
	}
	if _, ok := app.RewritesService.LLM.(llm.PlaceholderClient); !ok {
		t.Fatalf("expected placeholder llm, got %T", app.RewritesService.LLM)
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	if _, err := Build(config.Config{Env: "production", LocalStoreDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildRejectsUnknownLLMProvider(t *testing.T) {
	if _, err := Build(config.Config{LocalStoreDir: t.TempDir(), LLMProvider: "acme"}); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
