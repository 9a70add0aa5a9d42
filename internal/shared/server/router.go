package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/documents"
	"matchrate-backend/internal/exports"
	"matchrate-backend/internal/parses"
	"matchrate-backend/internal/rewrites"
	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/metrics"
	"matchrate-backend/internal/shared/server/middleware"
	"matchrate-backend/internal/shared/server/respond"
	"matchrate-backend/internal/shared/storage/db"
)

// Rate limit groups.
const (
	GroupDefault = "DEFAULT"
	GroupParse   = "PARSE"
	GroupPolling = "POLLING"
)

// RouterDeps carries the feature handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	ParseHandler    *parses.Handler
	ExportHandler   *exports.Handler
	RewriteHandler  *rewrites.Handler
	// DB is pinged by the health route when set.
	DB *sql.DB
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Identity(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        rateLimitRules(deps.Config),
			DefaultGroup: GroupDefault,
			GroupFor:     rateLimitGroup,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", health(deps.DB))
	if deps.ParseHandler != nil {
		deps.ParseHandler.RegisterPublicRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterPublicRoutes(api)
	}

	scoped := api.Group("")
	scoped.Use(middleware.RequireIdentity())
	registerMeRoutes(scoped)
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(scoped)
	}
	if deps.ParseHandler != nil {
		deps.ParseHandler.RegisterRoutes(scoped)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(scoped)
	}
	if deps.RewriteHandler != nil {
		deps.RewriteHandler.RegisterRoutes(scoped)
	}

	return r
}

// rateLimitRules derives per-group buckets from the configured rate. A zero
// rate disables limiting.
func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil
	}
	parseBurst := cfg.RateLimitBurst / 2
	if parseBurst < 1 {
		parseBurst = 1
	}
	return map[string]middleware.RateLimitRule{
		GroupDefault: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		GroupParse:   {Rate: cfg.RateLimitRPS / 2, Burst: parseBurst},
		GroupPolling: {Rate: cfg.RateLimitRPS * 4, Burst: cfg.RateLimitBurst * 2},
	}
}

func rateLimitGroup(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/v1/parse", "/api/v1/parses", "/api/v1/documents/:id/parse", "/api/v1/render", "/api/v1/rewrites", "/api/v1/parses/:id/exports":
		if c.Request.Method == http.MethodPost {
			return GroupParse
		}
	case "/api/v1/exports/:id":
		if c.Request.Method == http.MethodGet {
			return GroupPolling
		}
	}
	return GroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

const healthPingTimeout = 2 * time.Second

func health(database *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true, "database": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := db.Ping(ctx, database, healthPingTimeout); err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "database_unavailable", "database ping failed", nil)
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "database": "ok"})
	}
}
