package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/documents"
	"matchrate-backend/internal/exports"
	"matchrate-backend/internal/llm"
	openai "matchrate-backend/internal/llm/openai"
	"matchrate-backend/internal/parses"
	"matchrate-backend/internal/queue"
	"matchrate-backend/internal/rewrites"
	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/server"
	"matchrate-backend/internal/shared/storage/db"
	"matchrate-backend/internal/shared/storage/object"
	localstore "matchrate-backend/internal/shared/storage/object/local"
	s3store "matchrate-backend/internal/shared/storage/object/s3"
	"matchrate-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DocumentsService *documents.Service
	ParsesService    *parses.Service
	ExportsService   *exports.Service
	RewritesService  *rewrites.Service
	DocumentsHandler *documents.Handler
	ParsesHandler    *parses.Handler
	ExportsHandler   *exports.Handler
	RewritesHandler  *rewrites.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		ParseHandler:    app.ParsesHandler,
		ExportHandler:   app.ExportsHandler,
		RewriteHandler:  app.RewritesHandler,
		DB:              app.DB,
	})

	return app, nil
}

// Close releases the queue connection, if any.
func (a *App) Close() error {
	if closer, ok := a.Queue.(queue.Closer); ok {
		return closer.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	role := db.RoleFor(cfg.DBRole)
	opts := db.OptionsFor(role)
	if role == db.RoleLambda {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err == nil && role != db.RoleLambda {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.memory_repos", map[string]any{
				"reason": "database unavailable",
				"error":  err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueBackend {
	case "sqs":
		return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
	case "amqp":
		return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return nil, nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return llm.WithRetry(client), nil
	case "":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var parseRepo parses.Repo
	var exportRepo exports.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		parseRepo = &parses.PGRepo{DB: app.DB}
		exportRepo = &exports.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		parseRepo = parses.NewMemoryRepo()
		exportRepo = exports.NewMemoryRepo()
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}
	parseSvc := &parses.Service{Repo: parseRepo, Docs: docSvc}
	exportSvc := &exports.Service{
		Repo:   exportRepo,
		Parses: parseSvc,
		Store:  app.Store,
		Queue:  app.Queue,
	}
	rewriteSvc := &rewrites.Service{LLM: llmClient, Parses: parseSvc}

	app.DocumentsService = docSvc
	app.ParsesService = parseSvc
	app.ExportsService = exportSvc
	app.RewritesService = rewriteSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ParsesHandler = parses.NewHandler(parseSvc)
	app.ExportsHandler = exports.NewHandler(exportSvc)
	app.RewritesHandler = rewrites.NewHandler(rewriteSvc)

	if app.DocumentsHandler == nil || app.ParsesHandler == nil || app.ExportsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
