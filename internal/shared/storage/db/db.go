package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"matchrate-backend/internal/shared/telemetry"
)

// ErrNoDatabaseURL is returned by Connect when no DSN is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

// Role names the kind of process opening the pool. Each role gets its own
// pool sizing.
type Role string

const (
	RoleAPI     Role = "api"
	RoleLambda  Role = "lambda"
	RoleWorker  Role = "worker"
	RoleMigrate Role = "migrate"
)

// Options controls pool sizing and the connect-time ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var roleDefaults = map[Role]Options{
	RoleAPI:     {MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
	RoleLambda:  {MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second},
	RoleWorker:  {MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxIdleTime: time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
	RoleMigrate: {MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
}

var openDB = sql.Open

// IsLambdaRuntime reports whether the current process is running in AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// RoleFor maps a process name to a pool role. Inside Lambda it is always
// RoleLambda.
func RoleFor(name string) Role {
	if IsLambdaRuntime() {
		return RoleLambda
	}
	role := Role(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := roleDefaults[role]; ok {
		return role
	}
	return RoleAPI
}

// OptionsFor returns the defaults for role with DB_* environment overrides
// applied.
func OptionsFor(role Role) Options {
	opts, ok := roleDefaults[role]
	if !ok {
		opts = roleDefaults[RoleAPI]
	}
	if v, ok := readEnvInt("DB_MAX_OPEN_CONNS"); ok {
		opts.MaxOpenConns = v
	}
	if v, ok := readEnvInt("DB_MAX_IDLE_CONNS"); ok {
		opts.MaxIdleConns = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_IDLE_TIME"); ok {
		opts.ConnMaxIdleTime = v
	}
	if v, ok := readEnvDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// Connect opens a Postgres pool through pgx and pings it.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}

	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(database, opts)

	if err := Ping(ctx, database, opts.PingTimeout); err != nil {
		database.Close()
		return nil, err
	}

	logPoolStats(database, "db.init")
	return database, nil
}

// Ping checks connectivity within timeout. A zero timeout means five seconds.
func Ping(ctx context.Context, database *sql.DB, timeout time.Duration) error {
	if database == nil {
		return errors.New("ping database: no pool")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// shared holds the process-wide pool. Concurrent callers wait for the one
// in-flight connect; a failed connect leaves the slot empty for the next call.
type shared struct {
	mu         sync.Mutex
	cond       *sync.Cond
	db         *sql.DB
	connecting bool
}

func newShared() *shared {
	s := &shared{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

var singleton = newShared()

func (s *shared) get(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	s.mu.Lock()
	for s.connecting && s.db == nil {
		s.cond.Wait()
	}
	if s.db != nil {
		database := s.db
		s.mu.Unlock()
		telemetry.Info("db.singleton.reuse", nil)
		return database, nil
	}
	s.connecting = true
	s.mu.Unlock()

	database, err := Connect(ctx, databaseURL, opts)

	s.mu.Lock()
	if err == nil {
		s.db = database
	}
	s.connecting = false
	s.cond.Broadcast()
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	telemetry.Info("db.singleton.init", nil)
	return database, nil
}

// GetSingleton returns the process-wide pool, connecting on first use. Lambda
// handlers call it so warm invocations reuse one pool.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	return singleton.get(ctx, databaseURL, opts)
}

func applyOptions(database *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = roleDefaults[RoleAPI].MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = roleDefaults[RoleAPI].MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	database.SetMaxOpenConns(opts.MaxOpenConns)
	database.SetMaxIdleConns(opts.MaxIdleConns)
	database.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		database.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func logPoolStats(database *sql.DB, label string) {
	stats := database.Stats()
	telemetry.Info(label, map[string]any{
		"open":     stats.OpenConnections,
		"in_use":   stats.InUse,
		"idle":     stats.Idle,
		"wait":     stats.WaitCount,
		"max_open": stats.MaxOpenConnections,
	})
}

func readEnvInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		telemetry.Error("db.env.invalid", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return val, true
}

func readEnvDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
		telemetry.Error("db.env.invalid", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return val, true
}
