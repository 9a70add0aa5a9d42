package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// withMockOpen makes openDB hand out sqlmock pools that expect one ping each.
func withMockOpen(t *testing.T, failFirst bool) *int32 {
	t.Helper()
	var calls int32
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 && failFirst {
			return nil, errors.New("dial refused")
		}
		database, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			return nil, err
		}
		mock.ExpectPing()
		return database, nil
	}
	t.Cleanup(func() { openDB = prev })
	return &calls
}

func resetSingleton(t *testing.T) {
	t.Helper()
	prev := singleton
	singleton = newShared()
	t.Cleanup(func() { singleton = prev })
}

func TestRoleFor(t *testing.T) {
	tests := []struct {
		name   string
		lambda string
		want   Role
	}{
		{name: "worker", want: RoleWorker},
		{name: " Migrate ", want: RoleMigrate},
		{name: "", want: RoleAPI},
		{name: "unknown", want: RoleAPI},
		{name: "worker", lambda: "matchrate-worker", want: RoleLambda},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name+"/"+tt.lambda, func(t *testing.T) {
			t.Setenv("AWS_LAMBDA_FUNCTION_NAME", tt.lambda)
			if got := RoleFor(tt.name); got != tt.want {
				t.Fatalf("RoleFor(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestOptionsForAppliesOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFor(RoleWorker)
	want := Options{MaxOpenConns: 7, MaxIdleConns: 3, ConnMaxLifetime: 20 * time.Minute, ConnMaxIdleTime: 45 * time.Second, PingTimeout: time.Second}
	if opts != want {
		t.Fatalf("got %+v, want %+v", opts, want)
	}
}

func TestOptionsForIgnoresInvalidOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "-3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "")
	t.Setenv("DB_PING_TIMEOUT", "")

	if got := OptionsFor(RoleLambda); got != roleDefaults[RoleLambda] {
		t.Fatalf("expected lambda defaults, got %+v", got)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), "  ", OptionsFor(RoleAPI))
	if !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestConnectAppliesPoolSize(t *testing.T) {
	withMockOpen(t, false)

	database, err := Connect(context.Background(), "postgres://matchrate", Options{MaxOpenConns: 3})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer database.Close()
	if got := database.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("expected MaxOpenConnections=3, got %d", got)
	}
}

func TestPingNilPool(t *testing.T) {
	err := Ping(context.Background(), nil, time.Second)
	if err == nil || !strings.Contains(err.Error(), "no pool") {
		t.Fatalf("expected no pool error, got %v", err)
	}
}

func TestGetSingletonReturnsSamePool(t *testing.T) {
	resetSingleton(t)
	calls := withMockOpen(t, false)

	var wg sync.WaitGroup
	pools := make([]*sql.DB, 8)
	for i := range pools {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			database, err := GetSingleton(context.Background(), "postgres://matchrate", OptionsFor(RoleLambda))
			if err != nil {
				t.Errorf("GetSingleton: %v", err)
				return
			}
			pools[i] = database
		}(i)
	}
	wg.Wait()

	for _, p := range pools[1:] {
		if p != pools[0] {
			t.Fatalf("expected one shared pool")
		}
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("expected one open, got %d", n)
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	resetSingleton(t)
	withMockOpen(t, true)

	if _, err := GetSingleton(context.Background(), "postgres://matchrate", OptionsFor(RoleLambda)); err == nil {
		t.Fatalf("expected first connect to fail")
	}
	database, err := GetSingleton(context.Background(), "postgres://matchrate", OptionsFor(RoleLambda))
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if database == nil {
		t.Fatalf("expected pool after retry")
	}
}

func TestEmbeddedMigrationsOrdered(t *testing.T) {
	names, err := EmbeddedMigrations()
	if err != nil {
		t.Fatalf("EmbeddedMigrations: %v", err)
	}
	want := []string{"00001_documents.sql", "00002_parses.sql", "00003_exports.sql"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
