package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/emsvc/employee-service/pkg/database"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/jmoiron/sqlx"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite starts (or reuses) the shared container and applies the
// employee schema. Call this in TestMain.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    suite, err = testutil.NewIntegrationSuite(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    code := m.Run()
//	    testutil.TerminateContainer(ctx)
//	    os.Exit(code)
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.ApplySchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// Reset empties all employee tables and restarts their sequences. Tests call
// it first so each one starts from a clean store.
func (s *IntegrationSuite) Reset(t *testing.T, ctx context.Context) {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `TRUNCATE employees, passports, departments RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to reset employee tables: %v", err)
	}
}

// Count returns the number of rows in one of the employee tables
func (s *IntegrationSuite) Count(t *testing.T, ctx context.Context, table string) int {
	t.Helper()

	var query string
	switch table {
	case "employees":
		query = `SELECT COUNT(*) FROM employees`
	case "passports":
		query = `SELECT COUNT(*) FROM passports`
	case "departments":
		query = `SELECT COUNT(*) FROM departments`
	default:
		t.Fatalf("unknown table %q", table)
	}

	var n int
	if err := s.RawDB.GetContext(ctx, &n, query); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// Cleanup closes the suite's own connection. The shared container stays up.
func (s *IntegrationSuite) Cleanup(ctx context.Context) error {
	return s.DB.Close()
}

// TerminateContainer terminates the shared container.
// Only call this in TestMain after all tests have completed.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}
