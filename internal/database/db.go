package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/config"
)

// SQL driver names as registered with database/sql
const (
	SQLDriverPostgres = "postgres"
	SQLDriverSQLite   = "sqlite3"
)

// DB wraps the sql.DB connection with additional functionality
type DB struct {
	*sql.DB
	driver string
	log    zerolog.Logger
}

// New creates a new database connection with connection pooling
func New(cfg *config.StoreConfig, log zerolog.Logger) (*DB, error) {
	var (
		driver string
		dsn    string
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		driver, dsn = SQLDriverPostgres, cfg.PostgresURL
	case config.DriverSQLite:
		driver, dsn = SQLDriverSQLite, cfg.SQLitePath
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", cfg.Driver)
	}

	db, err := Open(driver, dsn, log)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	if driver == SQLDriverPostgres {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	db.log.Info().
		Str("driver", driver).
		Int("max_open_conns", db.Stats().MaxOpenConnections).
		Msg("Database connection established")

	return db, nil
}

// Open connects to dsn with the given database/sql driver and pings it
func Open(driver, dsn string, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps :memory: databases alive
	if driver == SQLDriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		driver: driver,
		log:    log.With().Str("component", "database").Str("driver", driver).Logger(),
	}, nil
}

// Driver returns the database/sql driver name
func (db *DB) Driver() string {
	return db.driver
}

// Rebind rewrites ? placeholders into the driver's bind syntax
func (db *DB) Rebind(query string) string {
	if db.driver != SQLDriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RunMigrations executes all pending migrations using golang-migrate
func (db *DB) RunMigrations(migrationsPath string) error {
	db.log.Info().Str("path", migrationsPath).Msg("Running database migrations")

	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	var driver migratedb.Driver
	switch db.driver {
	case SQLDriverPostgres:
		driver, err = migratepostgres.WithInstance(db.DB, &migratepostgres.Config{})
	case SQLDriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("no migration driver for %q", db.driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+filepath.ToSlash(abs),
		db.driver,
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	db.log.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Migrations completed")

	return nil
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Close releases the connection pool
func (db *DB) Close(ctx context.Context) error {
	return db.DB.Close()
}
