// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	//go:embed schema/*.sql
	embeddedSchema embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// Supported database types.
const (
	TypeSqlite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
)

// Options selects the backend and its connection string. For sqlite the
// DSN is a file path, ":memory:" or a "file:...?mode=memory" URI.
type Options struct {
	Type string
	DSN  string
}

func (o Options) normalized() Options {
	if o.Type == "" {
		o.Type = TypeSqlite
	}
	return o
}

// driverName maps a database type to its registered database/sql driver.
func driverName(dbType string) (string, error) {
	switch dbType {
	case TypeSqlite:
		return "sqlite", nil
	case TypePostgres:
		// The pgx stdlib registers driver name "pgx".
		return "pgx", nil
	case TypeMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("%w: database type %q", ErrUnsupported, dbType)
	}
}

// Open connects to an existing store. When the store does not exist and
// allowCreate is false, Open returns ErrNotFound without touching the
// filesystem. When allowCreate is true a missing store is created with an
// empty passwords table. An existing store whose table lacks the expected
// columns, or repeats a nickname, yields ErrSchema.
func Open(ctx context.Context, opts Options, allowCreate bool) (*BunStore, error) {
	opts = opts.normalized()
	if _, err := driverName(opts.Type); err != nil {
		return nil, err
	}

	memory := false
	if opts.Type == TypeSqlite {
		var p string
		p, memory = sqliteLocation(opts.DSN)
		if !memory {
			if _, err := os.Stat(p); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("failed to stat database file %s: %w", p, err)
				}
				if !allowCreate {
					return nil, fmt.Errorf("database file %s: %w", p, ErrNotFound)
				}
				return Create(ctx, opts)
			}
		}
	}

	s, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	exists, err := s.tableExists(ctx)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if !exists {
		switch {
		case memory || (opts.Type != TypeSqlite && allowCreate):
			if err := s.resetSchema(ctx); err != nil {
				_ = s.Close()
				return nil, err
			}
			return s, nil
		case opts.Type == TypeSqlite:
			// The file is there but it is not one of ours.
			_ = s.Close()
			return nil, fmt.Errorf("%w: table passwords is missing", ErrSchema)
		default:
			_ = s.Close()
			return nil, fmt.Errorf("table passwords: %w", ErrNotFound)
		}
	}
	if err := s.verifySchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.ensureUniqueNickname(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Create produces a fresh store with an empty passwords table. Any existing
// table and its contents are dropped first. For sqlite files the parent
// directory is created with owner-only permissions.
func Create(ctx context.Context, opts Options) (*BunStore, error) {
	opts = opts.normalized()
	if opts.Type == TypeSqlite {
		if p, memory := sqliteLocation(opts.DSN); !memory {
			if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	s, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := s.resetSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	dbLogf("created fresh %s store", opts.Type)
	return s, nil
}

// connect opens the driver and wraps it in a Bun DB. The connection itself is
// verified with a ping so that later probe failures can be attributed to the
// schema rather than to the transport.
func connect(ctx context.Context, opts Options) (*BunStore, error) {
	driver, err := driverName(opts.Type)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.Type == TypeSqlite {
		// A single connection keeps in-memory databases visible across calls
		// and serializes writers on file databases.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", MapDBError(err))
	}
	dbLogf("opened %s driver in %s", driver, time.Since(start))
	return &BunStore{bun: createBunDB(sqlDB, opts.Type), dbType: opts.Type}, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case TypePostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case TypeMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// resetSchema drops and recreates the passwords table from the embedded
// script for the store's dialect.
func (s *BunStore) resetSchema(ctx context.Context) error {
	script, err := embeddedSchema.ReadFile(path.Join("schema", s.dbType+".sql"))
	if err != nil {
		return fmt.Errorf("no schema for %s: %w", s.dbType, err)
	}
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range splitStatements(string(script)) {
			if _, err := ExecRaw(ctx, tx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

func (s *BunStore) tableExists(ctx context.Context) (bool, error) {
	if _, err := ExecRaw(ctx, s.bun, "SELECT 1 FROM passwords WHERE 1 = 0"); err != nil {
		dbLogf("passwords table probe failed: %v", err)
		return false, nil
	}
	return true, nil
}

// verifySchema checks that every column the store reads and writes is there.
func (s *BunStore) verifySchema(ctx context.Context) error {
	const probe = "SELECT nickname, username, hostname, special_char, base, iteration, hint, start, finish FROM passwords WHERE 1 = 0"
	if _, err := ExecRaw(ctx, s.bun, probe); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// ensureUniqueNickname puts a unique index on nickname. Files written by the
// first releases declare no constraint on the column, so without the index
// a second Create under the same nickname would succeed. A table that
// already repeats a nickname yields ErrSchema. MySQL tables only ever come
// from the embedded schema, where nickname is the primary key.
func (s *BunStore) ensureUniqueNickname(ctx context.Context) error {
	if s.dbType == TypeMySQL {
		return nil
	}
	const stmt = "CREATE UNIQUE INDEX IF NOT EXISTS passwords_nickname_key ON passwords (nickname)"
	if _, err := ExecRaw(ctx, s.bun, stmt); err != nil {
		if errors.Is(MapDBError(err), ErrDuplicate) {
			return fmt.Errorf("%w: nicknames are not unique: %v", ErrSchema, err)
		}
		return fmt.Errorf("failed to index nicknames: %w", err)
	}
	return nil
}

// MaintenanceOptions tunes RunDBMaintenance.
type MaintenanceOptions struct {
	SkipIntegrity bool
	Timeout       time.Duration
}

// RunDBMaintenance performs engine-specific maintenance tasks for the given
// database. For SQLite this will run PRAGMA optimize, VACUUM and WAL
// checkpoint followed by an integrity check. For Postgres it runs VACUUM
// ANALYZE. For MySQL it runs OPTIMIZE TABLE for every table.
func RunDBMaintenance(ctx context.Context, opts Options, mopts MaintenanceOptions) error {
	opts = opts.normalized()
	driver, err := driverName(opts.Type)
	if err != nil {
		return err
	}
	sqlDB, err := sqlOpenFunc(driver, opts.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database for maintenance: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	timeout := mopts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch opts.Type {
	case TypeSqlite:
		// PRAGMA optimize is advisory; failures are logged only.
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			dbLogf("sqlite optimize failed (ignored): %v", err)
		}
		if _, err := sqlDB.ExecContext(ctx, "VACUUM;"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = sqlDB.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
		if mopts.SkipIntegrity {
			return nil
		}
		var res string
		if err := sqlDB.QueryRowContext(ctx, "PRAGMA integrity_check;").Scan(&res); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case TypePostgres:
		if _, err := sqlDB.ExecContext(ctx, "VACUUM ANALYZE;"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case TypeMySQL:
		rows, err := sqlDB.QueryContext(ctx, "SHOW TABLES")
		if err != nil {
			return fmt.Errorf("mysql show tables failed: %w", err)
		}
		defer func() { _ = rows.Close() }()
		var table string
		var lastErr error
		for rows.Next() {
			if err := rows.Scan(&table); err != nil {
				return fmt.Errorf("mysql read table name failed: %w", err)
			}
			if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("OPTIMIZE TABLE %s", table)); err != nil {
				dbLogf("mysql optimize table %s failed: %v", table, err)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
		}
	}
	return nil
}
