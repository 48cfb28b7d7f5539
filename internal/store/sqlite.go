package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const kvTable = "kv_entries"

// SQLite is a KV persisted in a single SQLite table.
type SQLite struct {
	db    *sql.DB
	drv   *entsql.Driver
	quota int64
}

// OpenSQLite opens (or creates) the database at dsn and ensures the KV table
// exists. A positive quota caps the total stored bytes.
func OpenSQLite(ctx context.Context, dsn string, quota int64) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)

	// The schema is one table, so it is created directly rather than through
	// a generated migration.
	err = drv.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+kvTable+` (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`, []any{}, nil)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLite{db: db, drv: drv, quota: quota}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.drv.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("name", key)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("get %q: %w", key, err)
		}
		return nil, false, nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, false, fmt.Errorf("scan %q: %w", key, err)
	}
	return data, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if s.quota > 0 {
		used, err := s.usedExcept(ctx, key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > s.quota {
			return ErrCapacityExceeded
		}
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("name", "data", "updated_at").
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ("name", key)).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// usedExcept sums the stored bytes of every entry other than key.
func (s *SQLite) usedExcept(ctx context.Context, key string) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		SelectExpr(entsql.Expr("COALESCE(SUM(LENGTH(data)), 0)")).
		From(entsql.Table(kvTable)).
		Where(entsql.NEQ("name", key)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("measure usage: %w", err)
	}
	defer rows.Close()

	used, err := entsql.ScanInt64(rows)
	if err != nil {
		return 0, fmt.Errorf("measure usage: %w", err)
	}
	return used, nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZGENIUS_DB environment variable
// 2. $XDG_DATA_HOME/quizgenius/quizgenius.db
// 3. ~/.local/share/quizgenius/quizgenius.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZGENIUS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizgenius", "quizgenius.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
