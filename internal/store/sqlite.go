package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		expires_at INTEGER,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// SQLite stores values in a single table. Expiry is checked on read.
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

type kvRow struct {
	Value     []byte        `db:"value"`
	ExpiresAt sql.NullInt64 `db:"expires_at"`
}

// OpenSQLite opens or creates the database at path. ":memory:" keeps it in
// process.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = filepath.Join("data", "perioflow.db")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create data directory")
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create kv table")
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var row kvRow
	err := s.db.GetContext(ctx, &row, `SELECT value, expires_at FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	if row.ExpiresAt.Valid && s.now().UnixNano() >= row.ExpiresAt.Int64 {
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return row.Value, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: s.now().Add(ttl).UnixNano(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, expires)
	if err != nil {
		return errors.Wrapf(err, "put %s", key)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
