package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const dbFileName = "cache.db"

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps translations in a single database file under a cache
// directory. Once the stored bytes exceed the size limit the oldest entries
// are removed first. The running total lives in cache_meta and is kept
// current by triggers on translations.
type SQLiteStore struct {
	l *zap.Logger

	db        *sql.DB
	sizeLimit int64
}

func NewSQLiteStore(dir string, sizeLimit int64, l *zap.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := "file:" + filepath.Join(dir, dbFileName) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// A single writer keeps size accounting and eviction consistent
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	l.Info("translation cache opened", zap.String("path", dir), zap.Int64("size_limit", sizeLimit))

	return &SQLiteStore{
		l:         l,
		db:        db,
		sizeLimit: sizeLimit,
	}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM translations WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, entry Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO translations (key, value, provider, size, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			provider = excluded.provider,
			size = excluded.size,
			created_at = excluded.created_at`,
		entry.Key, entry.Value, entry.Provider, entrySize(entry), entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", entry.Key, err)
	}

	evicted, err := s.evict(ctx, tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if evicted > 0 {
		s.l.Debug("evicted translations over size limit", zap.Int("count", evicted))
	}

	return nil
}

// evict removes the oldest entries until the total size fits the limit.
func (s *SQLiteStore) evict(ctx context.Context, tx *sql.Tx) (int, error) {
	total, err := sizeOf(ctx, tx)
	if err != nil {
		return 0, err
	}
	if total <= s.sizeLimit {
		return 0, nil
	}

	rows, err := tx.QueryContext(ctx, `SELECT key, size FROM translations ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return 0, fmt.Errorf("failed to list entries for eviction: %w", err)
	}

	var keys []string
	for rows.Next() && total > s.sizeLimit {
		var (
			key  string
			size int64
		)
		if err := rows.Scan(&key, &size); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan entry for eviction: %w", err)
		}
		keys = append(keys, key)
		total -= size
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate entries for eviction: %w", err)
	}
	rows.Close()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM translations WHERE key = ?`, key); err != nil {
			return 0, fmt.Errorf("failed to evict key %s: %w", key, err)
		}
	}

	return len(keys), nil
}

// Size returns the total bytes currently stored.
func (s *SQLiteStore) Size(ctx context.Context) (int64, error) {
	return sizeOf(ctx, s.db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sizeOf(ctx context.Context, q queryRower) (int64, error) {
	var total int64
	if err := q.QueryRowContext(ctx, `SELECT size FROM cache_meta WHERE id = 1`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute cache size: %w", err)
	}
	return total, nil
}

func entrySize(entry Entry) int64 {
	return int64(len(entry.Key) + len(entry.Value))
}
