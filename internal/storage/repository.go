package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"myfinance/internal/core"
	applog "myfinance/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the whole state as one JSON document in a
// key-value snapshot table.
type SQLiteRepository struct {
	db  *sql.DB
	key string
}

func NewSQLiteRepository(dbPath, snapshotKey string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, key: snapshotKey}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the snapshot document under the configured key. An absent
// key and an unparseable document both fall back to the default state;
// the parse failure is logged, never propagated.
func (r *SQLiteRepository) Load(ctx context.Context) (core.State, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE key = ?`, r.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
			InfoContext(ctx, "No snapshot stored yet, starting from defaults",
				applog.FieldOperation, applog.OpLoad, applog.FieldSnapshotKey, r.key)
		return core.DefaultState(), nil
	}
	if err != nil {
		return core.State{}, fmt.Errorf("read snapshot: %w", err)
	}

	state, err := core.DecodeDocument(doc)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
			WarnContext(ctx, "Stored snapshot is not valid JSON, starting from defaults",
				applog.FieldOperation, applog.OpLoad, applog.FieldSnapshotKey, r.key,
				applog.FieldError, err.Error())
		return core.DefaultState(), nil
	}
	return state, nil
}

// Save overwrites the snapshot document for the configured key.
func (r *SQLiteRepository) Save(ctx context.Context, s core.State) error {
	doc, err := core.EncodeDocument(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP`,
		r.key, string(doc))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
		DebugContext(ctx, "Snapshot saved",
			applog.FieldOperation, applog.OpSave, applog.FieldSnapshotKey, r.key,
			"bytes", len(doc))
	return nil
}
