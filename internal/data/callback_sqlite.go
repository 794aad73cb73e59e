package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// sqliteCallbackStore persists pending callbacks in SQLite so a settled
// payment can still find its chat destination after a restart. Tokens are
// money once a challenge is issued; the in-memory store would discard them.
type sqliteCallbackStore struct {
	db *sql.DB
}

// NewSQLiteCallbackStore creates a SQLite-backed pending-callback store
func NewSQLiteCallbackStore(dbPath string) (repo.PendingCallbackStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_callbacks (
			token TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			chat_id TEXT NOT NULL,
			lookback_minutes INTEGER NOT NULL DEFAULT 0,
			range_label TEXT NOT NULL DEFAULT '',
			payment_msg_id TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_pending_callbacks_expires_at ON pending_callbacks(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &sqliteCallbackStore{db: db}, nil
}

// Put stores a callback, replacing any live entry with the same token
func (s *sqliteCallbackStore) Put(ctx context.Context, cb *domain.PendingCallback) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO pending_callbacks
			(token, platform, chat_id, lookback_minutes, range_label, payment_msg_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cb.Token,
		string(cb.Platform),
		cb.ChatID,
		cb.Window.LookbackMinutes,
		cb.Window.RangeLabel,
		cb.PaymentMsgID,
		cb.CreatedAt.Unix(),
		cb.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save callback: %w", err)
	}
	return nil
}

// TakeOnce reads and deletes a callback in one transaction so a token can
// never be consumed twice
func (s *sqliteCallbackStore) TakeOnce(ctx context.Context, token string) (*domain.PendingCallback, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT token, platform, chat_id, lookback_minutes, range_label, payment_msg_id, created_at, expires_at
		FROM pending_callbacks
		WHERE token = ?
	`, token)

	var cb domain.PendingCallback
	var platform string
	var createdAt, expiresAt int64
	err = row.Scan(&cb.Token, &platform, &cb.ChatID, &cb.Window.LookbackMinutes,
		&cb.Window.RangeLabel, &cb.PaymentMsgID, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query callback: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_callbacks WHERE token = ?`, token); err != nil {
		return nil, fmt.Errorf("failed to delete callback: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	cb.Platform = domain.Platform(platform)
	cb.CreatedAt = time.Unix(createdAt, 0)
	cb.ExpiresAt = time.Unix(expiresAt, 0)
	return &cb, nil
}

// SweepExpired deletes entries past their deadline
func (s *sqliteCallbackStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM pending_callbacks WHERE expires_at < ?
	`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep callbacks: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqliteCallbackStore) Close() error {
	return s.db.Close()
}
