package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
)

// StateRepository persists per-collector incremental cursors. Each collector
// owns its state blob, the repository only stores and returns JSON.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository creates a new collector-state repository
func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get loads a collector's state into out. Missing state leaves out untouched
// and returns no error, collectors treat that as a cold start.
func (r *StateRepository) Get(ctx context.Context, collector string, out any) error {
	var raw string
	err := r.db.GetContext(ctx, &raw, "SELECT state FROM collector_state WHERE collector = ?", collector)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get state for %s: %w", collector, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal state for %s: %w", collector, err)
	}
	return nil
}

// Set stores a collector's state, replacing any previous value
func (r *StateRepository) Set(ctx context.Context, collector string, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", collector, err)
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO collector_state (collector, state, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT(collector) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
		`
		if _, err := r.db.ExecContext(ctx, query, collector, string(raw)); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("set state for %s: %w", collector, err)}
		}
		return nil
	})
}
