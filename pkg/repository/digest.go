package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/devscope/pkg/domain"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// DigestRepository handles digest database operations
type DigestRepository struct {
	db *sqlx.DB
}

// NewDigestRepository creates a new digest repository
func NewDigestRepository(db *sqlx.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

type dbDigest struct {
	ID          int64     `db:"id"`
	Type        string    `db:"type"`
	Content     string    `db:"content"`
	ItemCount   int       `db:"item_count"`
	GeneratedAt time.Time `db:"generated_at"`
}

// SaveDigest stores a digest and returns its id
func (r *DigestRepository) SaveDigest(ctx context.Context, digest *domain.Digest) (int64, error) {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var id int64
	err := retrier.Do(ctx, func() error {
		query := `INSERT INTO digests (type, content, item_count, generated_at) VALUES (?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, query, string(digest.Type), digest.Content, digest.ItemCount, digest.GeneratedAt)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("insert digest: %w", err)}
		}
		if id, err = res.LastInsertId(); err != nil {
			return &criticalError{err: fmt.Errorf("get digest id: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save digest: %w", err)
	}
	return id, nil
}

// GetDigest retrieves a digest by id
func (r *DigestRepository) GetDigest(ctx context.Context, id int64) (*domain.Digest, error) {
	var row dbDigest
	err := r.db.GetContext(ctx, &row, "SELECT * FROM digests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get digest %d: %w", id, err)
	}
	return toDomainDigest(&row), nil
}

// ListDigests retrieves recent digests, newest first, optionally filtered by
// type. Empty dtype means all types.
func (r *DigestRepository) ListDigests(ctx context.Context, dtype domain.DigestType, limit int) ([]domain.Digest, error) {
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT * FROM digests"
	args := []any{}
	if dtype != "" {
		query += " WHERE type = ?"
		args = append(args, string(dtype))
	}
	query += " ORDER BY generated_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	var rows []dbDigest
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list digests: %w", err)
	}

	digests := make([]domain.Digest, len(rows))
	for i := range rows {
		digests[i] = *toDomainDigest(&rows[i])
	}
	return digests, nil
}

func toDomainDigest(row *dbDigest) *domain.Digest {
	return &domain.Digest{
		ID:          row.ID,
		Type:        domain.DigestType(row.Type),
		Content:     row.Content,
		ItemCount:   row.ItemCount,
		GeneratedAt: row.GeneratedAt,
	}
}
