package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/devscope/pkg/domain"
)

// ItemRepository handles collected-item database operations
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// dbItem is the sqlx row shape for the items table
type dbItem struct {
	Fingerprint string    `db:"fingerprint"`
	Source      string    `db:"source"`
	SourceID    string    `db:"source_id"`
	URL         string    `db:"url"`
	Title       string    `db:"title"`
	Body        string    `db:"body"`
	Metadata    string    `db:"metadata"`
	Score       int       `db:"score"`
	CollectedAt time.Time `db:"collected_at"`
}

// InsertItems stores a batch of scored items in one transaction. Items
// already present (same fingerprint) are ignored, so re-collection is safe.
// Returns the number of newly inserted rows.
func (r *ItemRepository) InsertItems(ctx context.Context, items []domain.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	inserted := 0
	err := retrier.Do(ctx, func() error {
		inserted = 0
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("begin transaction: %w", err)}
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		query := `
			INSERT OR IGNORE INTO items (
				fingerprint, source, source_id, url, title, body, metadata, score, collected_at
			) VALUES (
				:fingerprint, :source, :source_id, :url, :title, :body, :metadata, :score, :collected_at
			)
		`
		for i := range items {
			row, err := toDBItem(&items[i])
			if err != nil {
				return &criticalError{err: err}
			}
			res, err := tx.NamedExecContext(ctx, query, row)
			if err != nil {
				if isLockError(err) {
					return err // retry
				}
				return &criticalError{err: fmt.Errorf("insert item %s: %w", items[i].Fingerprint(), err)}
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("commit items: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert items: %w", err)
	}
	return inserted, nil
}

// ItemsSince retrieves items collected after since with at least minScore,
// highest score first.
func (r *ItemRepository) ItemsSince(ctx context.Context, since time.Time, minScore int) ([]domain.Item, error) {
	query := `
		SELECT * FROM items
		WHERE collected_at >= ? AND score >= ?
		ORDER BY score DESC, collected_at DESC
	`
	var rows []dbItem
	if err := r.db.SelectContext(ctx, &rows, query, since, minScore); err != nil {
		return nil, fmt.Errorf("get items since %s: %w", since.Format(time.RFC3339), err)
	}

	items := make([]domain.Item, len(rows))
	for i := range rows {
		item, err := toDomainItem(&rows[i])
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// Stats returns total and per-source item counts
func (r *ItemRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{BySource: map[string]int64{}}

	if err := r.db.GetContext(ctx, &stats.TotalItems, "SELECT COUNT(*) FROM items"); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM items GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("count items by source: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		stats.BySource[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source counts: %w", err)
	}
	return stats, nil
}

func toDBItem(item *domain.Item) (*dbItem, error) {
	meta := "{}"
	if len(item.Metadata) > 0 {
		b, err := json.Marshal(item.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata for %s: %w", item.Fingerprint(), err)
		}
		meta = string(b)
	}

	collectedAt := item.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}

	return &dbItem{
		Fingerprint: item.Fingerprint(),
		Source:      string(item.Source),
		SourceID:    item.SourceID,
		URL:         item.URL,
		Title:       item.Title,
		Body:        item.Body,
		Metadata:    meta,
		Score:       item.Score,
		CollectedAt: collectedAt,
	}, nil
}

func toDomainItem(row *dbItem) (domain.Item, error) {
	item := domain.Item{
		Source:      domain.Source(row.Source),
		SourceID:    row.SourceID,
		URL:         row.URL,
		Title:       row.Title,
		Body:        row.Body,
		Score:       row.Score,
		CollectedAt: row.CollectedAt,
	}
	if row.Metadata != "" && row.Metadata != "{}" {
		if err := json.Unmarshal([]byte(row.Metadata), &item.Metadata); err != nil {
			return domain.Item{}, fmt.Errorf("unmarshal metadata for %s: %w", row.Fingerprint, err)
		}
	}
	return item, nil
}
