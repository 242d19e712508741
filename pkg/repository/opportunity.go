package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/devscope/pkg/domain"
)

// OpportunityRepository handles opportunity-run database operations.
// Runs are immutable once created; opportunities version across runs via
// their (id, run_id) key.
type OpportunityRepository struct {
	db *sqlx.DB
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

type dbOpportunity struct {
	ID               string    `db:"id"`
	RunID            int64     `db:"run_id"`
	Title            string    `db:"title"`
	Pain             string    `db:"pain"`
	TargetBuyer      string    `db:"target_buyer"`
	SolutionShape    string    `db:"solution_shape"`
	MarketType       string    `db:"market_type"`
	EffortEstimate   string    `db:"effort_estimate"`
	Monetization     string    `db:"monetization"`
	Moat             string    `db:"moat"`
	Confidence       int       `db:"confidence"`
	CompetitionNotes string    `db:"competition_notes"`
	GeneratedAt      time.Time `db:"generated_at"`
}

type dbEvidence struct {
	OpportunityID string `db:"opportunity_id"`
	RunID         int64  `db:"run_id"`
	Source        string `db:"source"`
	ItemTitle     string `db:"item_title"`
	URL           string `db:"url"`
	Score         int    `db:"score"`
}

// CreateRun stores a run with all its opportunities and evidence in a single
// transaction: either the whole run lands or nothing does. Returns the new
// run id.
func (r *OpportunityRepository) CreateRun(ctx context.Context, opps []domain.Opportunity, itemCount int, digestID *int64) (int64, error) {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	now := time.Now().UTC()
	var runID int64
	err := retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("begin transaction: %w", err)}
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.ExecContext(ctx,
			`INSERT INTO opportunity_runs (digest_id, item_count, opportunity_count, generated_at) VALUES (?, ?, ?, ?)`,
			digestID, itemCount, len(opps), now)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("insert run: %w", err)}
		}
		if runID, err = res.LastInsertId(); err != nil {
			return &criticalError{err: fmt.Errorf("get run id: %w", err)}
		}

		oppQuery := `
			INSERT OR REPLACE INTO opportunities (
				id, run_id, title, pain, target_buyer, solution_shape, market_type,
				effort_estimate, monetization, moat, confidence, competition_notes, generated_at
			) VALUES (
				:id, :run_id, :title, :pain, :target_buyer, :solution_shape, :market_type,
				:effort_estimate, :monetization, :moat, :confidence, :competition_notes, :generated_at
			)
		`
		evQuery := `
			INSERT INTO opportunity_evidence (opportunity_id, run_id, source, item_title, url, score)
			VALUES (:opportunity_id, :run_id, :source, :item_title, :url, :score)
		`
		for i := range opps {
			row := toDBOpportunity(&opps[i], runID, now)
			if _, err := tx.NamedExecContext(ctx, oppQuery, row); err != nil {
				if isLockError(err) {
					return err
				}
				return &criticalError{err: fmt.Errorf("insert opportunity %s: %w", opps[i].ID, err)}
			}
			for _, ev := range opps[i].Evidence {
				evRow := &dbEvidence{
					OpportunityID: opps[i].ID,
					RunID:         runID,
					Source:        ev.Source,
					ItemTitle:     ev.ItemTitle,
					URL:           ev.URL,
					Score:         ev.Score,
				}
				if _, err := tx.NamedExecContext(ctx, evQuery, evRow); err != nil {
					if isLockError(err) {
						return err
					}
					return &criticalError{err: fmt.Errorf("insert evidence for %s: %w", opps[i].ID, err)}
				}
			}
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("commit run: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return runID, nil
}

// GetRun retrieves run metadata by id
func (r *OpportunityRepository) GetRun(ctx context.Context, id int64) (*domain.Run, error) {
	var run struct {
		ID               int64         `db:"id"`
		DigestID         sql.NullInt64 `db:"digest_id"`
		ItemCount        int           `db:"item_count"`
		OpportunityCount int           `db:"opportunity_count"`
		GeneratedAt      time.Time     `db:"generated_at"`
	}
	err := r.db.GetContext(ctx, &run, "SELECT * FROM opportunity_runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}

	res := &domain.Run{ID: run.ID, ItemCount: run.ItemCount, OpportunityCount: run.OpportunityCount, GeneratedAt: run.GeneratedAt}
	if run.DigestID.Valid {
		res.DigestID = &run.DigestID.Int64
	}
	return res, nil
}

// GetOpportunities retrieves opportunities matching the filter, newest and
// most confident first. Returns the matched page plus the total match count
// for pagination.
func (r *OpportunityRepository) GetOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.MinConfidence > 0 {
		where = append(where, "confidence >= ?")
		args = append(args, filter.MinConfidence)
	}
	if filter.TargetBuyer != "" {
		where = append(where, "target_buyer LIKE ?")
		args = append(args, "%"+filter.TargetBuyer+"%")
	}
	if filter.MarketType != "" {
		where = append(where, "market_type LIKE ?")
		args = append(args, "%"+filter.MarketType+"%")
	}
	if !filter.Since.IsZero() {
		where = append(where, "generated_at >= ?")
		args = append(args, filter.Since)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM opportunities WHERE "+cond, args...); err != nil {
		return nil, 0, fmt.Errorf("count opportunities: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT * FROM opportunities WHERE " + cond +
		" ORDER BY run_id DESC, confidence DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	var rows []dbOpportunity
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("get opportunities: %w", err)
	}

	opps, err := r.attachEvidence(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return opps, total, nil
}

// GetByID retrieves the most recent version of an opportunity across runs
func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	var row dbOpportunity
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM opportunities WHERE id = ? ORDER BY run_id DESC LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity %s: %w", id, err)
	}

	opps, err := r.attachEvidence(ctx, []dbOpportunity{row})
	if err != nil {
		return nil, err
	}
	return &opps[0], nil
}

// GetTrends groups opportunity records by id across runs, most data points
// first. Only opportunities seen in minRuns or more runs are included,
// minRuns below 1 means all.
func (r *OpportunityRepository) GetTrends(ctx context.Context, minRuns int) ([]domain.Trend, error) {
	if minRuns < 1 {
		minRuns = 1
	}

	query := `
		SELECT id, run_id, title, confidence, generated_at FROM opportunities
		WHERE id IN (
			SELECT id FROM opportunities GROUP BY id HAVING COUNT(*) >= ?
		)
		ORDER BY id ASC, run_id ASC
	`
	var rows []struct {
		ID          string    `db:"id"`
		RunID       int64     `db:"run_id"`
		Title       string    `db:"title"`
		Confidence  int       `db:"confidence"`
		GeneratedAt time.Time `db:"generated_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, minRuns); err != nil {
		return nil, fmt.Errorf("get trends: %w", err)
	}

	byID := map[string]*domain.Trend{}
	var order []string
	for _, row := range rows {
		trend, ok := byID[row.ID]
		if !ok {
			trend = &domain.Trend{ID: row.ID}
			byID[row.ID] = trend
			order = append(order, row.ID)
		}
		trend.Title = row.Title // last row per id is the latest run
		trend.DataPoints = append(trend.DataPoints, domain.TrendPoint{
			RunID:       row.RunID,
			Confidence:  row.Confidence,
			GeneratedAt: row.GeneratedAt,
		})
	}

	trends := make([]domain.Trend, 0, len(order))
	for _, id := range order {
		trends = append(trends, *byID[id])
	}
	// most observed first, id breaks ties for stable output
	sort.Slice(trends, func(i, j int) bool {
		if len(trends[i].DataPoints) != len(trends[j].DataPoints) {
			return len(trends[i].DataPoints) > len(trends[j].DataPoints)
		}
		return trends[i].ID < trends[j].ID
	})
	return trends, nil
}

// attachEvidence loads evidence rows for each opportunity
func (r *OpportunityRepository) attachEvidence(ctx context.Context, rows []dbOpportunity) ([]domain.Opportunity, error) {
	opps := make([]domain.Opportunity, len(rows))
	for i := range rows {
		var evRows []dbEvidence
		err := r.db.SelectContext(ctx, &evRows,
			"SELECT opportunity_id, run_id, source, item_title, url, score FROM opportunity_evidence WHERE opportunity_id = ? AND run_id = ? ORDER BY id",
			rows[i].ID, rows[i].RunID)
		if err != nil {
			return nil, fmt.Errorf("get evidence for %s: %w", rows[i].ID, err)
		}

		evidence := make([]domain.EvidenceRef, len(evRows))
		for j, ev := range evRows {
			evidence[j] = domain.EvidenceRef{Source: ev.Source, ItemTitle: ev.ItemTitle, URL: ev.URL, Score: ev.Score}
		}
		opps[i] = toDomainOpportunity(&rows[i], evidence)
	}
	return opps, nil
}

func toDBOpportunity(opp *domain.Opportunity, runID int64, generatedAt time.Time) *dbOpportunity {
	return &dbOpportunity{
		ID:               opp.ID,
		RunID:            runID,
		Title:            opp.Title,
		Pain:             opp.Pain,
		TargetBuyer:      opp.TargetBuyer,
		SolutionShape:    opp.SolutionShape,
		MarketType:       opp.MarketType,
		EffortEstimate:   opp.EffortEstimate,
		Monetization:     opp.Monetization,
		Moat:             opp.Moat,
		Confidence:       opp.Confidence,
		CompetitionNotes: opp.CompetitionNotes,
		GeneratedAt:      generatedAt,
	}
}

func toDomainOpportunity(row *dbOpportunity, evidence []domain.EvidenceRef) domain.Opportunity {
	return domain.Opportunity{
		ID:               row.ID,
		RunID:            row.RunID,
		Title:            row.Title,
		Pain:             row.Pain,
		TargetBuyer:      row.TargetBuyer,
		SolutionShape:    row.SolutionShape,
		MarketType:       row.MarketType,
		EffortEstimate:   row.EffortEstimate,
		Monetization:     row.Monetization,
		Moat:             row.Moat,
		Confidence:       row.Confidence,
		CompetitionNotes: row.CompetitionNotes,
		GeneratedAt:      row.GeneratedAt,
		Evidence:         evidence,
	}
}
