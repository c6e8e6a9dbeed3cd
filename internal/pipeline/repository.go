package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists RunRecords as a JSONB document per run,
// following the repository's usual pgxpool query idiom.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a PostgresRepository over an existing pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ RunRepository = (*PostgresRepository)(nil)

// Save upserts a RunRecord by run_id. A run is written exactly once on
// completion; re-saving the same run_id (should it ever happen) replaces
// the prior document rather than duplicating it.
func (p *PostgresRepository) Save(ctx context.Context, run RunRecord) error {
	doc, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	const query = `
		INSERT INTO pipeline_run_records (run_id, status, started_at, completed_at, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			document = EXCLUDED.document
	`
	_, err = p.db.Exec(ctx, query, run.RunID, string(run.Status), run.StartedAt, run.CompletedAt, doc)
	if err != nil {
		return fmt.Errorf("save run record: %w", err)
	}
	return nil
}

// LastRun returns the most recently completed RunRecord, ordered by
// completed_at descending
func (p *PostgresRepository) LastRun(ctx context.Context) (*RunRecord, error) {
	const query = `
		SELECT document FROM pipeline_run_records
		ORDER BY completed_at DESC
		LIMIT 1
	`
	var doc []byte
	err := p.db.QueryRow(ctx, query).Scan(&doc)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}

	var run RunRecord
	if err := json.Unmarshal(doc, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run record: %w", err)
	}
	return &run, nil
}

// History returns a page of RunRecords ordered by completed_at
// descending.
func (p *PostgresRepository) History(ctx context.Context, limit, offset int) ([]RunRecord, error) {
	const query = `
		SELECT document FROM pipeline_run_records
		ORDER BY completed_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := p.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		var run RunRecord
		if err := json.Unmarshal(doc, &run); err != nil {
			return nil, fmt.Errorf("unmarshal run record: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
