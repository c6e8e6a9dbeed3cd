package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
)

// RepositoryInterface is the persistence contract the pipeline orchestrator
// depends on, so tests can substitute an in-memory fake.
type RepositoryInterface interface {
	SaveRules(ctx context.Context, runID string, rules []rulegenerator.Rule) error
	SaveRecommendations(ctx context.Context, runID string, recs []recommendation.Recommendation) error
	RulesForRun(ctx context.Context, runID string) ([]rulegenerator.Rule, error)
	RecommendationsForRun(ctx context.Context, runID string) ([]recommendation.Recommendation, error)
	PurgePriorRunRules(ctx context.Context, keepRunID string) error
	Objectives(ctx context.Context) ([]ObjectiveDocument, error)
	UpsertObjectives(ctx context.Context, objectives []ObjectiveDocument) error
}

// Repository persists rules and recommendations as JSONB documents keyed
// by pipeline_run_id, following the repository's pgxpool + JSON-column idiom.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a Repository over an existing pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// SaveRules upserts one pipeline run's generated and fallback rules.
func (r *Repository) SaveRules(ctx context.Context, runID string, rules []rulegenerator.Rule) error {
	const query = `
		INSERT INTO pricing_rules (
			rule_id, pipeline_run_id, category, source, condition,
			multiplier, affects_objectives, sample_coverage_pct,
			estimated_impact_pct, description, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now()
		)
		ON CONFLICT (rule_id, pipeline_run_id) DO UPDATE SET
			category = EXCLUDED.category,
			source = EXCLUDED.source,
			condition = EXCLUDED.condition,
			multiplier = EXCLUDED.multiplier,
			affects_objectives = EXCLUDED.affects_objectives,
			sample_coverage_pct = EXCLUDED.sample_coverage_pct,
			estimated_impact_pct = EXCLUDED.estimated_impact_pct,
			description = EXCLUDED.description
	`

	batch := &pgxBatch{}
	for _, rule := range rules {
		condition, err := json.Marshal(rule.Condition)
		if err != nil {
			return fmt.Errorf("marshal rule condition: %w", err)
		}
		objectives, err := json.Marshal(rule.AffectsObjectives)
		if err != nil {
			return fmt.Errorf("marshal rule objectives: %w", err)
		}
		batch.queue(query, rule.RuleID, runID, string(rule.Category), string(rule.Source),
			condition, rule.Multiplier, objectives, rule.SampleCoveragePct,
			rule.EstimatedImpactPct, rule.Description)
	}
	return batch.send(ctx, r.db)
}

// SaveRecommendations upserts one pipeline run's three recommendations,
// each carrying its full per-segment impact table as a JSONB document.
func (r *Repository) SaveRecommendations(ctx context.Context, runID string, recs []recommendation.Recommendation) error {
	const query = `
		INSERT INTO pricing_recommendations (
			rec_id, pipeline_run_id, rule_ids, objectives_met,
			combined_revenue_pct, score, per_segment_impacts, diagnostics, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, now()
		)
		ON CONFLICT (rec_id, pipeline_run_id) DO UPDATE SET
			rule_ids = EXCLUDED.rule_ids,
			objectives_met = EXCLUDED.objectives_met,
			combined_revenue_pct = EXCLUDED.combined_revenue_pct,
			score = EXCLUDED.score,
			per_segment_impacts = EXCLUDED.per_segment_impacts,
			diagnostics = EXCLUDED.diagnostics
	`

	batch := &pgxBatch{}
	for _, rec := range recs {
		ruleIDs, err := json.Marshal(rec.RuleIDs)
		if err != nil {
			return fmt.Errorf("marshal recommendation rule ids: %w", err)
		}
		objectives, err := json.Marshal(rec.ObjectivesMet)
		if err != nil {
			return fmt.Errorf("marshal recommendation objectives: %w", err)
		}
		impacts, err := json.Marshal(rec.PerSegmentImpacts)
		if err != nil {
			return fmt.Errorf("marshal recommendation impacts: %w", err)
		}
		diagnostics, err := json.Marshal(rec.Diagnostics)
		if err != nil {
			return fmt.Errorf("marshal recommendation diagnostics: %w", err)
		}
		batch.queue(query, rec.RecID, runID, ruleIDs, objectives,
			rec.CombinedRevenuePct, rec.Score, impacts, diagnostics)
	}
	return batch.send(ctx, r.db)
}

// RulesForRun loads every rule persisted for a run.
func (r *Repository) RulesForRun(ctx context.Context, runID string) ([]rulegenerator.Rule, error) {
	const query = `
		SELECT rule_id, category, source, condition, multiplier,
		       affects_objectives, sample_coverage_pct, estimated_impact_pct, description
		FROM pricing_rules
		WHERE pipeline_run_id = $1
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query rules for run: %w", err)
	}
	defer rows.Close()

	var out []rulegenerator.Rule
	for rows.Next() {
		var rule rulegenerator.Rule
		var category, source string
		var condition, objectives []byte
		if err := rows.Scan(&rule.RuleID, &category, &source, &condition, &rule.Multiplier,
			&objectives, &rule.SampleCoveragePct, &rule.EstimatedImpactPct, &rule.Description); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.Category = rulegenerator.Category(category)
		rule.Source = rulegenerator.Source(source)
		if err := json.Unmarshal(condition, &rule.Condition); err != nil {
			return nil, fmt.Errorf("unmarshal rule condition: %w", err)
		}
		if err := json.Unmarshal(objectives, &rule.AffectsObjectives); err != nil {
			return nil, fmt.Errorf("unmarshal rule objectives: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// RecommendationsForRun loads every recommendation persisted for a run.
func (r *Repository) RecommendationsForRun(ctx context.Context, runID string) ([]recommendation.Recommendation, error) {
	const query = `
		SELECT rec_id, rule_ids, objectives_met, combined_revenue_pct,
		       score, per_segment_impacts, diagnostics
		FROM pricing_recommendations
		WHERE pipeline_run_id = $1
		ORDER BY rec_id
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations for run: %w", err)
	}
	defer rows.Close()

	var out []recommendation.Recommendation
	for rows.Next() {
		var rec recommendation.Recommendation
		var ruleIDs, objectives, impacts, diagnostics []byte
		if err := rows.Scan(&rec.RecID, &ruleIDs, &objectives, &rec.CombinedRevenuePct,
			&rec.Score, &impacts, &diagnostics); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		if err := json.Unmarshal(ruleIDs, &rec.RuleIDs); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation rule ids: %w", err)
		}
		if err := json.Unmarshal(objectives, &rec.ObjectivesMet); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation objectives: %w", err)
		}
		if err := json.Unmarshal(impacts, &rec.PerSegmentImpacts); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation impacts: %w", err)
		}
		if err := json.Unmarshal(diagnostics, &rec.Diagnostics); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation diagnostics: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgePriorRunRules deletes generated/fallback rules and recommendations
// from every run except keepRunID. Objective documents are never touched:
// they are standing records, not per-run output.
func (r *Repository) PurgePriorRunRules(ctx context.Context, keepRunID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM pricing_recommendations WHERE pipeline_run_id != $1`, keepRunID); err != nil {
		return fmt.Errorf("purge prior recommendations: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		`DELETE FROM pricing_rules WHERE pipeline_run_id != $1 AND source IN ($2, $3)`,
		keepRunID, string(rulegenerator.SourceGenerated), string(rulegenerator.SourceFallback)); err != nil {
		return fmt.Errorf("purge prior rules: %w", err)
	}
	return nil
}

// Objectives returns the four standing business-objective documents.
// They are fixed in code, not a query result, since they never vary by
// pipeline run — but they still must exist as durable rows for anything
// reading the strategy collection directly, which is what
// UpsertObjectives guarantees.
func (r *Repository) Objectives(ctx context.Context) ([]ObjectiveDocument, error) {
	return StandingObjectives, nil
}

// UpsertObjectives writes the four standing business-objective documents
// into the strategy collection, keyed by objective name so repeated calls
// across pipeline runs converge on the same four rows rather than
// accumulating duplicates.
func (r *Repository) UpsertObjectives(ctx context.Context, objectives []ObjectiveDocument) error {
	const query = `
		INSERT INTO business_objectives (
			objective, display_name, description, updated_at
		) VALUES (
			$1, $2, $3, now()
		)
		ON CONFLICT (objective) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			description = EXCLUDED.description,
			updated_at = now()
	`

	batch := &pgxBatch{}
	for _, obj := range objectives {
		batch.queue(query, string(obj.Objective), obj.DisplayName, obj.Description)
	}
	return batch.send(ctx, r.db)
}

// pgxBatch is a tiny helper around sequential exec calls, grounded on the
// teacher's preference for explicit per-row error wrapping over opaque
// batch failures when write volume per call is small (never more than
// a few dozen rules or three recommendations per run).
type pgxBatch struct {
	stmts []statement
}

type statement struct {
	query string
	args  []any
}

func (b *pgxBatch) queue(query string, args ...any) {
	b.stmts = append(b.stmts, statement{query: query, args: args})
}

func (b *pgxBatch) send(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range b.stmts {
		if _, err := tx.Exec(ctx, s.query, s.args...); err != nil {
			return fmt.Errorf("exec statement: %w", err)
		}
	}
	return tx.Commit(ctx)
}
