package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"xbrlgraph/pkg/core/pipeline"
	"xbrlgraph/pkg/core/statements"
)

// RunStore persists the three output shapes of an extraction run: statement
// line items, ratio results, and graph edges, keyed by run id.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore wraps a connection pool. A nil pool yields a disabled store
// whose SaveRun is a logged no-op.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS extraction_runs (
	run_id      TEXT PRIMARY KEY,
	company     TEXT,
	cik         TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS statement_items (
	run_id   TEXT NOT NULL REFERENCES extraction_runs(run_id) ON DELETE CASCADE,
	bucket   TEXT NOT NULL,
	period   TEXT NOT NULL,
	concept  TEXT NOT NULL,
	value    DOUBLE PRECISION NOT NULL,
	unit     TEXT
);
CREATE TABLE IF NOT EXISTS ratio_results (
	run_id    TEXT NOT NULL REFERENCES extraction_runs(run_id) ON DELETE CASCADE,
	name      TEXT NOT NULL,
	period    TEXT NOT NULL,
	value     DOUBLE PRECISION,
	undefined BOOLEAN NOT NULL
);
CREATE TABLE IF NOT EXISTS graph_edges (
	run_id    TEXT NOT NULL REFERENCES extraction_runs(run_id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	subject   TEXT NOT NULL,
	predicate TEXT NOT NULL,
	object    TEXT NOT NULL,
	ord       DOUBLE PRECISION,
	weight    DOUBLE PRECISION
);
`

// EnsureSchema creates the persistence tables if they do not exist.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun writes one extraction result in a single transaction.
func (s *RunStore) SaveRun(ctx context.Context, result *pipeline.Result) error {
	if s.pool == nil {
		log.Debug().Msg("run store disabled; skipping persistence")
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO extraction_runs (run_id, company, cik) VALUES ($1, $2, $3)`,
		result.RunID, result.Company.Name, result.Company.CIK); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for bucket, byPeriod := range result.Statements.Buckets {
		if bucket == statements.BucketUnclassified {
			continue
		}
		for period, items := range byPeriod {
			for _, item := range items {
				if _, err := tx.Exec(ctx,
					`INSERT INTO statement_items (run_id, bucket, period, concept, value, unit)
					 VALUES ($1, $2, $3, $4, $5, $6)`,
					result.RunID, string(bucket), period, item.Concept, item.Value, item.Unit); err != nil {
					return fmt.Errorf("insert statement item: %w", err)
				}
			}
		}
	}

	for name, byPeriod := range result.Ratios {
		for period, r := range byPeriod {
			var value *float64
			if !r.Undefined {
				value = &r.Value
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO ratio_results (run_id, name, period, value, undefined)
				 VALUES ($1, $2, $3, $4, $5)`,
				result.RunID, name, period, value, r.Undefined); err != nil {
				return fmt.Errorf("insert ratio result: %w", err)
			}
		}
	}

	for i, e := range result.Graph.Edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_edges (run_id, position, subject, predicate, object, ord, weight)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			result.RunID, i, e.Subject, e.Predicate, e.Object, e.Order, e.Weight); err != nil {
			return fmt.Errorf("insert graph edge: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	log.Info().Str("run_id", result.RunID).Int("edges", len(result.Graph.Edges)).Msg("extraction run persisted")
	return nil
}
