package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/chase-cli/internal/db"
	"github.com/sells-group/chase-cli/internal/model"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres connects a pgx pool to the given database URL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, eris.New("postgres: database URL is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests with
// pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           UUID PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	leads_source TEXT NOT NULL,
	recon_source TEXT,
	summary      JSONB NOT NULL,
	rule_counts  JSONB NOT NULL,
	dup_groups   INT NOT NULL DEFAULT 0,
	multi_cases  INT NOT NULL DEFAULT 0,
	matched      INT NOT NULL DEFAULT 0,
	only_leads   INT NOT NULL DEFAULT 0,
	only_recon   INT NOT NULL DEFAULT 0,
	conflicts    INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lead_records (
	run_id      UUID NOT NULL REFERENCES runs(id),
	idx         INT NOT NULL,
	source      TEXT NOT NULL,
	case_id     TEXT,
	client      TEXT,
	product     TEXT,
	agent_name  TEXT,
	agent_group TEXT,
	disposition TEXT,
	record      JSONB NOT NULL,
	PRIMARY KEY (run_id, source, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_lead_records_case_id ON lead_records(case_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run Run) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal summary")
	}
	countsJSON, err := json.Marshal(run.RuleCounts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal rule counts")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO runs (id, created_at, leads_source, recon_source, summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.CreatedAt.UTC(), run.LeadsSource, run.ReconSource,
		summaryJSON, countsJSON,
		run.DuplicateGroups, run.MultiProductCases,
		run.Matched, run.OnlyLeads, run.OnlyRecon, run.Conflicts,
	)
	return eris.Wrap(err, "postgres: insert run")
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, created_at, leads_source, COALESCE(recon_source, ''), summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts
		FROM runs WHERE id = $1`, id)

	run, err := scanPgRun(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get run")
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, created_at, leads_source, COALESCE(recon_source, ''), summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts
		FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanPgRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

// SaveRecords bulk-loads the canonical record set with COPY.
func (s *PostgresStore) SaveRecords(ctx context.Context, runID string, records []*model.LeadRecord) (int64, error) {
	columns := []string{"run_id", "idx", "source", "case_id", "client", "product", "agent_name", "agent_group", "disposition", "record"}
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal record")
		}
		rows = append(rows, []any{
			runID, rec.Index, rec.Source, rec.CaseID, rec.Client, rec.Product,
			rec.AgentName, rec.AgentGroup, rec.Disposition, recJSON,
		})
	}
	return db.CopyFrom(ctx, s.pool, "lead_records", columns, rows)
}

func scanPgRun(scan func(dest ...any) error) (*Run, error) {
	var run Run
	var createdAt time.Time
	var summaryJSON, countsJSON []byte

	if err := scan(&run.ID, &createdAt, &run.LeadsSource, &run.ReconSource,
		&summaryJSON, &countsJSON,
		&run.DuplicateGroups, &run.MultiProductCases,
		&run.Matched, &run.OnlyLeads, &run.OnlyRecon, &run.Conflicts); err != nil {
		return nil, err
	}
	run.CreatedAt = createdAt

	if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return nil, eris.Wrap(err, "decode summary")
	}
	if err := json.Unmarshal(countsJSON, &run.RuleCounts); err != nil {
		return nil, eris.Wrap(err, "decode rule counts")
	}
	return &run, nil
}
