package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/chase-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   DATETIME NOT NULL,
	leads_source TEXT NOT NULL,
	recon_source TEXT,
	summary      TEXT NOT NULL,
	rule_counts  TEXT NOT NULL,
	dup_groups   INTEGER NOT NULL DEFAULT 0,
	multi_cases  INTEGER NOT NULL DEFAULT 0,
	matched      INTEGER NOT NULL DEFAULT 0,
	only_leads   INTEGER NOT NULL DEFAULT 0,
	only_recon   INTEGER NOT NULL DEFAULT 0,
	conflicts    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lead_records (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	idx         INTEGER NOT NULL,
	source      TEXT NOT NULL,
	case_id     TEXT,
	client      TEXT,
	product     TEXT,
	agent_name  TEXT,
	agent_group TEXT,
	disposition TEXT,
	record      TEXT NOT NULL,
	PRIMARY KEY (run_id, source, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_lead_records_case_id ON lead_records(case_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}
	countsJSON, err := json.Marshal(run.RuleCounts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal rule counts")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, leads_source, recon_source, summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC(), run.LeadsSource, run.ReconSource,
		string(summaryJSON), string(countsJSON),
		run.DuplicateGroups, run.MultiProductCases,
		run.Matched, run.OnlyLeads, run.OnlyRecon, run.Conflicts,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, leads_source, COALESCE(recon_source, ''), summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("sqlite: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, leads_source, COALESCE(recon_source, ''), summary, rule_counts,
			dup_groups, multi_cases, matched, only_leads, only_recon, conflicts
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveRecords(ctx context.Context, runID string, records []*model.LeadRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lead_records (run_id, idx, source, case_id, client, product, agent_name, agent_group, disposition, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, rec := range records {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return n, eris.Wrap(err, "sqlite: marshal record")
		}
		if _, err := stmt.ExecContext(ctx, runID, rec.Index, rec.Source,
			rec.CaseID, rec.Client, rec.Product, rec.AgentName, rec.AgentGroup,
			rec.Disposition, string(recJSON)); err != nil {
			return n, eris.Wrap(err, "sqlite: insert record")
		}
		n++
	}
	return n, eris.Wrap(tx.Commit(), "sqlite: commit records")
}

// scanRun decodes one runs row via the given Scan function.
func scanRun(scan func(dest ...any) error) (*Run, error) {
	var run Run
	var createdAt time.Time
	var summaryJSON, countsJSON string

	if err := scan(&run.ID, &createdAt, &run.LeadsSource, &run.ReconSource,
		&summaryJSON, &countsJSON,
		&run.DuplicateGroups, &run.MultiProductCases,
		&run.Matched, &run.OnlyLeads, &run.OnlyRecon, &run.Conflicts); err != nil {
		return nil, err
	}
	run.CreatedAt = createdAt

	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, eris.Wrap(err, "decode summary")
	}
	if err := json.Unmarshal([]byte(countsJSON), &run.RuleCounts); err != nil {
		return nil, eris.Wrap(err, "decode rule counts")
	}
	return &run, nil
}
