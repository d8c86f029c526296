// Package store persists run snapshots: the headline summary and
// report counts of each analysis run, plus the canonical record set.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/chase-cli/internal/config"
	"github.com/sells-group/chase-cli/internal/model"
)

// Run is one persisted analysis snapshot.
type Run struct {
	ID          string               `json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	LeadsSource string               `json:"leads_source"`
	ReconSource string               `json:"recon_source,omitempty"`
	Summary     model.Summary        `json:"summary"`
	RuleCounts  map[model.RuleID]int `json:"rule_counts"`

	DuplicateGroups   int `json:"duplicate_groups"`
	MultiProductCases int `json:"multi_product_cases"`

	Matched   int `json:"matched"`
	OnlyLeads int `json:"only_leads"`
	OnlyRecon int `json:"only_recon"`
	Conflicts int `json:"conflicts"`
}

// Store persists and retrieves run snapshots.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// SaveRecords bulk-loads the canonical record set for a run.
	SaveRecords(ctx context.Context, runID string, records []*model.LeadRecord) (int64, error)

	Close() error
}

// Open builds a Store from the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q (valid: sqlite, postgres)", cfg.Driver)
	}
}
