// Package pipeline orchestrates the lead analytics run: column
// resolution, date and identity normalization, lifecycle metric
// derivation, and the quality, duplicate, and reconciliation reports.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/chase-cli/internal/config"
	"github.com/sells-group/chase-cli/internal/dedup"
	"github.com/sells-group/chase-cli/internal/fetcher"
	"github.com/sells-group/chase-cli/internal/lifecycle"
	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/normalize"
	"github.com/sells-group/chase-cli/internal/quality"
	"github.com/sells-group/chase-cli/internal/reconcile"
	"github.com/sells-group/chase-cli/internal/schema"
)

// SourceLeads and SourceRecon label the two exports.
const (
	SourceLeads = "leads"
	SourceRecon = "recon"
)

// Normalized is the memoized output of the expensive normalization
// stage for one source: canonical records plus the capability set and
// per-field date coercion counts. It is invariant to downstream filter
// selection.
type Normalized struct {
	Records   []*model.LeadRecord
	Available model.FieldSet
	DateStats map[model.Field]*normalize.DateStats
}

// Result is the full output of one pipeline run, handed to the
// presentation layer. Everything here is re-derivable from the raw
// inputs plus configuration.
type Result struct {
	Leads *Normalized
	Recon *Normalized

	Quality        *model.QualityReport
	Duplicates     *model.DuplicateReport
	Reconciliation *model.ReconciliationResult

	Now time.Time
}

// Pipeline runs the normalization and derivation stages. It memoizes
// normalization per source table so repeated filter interactions only
// re-run the cheap aggregate stages.
type Pipeline struct {
	ref     *config.Reference
	canon   *normalize.Canonicalizer
	qcfg    quality.Config
	contra  reconcile.ContradictionTable
	workers int

	memo memoCache
}

// New builds a Pipeline from the reference tables. workers bounds the
// parallel normalization stage; 0 means one worker per CPU.
func New(ref *config.Reference, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	stalled := make(map[string]bool, len(ref.Stalled))
	for _, s := range ref.Stalled {
		stalled[normalize.NormalizeDisposition(s)] = true
	}
	return &Pipeline{
		ref:   ref,
		canon: normalize.NewCanonicalizer(ref.NameMap, ref.TeamGroup, ref.TeamMembers, ref.DefaultGroup),
		qcfg: quality.Config{
			PendingShipment:  normalize.NormalizeDisposition(ref.PendingShipment),
			Stalled:          stalled,
			StalledAfterDays: ref.StalledAfterDays,
		},
		contra:  reconcile.NewContradictionTable(ref.Contradictions),
		workers: workers,
	}
}

// Run executes the full pipeline over the lead export and, when
// present, the reconciliation export. recon may be nil.
func (p *Pipeline) Run(ctx context.Context, leads, recon *fetcher.Table) (*Result, error) {
	now := time.Now()
	log := zap.L().With(zap.String("component", "pipeline"))

	normLeads, err := p.Normalize(ctx, leads, SourceLeads, now)
	if err != nil {
		return nil, err
	}
	log.Info("leads normalized",
		zap.Int("records", len(normLeads.Records)),
		zap.Int("fields", len(normLeads.Available.Fields())),
	)

	result := &Result{Leads: normLeads, Now: now}

	result.Quality = quality.Evaluate(normLeads.Records, quality.Env{
		Available: normLeads.Available,
		Now:       now,
	}, p.qcfg)
	result.Duplicates = dedup.Detect(normLeads.Records)

	if recon != nil {
		normRecon, err := p.Normalize(ctx, recon, SourceRecon, now)
		if err != nil {
			return nil, err
		}
		result.Recon = normRecon
		result.Reconciliation = reconcile.Reconcile(normLeads.Records, normRecon.Records, p.contra)
	}

	return result, nil
}

// Normalize resolves columns and canonicalizes dates and identities for
// one source table. Results are memoized on the table's fingerprint; a
// hit skips straight to the cached records.
func (p *Pipeline) Normalize(ctx context.Context, table *fetcher.Table, source string, now time.Time) (*Normalized, error) {
	key := fingerprint(table)
	if cached, ok := p.memo.get(key); ok {
		return cached, nil
	}

	res := schema.Resolve(table.Header, p.ref.Synonyms)

	out := &Normalized{
		Records:   make([]*model.LeadRecord, len(table.Rows)),
		Available: res.Available,
		DateStats: make(map[model.Field]*normalize.DateStats),
	}
	stats := make(map[model.Field]*normalize.DateStats)
	for _, f := range model.DateFields() {
		if res.Available.Has(f) {
			stats[f] = &normalize.DateStats{}
		}
	}

	// Row-level normalization is embarrassingly parallel; each worker
	// writes only its own index. Date stats are merged afterwards from
	// per-worker shards to keep workers share-nothing.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	shards := make([]map[model.Field]*normalize.DateStats, p.workers)
	rowsPerWorker := (len(table.Rows) + p.workers - 1) / p.workers
	for w := 0; w < p.workers; w++ {
		lo := w * rowsPerWorker
		if lo >= len(table.Rows) {
			break
		}
		hi := lo + rowsPerWorker
		if hi > len(table.Rows) {
			hi = len(table.Rows)
		}
		shard := make(map[model.Field]*normalize.DateStats)
		for f := range stats {
			shard[f] = &normalize.DateStats{}
		}
		shards[w] = shard

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out.Records[i] = p.buildRecord(table.Rows[i], i, source, res, shard, now)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, shard := range shards {
		if shard == nil {
			continue
		}
		for f, s := range shard {
			stats[f].Parsed += s.Parsed
			stats[f].Unparseable += s.Unparseable
			stats[f].Future += s.Future
		}
	}
	out.DateStats = stats

	p.memo.put(key, out)
	return out, nil
}

// buildRecord constructs one immutable LeadRecord from a raw row:
// resolved fields, parsed dates, canonical identity, derived metrics.
func (p *Pipeline) buildRecord(row []string, index int, source string, res *schema.Resolution, stats map[model.Field]*normalize.DateStats, now time.Time) *model.LeadRecord {
	rec := &model.LeadRecord{
		Index:    index,
		Source:   source,
		CaseID:   res.Value(row, model.FieldCaseID),
		Client:   res.Value(row, model.FieldClient),
		Product:  res.Value(row, model.FieldProduct),
		RawAgent: res.Value(row, model.FieldAgent),
		Comments: res.Value(row, model.FieldComments),
		Dates:    make(map[model.Field]time.Time),
	}

	rec.Disposition = res.Value(row, model.FieldDisposition)
	rec.DispositionNorm = normalize.NormalizeDisposition(rec.Disposition)
	rec.AgentName, rec.AgentGroup = p.canon.Canonicalize(rec.RawAgent)

	for f, s := range stats {
		if t, ok := s.Observe(res.Value(row, f), now); ok {
			rec.Dates[f] = t
		}
	}

	rec.Metrics = lifecycle.Derive(rec)
	return rec
}
