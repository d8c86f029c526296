// Package quality evaluates data-quality invariants over the canonical
// record set and reports anomalies per rule.
package quality

import (
	"fmt"
	"time"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/normalize"
)

// Config holds the disposition-driven rule parameters. Built once at
// pipeline start from the reference tables and passed in explicitly.
type Config struct {
	// PendingShipment is the normalized disposition that implies an
	// upload must exist (rule 6).
	PendingShipment string

	// Stalled is the normalized disposition set checked by rule 7, with
	// its days-since-creation threshold.
	Stalled          map[string]bool
	StalledAfterDays int
}

// Env is the evaluation environment shared by all rules: the source's
// capability set and the run's current time. Rules whose required
// fields did not resolve skip gracefully.
type Env struct {
	Available model.FieldSet
	Now       time.Time
}

// Rule is one invariant check: records where the predicate holds are
// anomalous under the rule's ID. Predicates are pure and
// order-independent.
type Rule struct {
	ID        model.RuleID
	Needs     []model.Field
	Predicate func(rec *model.LeadRecord, env Env, cfg Config) bool
	Detail    func(rec *model.LeadRecord, env Env) string
}

// Rules returns the baseline rule set. The engine evaluates every rule
// independently; rules are not mutually exclusive.
func Rules() []Rule {
	return []Rule{
		{
			ID:    model.RuleCompletedNotAssigned,
			Needs: []model.Field{model.FieldCompletionDate, model.FieldAssignedDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldCompletionDate) && !rec.HasDate(model.FieldAssignedDate)
			},
		},
		{
			ID:    model.RuleCompletedNotApproved,
			Needs: []model.Field{model.FieldCompletionDate, model.FieldApprovalDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldCompletionDate) && !rec.HasDate(model.FieldApprovalDate)
			},
		},
		{
			ID:    model.RuleUploadedNotCompleted,
			Needs: []model.Field{model.FieldUploadDate, model.FieldCompletionDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldUploadDate) && !rec.HasDate(model.FieldCompletionDate)
			},
		},
		{
			ID:    model.RuleUploadedNotAssigned,
			Needs: []model.Field{model.FieldUploadDate, model.FieldAssignedDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldUploadDate) && !rec.HasDate(model.FieldAssignedDate)
			},
		},
		{
			ID:    model.RuleUploadedNotApproved,
			Needs: []model.Field{model.FieldUploadDate, model.FieldApprovalDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldUploadDate) && !rec.HasDate(model.FieldApprovalDate)
			},
		},
		{
			ID:    model.RulePendingShipNoUpload,
			Needs: []model.Field{model.FieldDisposition, model.FieldUploadDate},
			Predicate: func(rec *model.LeadRecord, _ Env, cfg Config) bool {
				return cfg.PendingShipment != "" &&
					rec.DispositionNorm == cfg.PendingShipment &&
					!rec.HasDate(model.FieldUploadDate)
			},
		},
		{
			ID:    model.RuleStalledDisposition,
			Needs: []model.Field{model.FieldDisposition, model.FieldCreatedTime},
			Predicate: func(rec *model.LeadRecord, env Env, cfg Config) bool {
				if !cfg.Stalled[rec.DispositionNorm] {
					return false
				}
				created, ok := rec.Date(model.FieldCreatedTime)
				if !ok {
					return false
				}
				days := int(normalize.DateOnly(env.Now).Sub(normalize.DateOnly(created)).Hours() / 24)
				return days > cfg.StalledAfterDays
			},
			Detail: func(rec *model.LeadRecord, env Env) string {
				created, _ := rec.Date(model.FieldCreatedTime)
				days := int(normalize.DateOnly(env.Now).Sub(normalize.DateOnly(created)).Hours() / 24)
				return fmt.Sprintf("%d days since creation", days)
			},
		},
		{
			ID:    model.RuleApprovedAndDenied,
			Needs: []model.Field{model.FieldApprovalDate, model.FieldDenialDate},
			Predicate: func(rec *model.LeadRecord, _ Env, _ Config) bool {
				return rec.HasDate(model.FieldApprovalDate) && rec.HasDate(model.FieldDenialDate)
			},
		},
	}
}

// Evaluate runs every rule over the record set and returns the union of
// anomalies tagged by rule, plus a count per rule. A rule whose
// required fields are unavailable in this source contributes nothing.
func Evaluate(records []*model.LeadRecord, env Env, cfg Config) *model.QualityReport {
	report := &model.QualityReport{Counts: make(map[model.RuleID]int)}

	for _, rule := range Rules() {
		if !env.Available.HasAll(rule.Needs...) {
			continue
		}
		for _, rec := range records {
			if !rule.Predicate(rec, env, cfg) {
				continue
			}
			a := model.AnomalyRecord{Record: rec, Rule: rule.ID}
			if rule.Detail != nil {
				a.Detail = rule.Detail(rec, env)
			}
			report.Anomalies = append(report.Anomalies, a)
			report.Counts[rule.ID]++
		}
	}
	return report
}
