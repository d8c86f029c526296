// Package lifecycle derives per-record age, bucket, and milestone
// metrics from canonical timestamps.
package lifecycle

import (
	"fmt"

	"github.com/sells-group/chase-cli/internal/model"
)

// Derive computes the full metric set for one record. Any missing
// endpoint timestamp yields an absent metric, never a zero.
func Derive(rec *model.LeadRecord) model.Metrics {
	m := model.Metrics{
		Assigned:  rec.HasDate(model.FieldAssignedDate),
		Approved:  rec.HasDate(model.FieldApprovalDate),
		Denied:    rec.HasDate(model.FieldDenialDate),
		Completed: rec.HasDate(model.FieldCompletionDate),
		Uploaded:  rec.HasDate(model.FieldUploadDate),
	}
	m.NotYetAssigned = rec.HasDate(model.FieldCreatedTime) && !m.Assigned

	m.CompletionAgeDays = AgeDays(rec, model.FieldCompletionDate)
	m.ApprovalAgeDays = AgeDays(rec, model.FieldApprovalDate)
	m.DenialAgeDays = AgeDays(rec, model.FieldDenialDate)

	m.WeekBucket = Bucket(m.CompletionAgeDays)
	m.BucketLabel = BucketLabel(m.CompletionAgeDays)
	return m
}

// AgeDays returns the signed whole-day interval from creation to the
// given terminal milestone, or nil when either endpoint is absent. A
// terminal event recorded before creation yields a negative age; that
// is a data anomaly and is deliberately not clamped.
func AgeDays(rec *model.LeadRecord, terminal model.Field) *int {
	created, ok := rec.Date(model.FieldCreatedTime)
	if !ok {
		return nil
	}
	end, ok := rec.Date(terminal)
	if !ok {
		return nil
	}
	days := int(end.Sub(created).Hours() / 24)
	// Truncation rounds toward zero; floor negative partial days so the
	// interval is a true floor in both directions.
	if end.Before(created) && !end.Equal(created.AddDate(0, 0, days)) {
		days--
	}
	return &days
}

// Bucket maps a signed age to its 7-day bucket: floor(age/7). Ages 0–6
// land in bucket 0, 7–13 in bucket 1, and ages before creation in
// negative buckets, never clamped to zero. Floored division is the
// single canonical formula; every consumer derives labels from it.
func Bucket(ageDays *int) *int {
	if ageDays == nil {
		return nil
	}
	b := floorDiv(*ageDays, 7)
	return &b
}

// BucketLabel is the pure display-label function for a nullable age:
// "Not Completed" for absent ages, "Before Creation" for negative
// buckets, and 1-based "Week N" for the rest.
func BucketLabel(ageDays *int) string {
	b := Bucket(ageDays)
	if b == nil {
		return "Not Completed"
	}
	if *b < 0 {
		return "Before Creation"
	}
	return fmt.Sprintf("Week %d", *b+1)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
