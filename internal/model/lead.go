package model

import "time"

// LeadRecord is the canonical unit of work: one lead row after column
// resolution, date normalization, and identity canonicalization. A
// record is immutable once built; derived metrics are pure functions of
// its timestamps and are attached exactly once by the lifecycle stage.
type LeadRecord struct {
	// Index is the zero-based row position in the source file, kept for
	// stable ordering and cache fingerprinting.
	Index int `json:"index" csv:"-"`

	// Source identifies which export the record came from ("leads" or
	// "recon").
	Source string `json:"source" csv:"source"`

	CaseID   string `json:"case_id" csv:"mcn"`
	Client   string `json:"client" csv:"client"`
	Product  string `json:"product" csv:"product"`
	RawAgent string `json:"raw_agent" csv:"raw_agent"`

	// AgentName and AgentGroup are the canonicalized identity. AgentName
	// falls back to RawAgent when the login is unmapped.
	AgentName  string `json:"agent_name" csv:"agent_name"`
	AgentGroup string `json:"agent_group" csv:"agent_group"`

	// Disposition is the raw status string; DispositionNorm is its
	// trimmed, case-folded form used for all comparisons.
	Disposition     string `json:"disposition" csv:"disposition"`
	DispositionNorm string `json:"disposition_norm" csv:"-"`

	Comments string `json:"comments,omitempty" csv:"comments"`

	// Dates holds the parsed lifecycle timestamps keyed by canonical
	// field. Absent or unparseable values are simply not present.
	Dates map[Field]time.Time `json:"dates" csv:"-"`

	Metrics Metrics `json:"metrics" csv:"-"`
}

// Date returns the timestamp for a canonical date field, if present.
func (r *LeadRecord) Date(f Field) (time.Time, bool) {
	t, ok := r.Dates[f]
	return t, ok
}

// HasDate reports whether the record carries a parsed value for f.
func (r *LeadRecord) HasDate(f Field) bool {
	_, ok := r.Dates[f]
	return ok
}

// DateOnly returns the calendar-date projection of a lifecycle
// timestamp: the same instant truncated to midnight in its location.
// It is a deterministic function of the stored timestamp and is the
// only projection grouping and range filters may use.
func (r *LeadRecord) DateOnly(f Field) (time.Time, bool) {
	t, ok := r.Dates[f]
	if !ok {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), true
}

// Metrics holds the derived lifecycle metrics for one record. Absent
// ages are nil, never zero.
type Metrics struct {
	Assigned  bool `json:"assigned"`
	Approved  bool `json:"approved"`
	Denied    bool `json:"denied"`
	Completed bool `json:"completed"`
	Uploaded  bool `json:"uploaded"`

	// NotYetAssigned is set when the record has a creation timestamp but
	// no assignment timestamp.
	NotYetAssigned bool `json:"not_yet_assigned"`

	// Signed whole-day ages from creation to each terminal milestone.
	// Negative when the terminal event precedes creation; that is a data
	// anomaly, not an error, and is never clamped.
	CompletionAgeDays *int `json:"completion_age_days,omitempty"`
	ApprovalAgeDays   *int `json:"approval_age_days,omitempty"`
	DenialAgeDays     *int `json:"denial_age_days,omitempty"`

	// WeekBucket = floorDiv(CompletionAgeDays, 7). Nil when the
	// completion age is absent.
	WeekBucket *int `json:"week_bucket,omitempty"`

	// BucketLabel is the display label for WeekBucket ("Week 1",
	// "Before Creation", "Not Completed").
	BucketLabel string `json:"bucket_label"`
}
