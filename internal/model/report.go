package model

import "time"

// Summary holds the headline dataset counts shown on the dashboard.
type Summary struct {
	TotalLeads  int `json:"total_leads"`
	Assigned    int `json:"assigned"`
	NotAssigned int `json:"not_assigned"`
	Approved    int `json:"approved"`
	Denied      int `json:"denied"`
	Uploaded    int `json:"uploaded"`
	Completed   int `json:"completed"`
}

// Pct returns n as a percentage of the summary's total, or 0 for an
// empty dataset.
func (s Summary) Pct(n int) float64 {
	if s.TotalLeads == 0 {
		return 0
	}
	return float64(n) / float64(s.TotalLeads) * 100
}

// DuplicateGroup is a set of records sharing the same (case identifier,
// product) key. More than one record on the key makes them true
// duplicates.
type DuplicateGroup struct {
	CaseID  string        `json:"case_id"`
	Product string        `json:"product"`
	Records []*LeadRecord `json:"records"`
}

// MultiProductGroup is a case identifier that legitimately repeats
// across distinct product lines. These are not duplicates.
type MultiProductGroup struct {
	CaseID   string        `json:"case_id"`
	Products []string      `json:"products"`
	Records  []*LeadRecord `json:"records"`
}

// DuplicateReport separates true duplicates from legitimate
// multi-product repetition. The two classifications are disjoint: a
// case identifier with any true-duplicate key never appears in the
// multi-product list.
type DuplicateReport struct {
	TrueDuplicates []DuplicateGroup    `json:"true_duplicates"`
	MultiProduct   []MultiProductGroup `json:"multi_product"`
}

// TimeSeriesPoint is a lead count for one period, optionally broken
// down by a grouping key (client, agent, or team group).
type TimeSeriesPoint struct {
	Period time.Time `json:"period"`
	Key    string    `json:"key,omitempty"`
	Count  int       `json:"count"`
}

// AgeStats holds mean and median lifecycle age for one group.
type AgeStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// BucketCount is one row of the age-bucket distribution table.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LeaderboardEntry is one row of a top-N lead count table.
type LeaderboardEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
