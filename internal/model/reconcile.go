package model

// Conflict records a matched case whose dispositions contradict across
// the two sources.
type Conflict struct {
	CaseID       string `json:"case_id"`
	DispositionA string `json:"disposition_a"`
	DispositionB string `json:"disposition_b"`
}

// ReconciliationResult is the symmetric outer join of the two sources
// on case identifier. Matched, OnlyA, and OnlyB are pairwise disjoint
// and their union covers every case identifier from both sources.
type ReconciliationResult struct {
	Matched []string `json:"matched"`
	OnlyA   []string `json:"only_a"`
	OnlyB   []string `json:"only_b"`

	Conflicts []Conflict `json:"conflicts"`
}

// Total returns the size of the identifier universe.
func (r *ReconciliationResult) Total() int {
	return len(r.Matched) + len(r.OnlyA) + len(r.OnlyB)
}
