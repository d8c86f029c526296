// Package reconcile matches records between the two independently
// curated exports by shared case identifier and surfaces coverage gaps
// and contradicting dispositions.
package reconcile

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/normalize"
)

// ContradictionTable maps a normalized source-A disposition to the set
// of normalized source-B dispositions that contradict it. Built once
// from the reference config and passed in explicitly.
type ContradictionTable map[string]map[string]bool

// NewContradictionTable builds the lookup from raw (a, b) disposition
// pairs, normalizing both sides.
func NewContradictionTable(pairs [][2]string) ContradictionTable {
	t := make(ContradictionTable, len(pairs))
	for _, p := range pairs {
		a := normalize.NormalizeDisposition(p[0])
		b := normalize.NormalizeDisposition(p[1])
		if a == "" || b == "" {
			continue
		}
		if t[a] == nil {
			t[a] = make(map[string]bool)
		}
		t[a][b] = true
	}
	return t
}

// Contradicts reports whether the (a, b) normalized disposition pair is
// configured as contradictory.
func (t ContradictionTable) Contradicts(a, b string) bool {
	return t[a][b]
}

// Reconcile computes the symmetric outer join of the two record sets on
// trimmed case identifier, and the conflict list for matched keys whose
// dispositions contradict. The three partitions are pairwise disjoint
// and cover the identifier union.
func Reconcile(sourceA, sourceB []*model.LeadRecord, table ContradictionTable) *model.ReconciliationResult {
	log := zap.L().With(zap.String("component", "reconciler"))

	byA := keyRecords(sourceA)
	byB := keyRecords(sourceB)

	result := &model.ReconciliationResult{}
	for caseID := range byA {
		if _, ok := byB[caseID]; ok {
			result.Matched = append(result.Matched, caseID)
		} else {
			result.OnlyA = append(result.OnlyA, caseID)
		}
	}
	for caseID := range byB {
		if _, ok := byA[caseID]; !ok {
			result.OnlyB = append(result.OnlyB, caseID)
		}
	}
	sort.Strings(result.Matched)
	sort.Strings(result.OnlyA)
	sort.Strings(result.OnlyB)

	for _, caseID := range result.Matched {
		recA, recB := byA[caseID], byB[caseID]
		if table.Contradicts(recA.DispositionNorm, recB.DispositionNorm) {
			result.Conflicts = append(result.Conflicts, model.Conflict{
				CaseID:       caseID,
				DispositionA: recA.Disposition,
				DispositionB: recB.Disposition,
			})
		}
	}

	log.Info("reconciliation complete",
		zap.Int("matched", len(result.Matched)),
		zap.Int("only_a", len(result.OnlyA)),
		zap.Int("only_b", len(result.OnlyB)),
		zap.Int("conflicts", len(result.Conflicts)),
	)
	return result
}

// keyRecords indexes records by trimmed case identifier. When an
// identifier repeats within a source (multi-product lines), the first
// record wins for disposition comparison.
func keyRecords(records []*model.LeadRecord) map[string]*model.LeadRecord {
	m := make(map[string]*model.LeadRecord, len(records))
	for _, rec := range records {
		caseID := strings.TrimSpace(rec.CaseID)
		if caseID == "" {
			continue
		}
		if _, ok := m[caseID]; !ok {
			m[caseID] = rec
		}
	}
	return m
}
