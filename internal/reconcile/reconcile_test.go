package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/normalize"
)

func lead(caseID, disposition string) *model.LeadRecord {
	return &model.LeadRecord{
		CaseID:          caseID,
		Disposition:     disposition,
		DispositionNorm: normalize.NormalizeDisposition(disposition),
	}
}

func testTable() ContradictionTable {
	return NewContradictionTable([][2]string{
		{"Dead Lead", "Doctor Chase"},
		{"Denied", "Doctor Chase"},
		{"Dead Lead", "Closing Status"},
	})
}

func TestReconcile_Partitions(t *testing.T) {
	a := []*model.LeadRecord{lead("X1", ""), lead("X2", ""), lead("X3", "")}
	b := []*model.LeadRecord{lead("X2", ""), lead("X3", ""), lead("X4", "")}

	result := Reconcile(a, b, testTable())

	assert.Equal(t, []string{"X2", "X3"}, result.Matched)
	assert.Equal(t, []string{"X1"}, result.OnlyA)
	assert.Equal(t, []string{"X4"}, result.OnlyB)
	assert.Equal(t, 4, result.Total())
}

func TestReconcile_PartitionInvariant(t *testing.T) {
	a := []*model.LeadRecord{lead("A", ""), lead("B", ""), lead("C", "")}
	b := []*model.LeadRecord{lead("B", ""), lead("D", "")}

	result := Reconcile(a, b, testTable())

	seen := make(map[string]int)
	for _, s := range [][]string{result.Matched, result.OnlyA, result.OnlyB} {
		for _, id := range s {
			seen[id]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "case %s appears in %d partitions", id, n)
	}
	assert.Len(t, seen, 4)
}

func TestReconcile_EmptySources(t *testing.T) {
	result := Reconcile(nil, nil, testTable())
	assert.Zero(t, result.Total())

	result = Reconcile([]*model.LeadRecord{lead("X1", "")}, nil, testTable())
	assert.Equal(t, []string{"X1"}, result.OnlyA)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.OnlyB)
}

func TestReconcile_ConflictDetection(t *testing.T) {
	a := []*model.LeadRecord{lead("X1", "Dead Lead")}
	b := []*model.LeadRecord{lead("X1", "Doctor Chase")}

	result := Reconcile(a, b, testTable())
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "X1", result.Conflicts[0].CaseID)
	assert.Equal(t, "Dead Lead", result.Conflicts[0].DispositionA)
	assert.Equal(t, "Doctor Chase", result.Conflicts[0].DispositionB)
}

func TestReconcile_NonContradictingPairNoConflict(t *testing.T) {
	a := []*model.LeadRecord{lead("X1", "Dead Lead")}
	b := []*model.LeadRecord{lead("X1", "Shipped")}

	result := Reconcile(a, b, testTable())
	assert.Empty(t, result.Conflicts)
}

func TestReconcile_ConflictNormalizesCaseAndSpace(t *testing.T) {
	a := []*model.LeadRecord{lead("X1", "  DEAD LEAD ")}
	b := []*model.LeadRecord{lead("X1", "doctor chase")}

	result := Reconcile(a, b, testTable())
	require.Len(t, result.Conflicts, 1)
}

func TestReconcile_CaseIDTrimmedNotFolded(t *testing.T) {
	a := []*model.LeadRecord{lead(" X1 ", "")}
	b := []*model.LeadRecord{lead("X1", ""), lead("x1", "")}

	result := Reconcile(a, b, testTable())
	// Trimmed "X1" matches; lowercase "x1" is a different identifier.
	assert.Equal(t, []string{"X1"}, result.Matched)
	assert.Equal(t, []string{"x1"}, result.OnlyB)
}
