package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/chase-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func testRun() Run {
	return Run{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		LeadsSource: "leads.csv",
		ReconSource: "recon.csv",
		Summary:     model.Summary{TotalLeads: 10, Assigned: 7, NotAssigned: 3, Completed: 4},
		RuleCounts: map[model.RuleID]int{
			model.RuleCompletedNotAssigned: 2,
		},
		DuplicateGroups:   1,
		MultiProductCases: 2,
		Matched:           5,
		OnlyLeads:         3,
		OnlyRecon:         1,
		Conflicts:         1,
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, 2, got.RuleCounts[model.RuleCompletedNotAssigned])
	assert.Equal(t, run.Matched, got.Matched)
	assert.Equal(t, run.Conflicts, got.Conflicts)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.GetRun(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSQLite_ListRuns_NewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	older := testRun()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testRun()
	require.NoError(t, st.SaveRun(ctx, older))
	require.NoError(t, st.SaveRun(ctx, newer))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)

	runs, err = st.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLite_SaveRecords(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, st.SaveRun(ctx, run))

	records := []*model.LeadRecord{
		{Index: 0, Source: "leads", CaseID: "M1", Client: "Acme", AgentName: "Sarah Adams"},
		{Index: 1, Source: "leads", CaseID: "M2", Client: "Beta", AgentName: "Ivy Brooks"},
	}
	n, err := st.SaveRecords(ctx, run.ID, records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
