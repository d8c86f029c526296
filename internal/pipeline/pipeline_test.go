package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/chase-cli/internal/config"
	"github.com/sells-group/chase-cli/internal/fetcher"
	"github.com/sells-group/chase-cli/internal/model"
)

func testPipeline() *Pipeline {
	return New(config.DefaultReference(), 2)
}

func leadsTable(rows ...[]string) *fetcher.Table {
	return &fetcher.Table{
		Source: "leads.csv",
		Header: []string{"MCN", "Client", "Product", "Created Time", "Assigned date", "Approval date", "Completion Date", "Assigned to Chase", "Chasing Disposition"},
		Rows:   rows,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	table := leadsTable(
		[]string{"M1", "Acme", "A", "01/01/2024", "02/01/2024", "05/01/2024", "10/01/2024", "jimmy.daves", "Approved"},
	)

	result, err := testPipeline().Run(context.Background(), table, nil)
	require.NoError(t, err)
	require.Len(t, result.Leads.Records, 1)

	rec := result.Leads.Records[0]
	assert.Equal(t, "M1", rec.CaseID)
	assert.Equal(t, "Grayson Saint", rec.AgentName)
	assert.Equal(t, "Andrew Chasers", rec.AgentGroup)

	require.NotNil(t, rec.Metrics.CompletionAgeDays)
	assert.Equal(t, 9, *rec.Metrics.CompletionAgeDays)
	require.NotNil(t, rec.Metrics.WeekBucket)
	assert.Equal(t, 1, *rec.Metrics.WeekBucket)

	// Approval date supplied → completion-without-approval must not fire.
	assert.Zero(t, result.Quality.Counts[model.RuleCompletedNotApproved])
	// One record, no duplicates.
	assert.Empty(t, result.Duplicates.TrueDuplicates)
	assert.Nil(t, result.Reconciliation)
}

func TestRun_QualityFiresOnMissingAssignment(t *testing.T) {
	table := leadsTable(
		[]string{"M1", "Acme", "A", "01/01/2024", "", "", "10/01/2024", "", ""},
	)
	result, err := testPipeline().Run(context.Background(), table, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Quality.Counts[model.RuleCompletedNotAssigned])
	assert.Equal(t, 1, result.Quality.Counts[model.RuleCompletedNotApproved])
}

func TestRun_WithReconciliationSource(t *testing.T) {
	leads := leadsTable(
		[]string{"X1", "Acme", "A", "01/01/2024", "", "", "", "", "Dead Lead"},
		[]string{"X2", "Acme", "A", "01/01/2024", "", "", "", "", "Approved"},
	)
	recon := &fetcher.Table{
		Source: "recon.csv",
		Header: []string{"Case Number", "Closing Status"},
		Rows: [][]string{
			{"X1", "Doctor Chase"},
			{"X9", "Shipped"},
		},
	}

	result, err := testPipeline().Run(context.Background(), leads, recon)
	require.NoError(t, err)
	require.NotNil(t, result.Reconciliation)

	assert.Equal(t, []string{"X1"}, result.Reconciliation.Matched)
	assert.Equal(t, []string{"X2"}, result.Reconciliation.OnlyA)
	assert.Equal(t, []string{"X9"}, result.Reconciliation.OnlyB)
	require.Len(t, result.Reconciliation.Conflicts, 1)
	assert.Equal(t, "X1", result.Reconciliation.Conflicts[0].CaseID)
}

func TestNormalize_DegradedFields(t *testing.T) {
	table := &fetcher.Table{
		Source: "leads.csv",
		Header: []string{"MCN", "Client"},
		Rows:   [][]string{{"M1", "Acme"}},
	}
	norm, err := testPipeline().Normalize(context.Background(), table, SourceLeads, time.Now())
	require.NoError(t, err)

	assert.False(t, norm.Available.Has(model.FieldCreatedTime))
	rec := norm.Records[0]
	assert.Empty(t, rec.Dates)
	assert.False(t, rec.Metrics.NotYetAssigned, "no creation column → flag stays unset")
	assert.Equal(t, "Not Completed", rec.Metrics.BucketLabel)
}

func TestNormalize_CountsCoercions(t *testing.T) {
	table := leadsTable(
		[]string{"M1", "Acme", "A", "garbage", "", "", "01/01/2099", "", ""},
		[]string{"M2", "Acme", "A", "01/01/2024", "", "", "", "", ""},
	)
	norm, err := testPipeline().Normalize(context.Background(), table, SourceLeads, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	created := norm.DateStats[model.FieldCreatedTime]
	require.NotNil(t, created)
	assert.Equal(t, 1, created.Parsed)
	assert.Equal(t, 1, created.Unparseable)

	completion := norm.DateStats[model.FieldCompletionDate]
	require.NotNil(t, completion)
	assert.Equal(t, 1, completion.Future)

	// The bad-date row is retained, not rejected.
	assert.Len(t, norm.Records, 2)
	assert.False(t, norm.Records[0].HasDate(model.FieldCreatedTime))
}

func TestNormalize_Memoized(t *testing.T) {
	p := testPipeline()
	table := leadsTable([]string{"M1", "Acme", "A", "01/01/2024", "", "", "", "", ""})

	a, err := p.Normalize(context.Background(), table, SourceLeads, time.Now())
	require.NoError(t, err)
	b, err := p.Normalize(context.Background(), table, SourceLeads, time.Now())
	require.NoError(t, err)
	assert.Same(t, a, b, "second call must hit the memo cache")

	// A changed row invalidates the fingerprint.
	table2 := leadsTable([]string{"M2", "Acme", "A", "01/01/2024", "", "", "", "", ""})
	c, err := p.Normalize(context.Background(), table2, SourceLeads, time.Now())
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

func TestNormalize_OrderPreservedAcrossWorkers(t *testing.T) {
	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{caseID(i), "Acme", "A", "01/01/2024", "", "", "", "", ""}
	}
	norm, err := New(config.DefaultReference(), 8).Normalize(context.Background(), leadsTable(rows...), SourceLeads, time.Now())
	require.NoError(t, err)
	require.Len(t, norm.Records, 200)
	for i, rec := range norm.Records {
		assert.Equal(t, caseID(i), rec.CaseID)
		assert.Equal(t, i, rec.Index)
	}
}

func caseID(i int) string {
	return "M" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}
