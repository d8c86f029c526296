package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/chase-cli/internal/model"
)

func TestBuildExportRow(t *testing.T) {
	age := 9
	rec := &model.LeadRecord{
		CaseID: "M100", Client: "Acme", Product: "Brace",
		AgentName: "Sarah Adams", AgentGroup: "Samy Chasers",
		Disposition: "Completed",
		Dates: map[model.Field]time.Time{
			model.FieldCreatedTime:    time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
			model.FieldCompletionDate: time.Date(2024, 1, 10, 16, 0, 0, 0, time.UTC),
		},
		Metrics: model.Metrics{
			CompletionAgeDays: &age,
			BucketLabel:       "Week 2",
		},
	}

	row := buildExportRow(rec)
	assert.Equal(t, "M100", row.CaseID)
	assert.Equal(t, "2024-01-01 09:30:00", row.CreatedTime)
	assert.Equal(t, "2024-01-10 16:00:00", row.CompletionDate)
	assert.Empty(t, row.UploadDate)
	require.NotNil(t, row.CompletionAgeDays)
	assert.Equal(t, 9, *row.CompletionAgeDays)
	assert.Equal(t, "Week 2", row.WeekBucket)
}

func TestBuildExportFilter_DateRange(t *testing.T) {
	exportDateField = "created_time"
	exportFrom = "2024-01-01"
	exportTo = "2024-03-31"
	t.Cleanup(func() { exportDateField, exportFrom, exportTo = "", "", "" })

	f, err := buildExportFilter()
	require.NoError(t, err)
	assert.Equal(t, model.FieldCreatedTime, f.DateField)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.From)
}

func TestBuildExportFilter_RangeWithoutField(t *testing.T) {
	exportFrom = "2024-01-01"
	t.Cleanup(func() { exportFrom = "" })

	_, err := buildExportFilter()
	assert.Error(t, err)
}

func TestBuildExportFilter_UnknownField(t *testing.T) {
	exportDateField = "client"
	exportFrom = "2024-01-01"
	t.Cleanup(func() { exportDateField, exportFrom = "", "" })

	_, err := buildExportFilter()
	assert.Error(t, err)
}
