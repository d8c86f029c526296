package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/chase-cli/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func recordWith(dates map[model.Field]time.Time) *model.LeadRecord {
	return &model.LeadRecord{CaseID: "M1", Dates: dates}
}

func TestAgeDays_CreatedToCompleted(t *testing.T) {
	rec := recordWith(map[model.Field]time.Time{
		model.FieldCreatedTime:    day(1),
		model.FieldCompletionDate: day(10),
	})
	age := AgeDays(rec, model.FieldCompletionDate)
	require.NotNil(t, age)
	assert.Equal(t, 9, *age)
}

func TestAgeDays_MissingEndpointIsAbsent(t *testing.T) {
	rec := recordWith(map[model.Field]time.Time{model.FieldCreatedTime: day(1)})
	assert.Nil(t, AgeDays(rec, model.FieldCompletionDate))

	rec = recordWith(map[model.Field]time.Time{model.FieldCompletionDate: day(10)})
	assert.Nil(t, AgeDays(rec, model.FieldCompletionDate))
}

func TestAgeDays_NegativeNotClamped(t *testing.T) {
	rec := recordWith(map[model.Field]time.Time{
		model.FieldCreatedTime:    day(10),
		model.FieldCompletionDate: day(3),
	})
	age := AgeDays(rec, model.FieldCompletionDate)
	require.NotNil(t, age)
	assert.Equal(t, -7, *age)
}

func TestBucket_FloorDivision(t *testing.T) {
	tests := []struct {
		age, want int
	}{
		{0, 0}, {6, 0}, {7, 1}, {13, 1}, {14, 2}, {9, 1},
		{-1, -1}, {-7, -1}, {-8, -2},
	}
	for _, tt := range tests {
		got := Bucket(&tt.age)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, "Bucket(%d)", tt.age)
	}
	assert.Nil(t, Bucket(nil))
}

func TestBucketLabel(t *testing.T) {
	age := func(n int) *int { return &n }
	assert.Equal(t, "Not Completed", BucketLabel(nil))
	assert.Equal(t, "Week 1", BucketLabel(age(0)))
	assert.Equal(t, "Week 1", BucketLabel(age(6)))
	assert.Equal(t, "Week 2", BucketLabel(age(9)))
	assert.Equal(t, "Before Creation", BucketLabel(age(-3)))
}

func TestDerive_PresenceFlags(t *testing.T) {
	rec := recordWith(map[model.Field]time.Time{
		model.FieldCreatedTime:  day(1),
		model.FieldAssignedDate: day(2),
		model.FieldUploadDate:   day(5),
	})
	m := Derive(rec)
	assert.True(t, m.Assigned)
	assert.True(t, m.Uploaded)
	assert.False(t, m.Approved)
	assert.False(t, m.Denied)
	assert.False(t, m.Completed)
	assert.False(t, m.NotYetAssigned)
	assert.Nil(t, m.CompletionAgeDays)
	assert.Equal(t, "Not Completed", m.BucketLabel)
}

func TestDerive_NotYetAssigned(t *testing.T) {
	m := Derive(recordWith(map[model.Field]time.Time{model.FieldCreatedTime: day(1)}))
	assert.True(t, m.NotYetAssigned)

	// No creation timestamp → flag stays unset even without assignment.
	m = Derive(recordWith(map[model.Field]time.Time{}))
	assert.False(t, m.NotYetAssigned)
}

func TestDerive_EndToEndScenario(t *testing.T) {
	// created 01/01/2024, completed 10/01/2024 → age 9, bucket 1 (Week 2).
	rec := recordWith(map[model.Field]time.Time{
		model.FieldCreatedTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		model.FieldCompletionDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	m := Derive(rec)
	require.NotNil(t, m.CompletionAgeDays)
	assert.Equal(t, 9, *m.CompletionAgeDays)
	require.NotNil(t, m.WeekBucket)
	assert.Equal(t, 1, *m.WeekBucket)
	assert.Equal(t, "Week 2", m.BucketLabel)
}
