package pipeline

import (
	"sort"
	"time"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/normalize"
)

// Frequency is the time-series aggregation level.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// GroupBy selects the break-down key for aggregate views.
type GroupBy string

const (
	GroupNone   GroupBy = ""
	GroupClient GroupBy = "client"
	GroupAgent  GroupBy = "agent"
	GroupTeam   GroupBy = "team"
)

func groupKey(rec *model.LeadRecord, by GroupBy) string {
	switch by {
	case GroupClient:
		return rec.Client
	case GroupAgent:
		return rec.AgentName
	case GroupTeam:
		return rec.AgentGroup
	default:
		return ""
	}
}

// Summarize computes the headline milestone counts over a record set.
func Summarize(records []*model.LeadRecord) model.Summary {
	s := model.Summary{TotalLeads: len(records)}
	for _, rec := range records {
		if rec.Metrics.Assigned {
			s.Assigned++
		}
		if rec.Metrics.Approved {
			s.Approved++
		}
		if rec.Metrics.Denied {
			s.Denied++
		}
		if rec.Metrics.Uploaded {
			s.Uploaded++
		}
		if rec.Metrics.Completed {
			s.Completed++
		}
	}
	s.NotAssigned = s.TotalLeads - s.Assigned
	return s
}

// TimeSeries counts leads per period on the chosen date field,
// optionally broken down by a grouping key. Rows whose timestamp is
// strictly in the future are excluded from the series and counted in
// the returned excluded total; rows without the date are skipped
// silently (ordinary absence).
func TimeSeries(records []*model.LeadRecord, field model.Field, freq Frequency, by GroupBy, now time.Time) (points []model.TimeSeriesPoint, excludedFuture int) {
	type bucket struct {
		period time.Time
		key    string
	}
	counts := make(map[bucket]int)

	for _, rec := range records {
		t, ok := rec.Date(field)
		if !ok {
			continue
		}
		if normalize.IsFuture(t, now) {
			excludedFuture++
			continue
		}
		b := bucket{period: periodStart(t, freq), key: groupKey(rec, by)}
		counts[b]++
	}

	points = make([]model.TimeSeriesPoint, 0, len(counts))
	for b, n := range counts {
		points = append(points, model.TimeSeriesPoint{Period: b.period, Key: b.key, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Period.Equal(points[j].Period) {
			return points[i].Period.Before(points[j].Period)
		}
		return points[i].Key < points[j].Key
	})
	return points, excludedFuture
}

// periodStart truncates a timestamp to the start of its period. Weeks
// start on Monday.
func periodStart(t time.Time, freq Frequency) time.Time {
	d := normalize.DateOnly(t)
	switch freq {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	default:
		return d
	}
}

// AgeStatsBy computes mean and median completion age per group, sorted
// ascending by median. Records without a completion age are skipped.
func AgeStatsBy(records []*model.LeadRecord, by GroupBy) []model.AgeStats {
	ages := make(map[string][]int)
	for _, rec := range records {
		if rec.Metrics.CompletionAgeDays == nil {
			continue
		}
		key := groupKey(rec, by)
		ages[key] = append(ages[key], *rec.Metrics.CompletionAgeDays)
	}

	out := make([]model.AgeStats, 0, len(ages))
	for key, list := range ages {
		out = append(out, model.AgeStats{
			Group:  key,
			Count:  len(list),
			Mean:   mean(list),
			Median: median(list),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Median != out[j].Median {
			return out[i].Median < out[j].Median
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// BucketDistribution counts records per age-bucket label, ordered
// "Not Completed" first, then "Before Creation", then ascending weeks.
func BucketDistribution(records []*model.LeadRecord) []model.BucketCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	for _, rec := range records {
		label := rec.Metrics.BucketLabel
		counts[label]++
		switch {
		case label == "Not Completed":
			order[label] = -2
		case label == "Before Creation":
			order[label] = -1
		default:
			if rec.Metrics.WeekBucket != nil {
				order[label] = *rec.Metrics.WeekBucket
			}
		}
	}

	out := make([]model.BucketCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, model.BucketCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return order[out[i].Label] < order[out[j].Label]
	})
	return out
}

// TopN returns the n largest lead counts by the given key, descending.
func TopN(records []*model.LeadRecord, by GroupBy, n int) []model.LeaderboardEntry {
	counts := make(map[string]int)
	for _, rec := range records {
		if key := groupKey(rec, by); key != "" {
			counts[key]++
		}
	}
	out := make([]model.LeaderboardEntry, 0, len(counts))
	for key, c := range counts {
		out = append(out, model.LeaderboardEntry{Key: key, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func mean(list []int) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, v := range list {
		sum += v
	}
	return float64(sum) / float64(len(list))
}

func median(list []int) float64 {
	if len(list) == 0 {
		return 0
	}
	sorted := make([]int, len(list))
	copy(sorted, list)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
