package trend

import (
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// analyzeTimeline buckets commits by UTC hour. Commits must be in ascending time order.
func analyzeTimeline(commits []schema.CommitRecord) schema.TimelineAnalysis {
	out := schema.TimelineAnalysis{
		Buckets:        []schema.TimeBucket{},
		WeekdayCommits: make(map[string]int),
	}

	for _, c := range commits {
		ts := c.Timestamp.UTC()
		hour := ts.Truncate(time.Hour)
		n := len(out.Buckets)
		if n == 0 || !out.Buckets[n-1].Start.Equal(hour) {
			out.Buckets = append(out.Buckets, schema.TimeBucket{Start: hour})
			n++
		}
		out.Buckets[n-1].Commits++
		out.Buckets[n-1].Changes += c.TotalChanges

		out.WeekdayCommits[ts.Weekday().String()]++
		out.HourOfDayCommits[ts.Hour()]++
	}

	for i, b := range out.Buckets {
		if i == 0 || b.Commits > out.Peak.Commits {
			out.Peak = b
		}
	}

	if len(commits) > 1 {
		if span := spanHours(commits[0].Timestamp, commits[len(commits)-1].Timestamp); span > 0 {
			out.Velocity = round2(float64(len(commits)) / span)
		}
	}
	return out
}
