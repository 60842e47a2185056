// Package trend computes time-bucketed activity, contributor and file profiles,
// impact scores and the development phase of a commit set.
package trend

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/commitpulse/schema"
)

// Analyzer produces TrendReports. It holds read-only configuration and is
// safe for concurrent use.
type Analyzer struct {
	weights CategoryWeights
	limits  Limits
	now     func() time.Time
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWeights sets custom category weights for impact scoring.
func WithWeights(weights CategoryWeights) Option {
	return func(a *Analyzer) {
		a.weights = weights
	}
}

// WithLimits sets custom list sizes for the report.
func WithLimits(limits Limits) Option {
	return func(a *Analyzer) {
		a.limits = limits
	}
}

// WithClock sets the clock used for GeneratedAt. Useful for reproducible tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates a trend analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		weights: DefaultWeights(),
		limits:  DefaultLimits(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes a TrendReport. The input order does not matter; an empty
// input yields the empty report instead of an error.
func (a *Analyzer) Analyze(commits []schema.CommitRecord) schema.TrendReport {
	report := schema.TrendReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: a.now().UTC(),
	}
	if len(commits) == 0 {
		return a.emptyReport(report)
	}

	sorted := make([]schema.CommitRecord, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].SHA < sorted[j].SHA
	})

	report.Summary = summarize(sorted)
	report.Timeline = analyzeTimeline(sorted)
	report.Contributors = analyzeContributors(sorted, a.limits.Contributors)
	report.Files = analyzeFiles(sorted, a.limits)
	report.Types = analyzeTypes(sorted)
	report.Impact = a.analyzeImpact(sorted)
	report.Topics = extractTopics(sorted, report.Types.Counts, a.limits.Topics)
	return report
}

func (a *Analyzer) emptyReport(report schema.TrendReport) schema.TrendReport {
	report.Error = schema.NoCommitsMessage
	report.Timeline = schema.TimelineAnalysis{
		Buckets:        []schema.TimeBucket{},
		WeekdayCommits: map[string]int{},
	}
	report.Contributors.Top = []schema.ContributorProfile{}
	report.Files = schema.FileAnalysis{
		Top:         []schema.FileProfile{},
		Extensions:  []schema.NamedTotal{},
		Directories: []schema.NamedTotal{},
	}
	report.Types = schema.TypeAnalysis{
		Counts: map[schema.Category]int{},
		Ratios: map[schema.Category]float64{},
		Daily:  []schema.DailyTypes{},
	}
	report.Impact = schema.ImpactAnalysis{
		RiskLevel: schema.NoChangesRisk,
		Notable:   []schema.NotableCommit{},
	}
	report.Topics = []string{}
	return report
}

// summarize expects commits in ascending time order.
func summarize(commits []schema.CommitRecord) schema.TrendSummary {
	emails := make(map[string]struct{})
	files := make(map[string]struct{})
	var changes int
	for _, c := range commits {
		emails[c.Author.Email] = struct{}{}
		for _, f := range c.Files {
			files[f.Filename] = struct{}{}
		}
		changes += c.TotalChanges
	}
	return schema.TrendSummary{
		TotalCommits:       len(commits),
		TimeSpanHours:      spanHours(commits[0].Timestamp, commits[len(commits)-1].Timestamp),
		UniqueContributors: len(emails),
		FilesAffected:      len(files),
		TotalChanges:       changes,
	}
}

func spanHours(first, last time.Time) float64 {
	return last.Sub(first).Hours()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
