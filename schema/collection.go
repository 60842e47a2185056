package schema

import "time"

// ContributorSummary is one entry of a collection's top contributors.
type ContributorSummary struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// FileSummary is one entry of a collection's most changed files.
type FileSummary struct {
	Filename string `json:"filename"`
	Changes  int    `json:"changes"`
	Commits  int    `json:"commits"`
}

// CollectionSummary holds the statistics derived from a collection's commits.
type CollectionSummary struct {
	TotalCommits       int                  `json:"total_commits"`
	TotalAdditions     int                  `json:"total_additions"`
	TotalDeletions     int                  `json:"total_deletions"`
	TotalFilesChanged  int                  `json:"total_files_changed"`
	UniqueContributors int                  `json:"unique_contributors"`
	CommitTypes        map[Category]int     `json:"commit_types"`
	TopContributors    []ContributorSummary `json:"top_contributors"`
	MostChangedFiles   []FileSummary        `json:"most_changed_files"`
	BreakingChanges    int                  `json:"breaking_changes"`
	SecurityUpdates    int                  `json:"security_updates"`
	TimePeriodHours    float64              `json:"time_period_hours"`
	CommitsPerHour     float64              `json:"commits_per_hour"`
}

// CommitCollection is one analysis window of unique commits, newest first.
type CommitCollection struct {
	Repository      string            `json:"repository"`
	Start           time.Time         `json:"start_time"`
	End             time.Time         `json:"end_time"`
	Commits         []CommitRecord    `json:"commits"`
	Summary         CollectionSummary `json:"summary"`
	BranchesScanned []string          `json:"branches_scanned,omitempty"`
	BranchesTotal   int               `json:"branches_total,omitempty"`
	BranchesFailed  []string          `json:"branches_failed,omitempty"`
}

// AnalysisResult is everything produced by one pipeline run.
type AnalysisResult struct {
	Collection CommitCollection `json:"collection"`
	Trends     TrendReport      `json:"trends"`
	Insights   []string         `json:"insights"`
}
