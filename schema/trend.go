package schema

import "time"

// NoCommitsMessage marks a TrendReport computed over an empty commit set.
const NoCommitsMessage = "No commits to analyze"

// TrendSummary is the headline of a TrendReport.
type TrendSummary struct {
	TotalCommits       int     `json:"total_commits"`
	TimeSpanHours      float64 `json:"time_span_hours"`
	UniqueContributors int     `json:"unique_contributors"`
	FilesAffected      int     `json:"files_affected"`
	TotalChanges       int     `json:"total_changes"`
}

// TimeBucket aggregates commits in one hour.
type TimeBucket struct {
	Start   time.Time `json:"start"`
	Commits int       `json:"commits"`
	Changes int       `json:"changes"`
}

// TimelineAnalysis is the hour-bucketed activity of a commit set.
type TimelineAnalysis struct {
	Buckets          []TimeBucket   `json:"buckets"`
	Peak             TimeBucket     `json:"peak"`
	Velocity         float64        `json:"velocity"`
	WeekdayCommits   map[string]int `json:"weekday_commits"`
	HourOfDayCommits [24]int        `json:"hour_of_day_commits"`
}

// ContributorProfile is the activity of one author, keyed by email.
type ContributorProfile struct {
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Commits         int      `json:"commits"`
	Additions       int      `json:"additions"`
	Deletions       int      `json:"deletions"`
	FilesTouched    int      `json:"files_touched"`
	DominantType    Category `json:"dominant_type"`
	ActiveSpanHours float64  `json:"active_span_hours"`
}

// ContributorAnalysis is the contributor section of a TrendReport.
type ContributorAnalysis struct {
	Top                []ContributorProfile `json:"top"`
	TotalContributors  int                  `json:"total_contributors"`
	CollaborationScore float64              `json:"collaboration_score"`
}

// FileProfile is the activity of one file.
type FileProfile struct {
	Filename     string  `json:"filename"`
	TotalChanges int     `json:"total_changes"`
	Commits      int     `json:"commits"`
	Additions    int     `json:"additions"`
	Deletions    int     `json:"deletions"`
	Contributors int     `json:"contributors"`
	Volatility   float64 `json:"volatility"`
}

// NamedTotal pairs a rollup key (extension, directory) with its summed changes.
type NamedTotal struct {
	Name    string `json:"name"`
	Changes int    `json:"changes"`
}

// FileAnalysis is the file section of a TrendReport.
type FileAnalysis struct {
	Top                []FileProfile `json:"top"`
	Extensions         []NamedTotal  `json:"extensions"`
	Directories        []NamedTotal  `json:"directories"`
	TotalFiles         int           `json:"total_files"`
	MeanChangesPerFile float64       `json:"mean_changes_per_file"`
}

// DailyTypes counts categories for one calendar day (UTC).
type DailyTypes struct {
	Day    string           `json:"day"`
	Counts map[Category]int `json:"counts"`
}

// TypeAnalysis is the category section of a TrendReport.
type TypeAnalysis struct {
	Counts map[Category]int     `json:"counts"`
	Ratios map[Category]float64 `json:"ratios"`
	Daily  []DailyTypes         `json:"daily"`
	Phase  DevelopmentPhase     `json:"development_phase"`
}

// NotableCommit is a high-impact commit worth calling out.
type NotableCommit struct {
	ShortSHA string     `json:"sha"`
	Message  string     `json:"message"`
	Score    float64    `json:"impact_score"`
	Impact   ImpactTier `json:"impact"`
	Category Category   `json:"type"`
}

// ImpactAnalysis is the impact and risk section of a TrendReport.
type ImpactAnalysis struct {
	HighImpact   int             `json:"high_impact"`
	MediumImpact int             `json:"medium_impact"`
	LowImpact    int             `json:"low_impact"`
	AverageScore float64         `json:"average_score"`
	Security     int             `json:"security_updates"`
	Breaking     int             `json:"breaking_changes"`
	RiskLevel    RiskLevel       `json:"risk_assessment"`
	Notable      []NotableCommit `json:"notable_commits"`
}

// TrendReport is the output of the trend analyzer.
type TrendReport struct {
	ReportID     string              `json:"report_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Error        string              `json:"error,omitempty"`
	Summary      TrendSummary        `json:"summary"`
	Timeline     TimelineAnalysis    `json:"timeline"`
	Contributors ContributorAnalysis `json:"contributors"`
	Files        FileAnalysis        `json:"files"`
	Types        TypeAnalysis        `json:"types"`
	Impact       ImpactAnalysis      `json:"impact"`
	Topics       []string            `json:"topics"`
}

// IsEmpty reports whether the report was computed over zero commits.
func (r TrendReport) IsEmpty() bool {
	return r.Summary.TotalCommits == 0
}
