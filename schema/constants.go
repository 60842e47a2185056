package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// SourceKind represents where raw commits are fetched from.
	SourceKind string

	// DevelopmentPhase is a coarse label for the dominant kind of work in a window.
	DevelopmentPhase string

	// RiskLevel is the overall risk assessment of a commit set.
	RiskLevel string

	// ImpactTier buckets a single commit's impact score.
	ImpactTier string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	NoneBackend       DatabaseBackend = "none"
)

// All commit sources supported.
const (
	LocalSource  SourceKind = "local" // default
	GitHubSource SourceKind = "github"
)

// Development phases, in precedence order.
const (
	ActiveDevelopment   DevelopmentPhase = "active_development"
	Stabilization       DevelopmentPhase = "stabilization"
	Maintenance         DevelopmentPhase = "maintenance"
	BalancedDevelopment DevelopmentPhase = "balanced_development"
	MixedActivity       DevelopmentPhase = "mixed_activity"
)

// Risk levels, ordered from least to most severe (NoChanges stands apart).
const (
	NoChangesRisk RiskLevel = "no_changes"
	LowRisk       RiskLevel = "low"
	MediumRisk    RiskLevel = "medium"
	HighRisk      RiskLevel = "high"
)

// Impact tiers.
const (
	HighImpact   ImpactTier = "high"
	MediumImpact ImpactTier = "medium"
	LowImpact    ImpactTier = "low"
)

// MultiRepository is the repository identifier of a combined collection.
const MultiRepository = "multiple"

// DefaultBranchLabel is the placeholder branch label used when a source cannot tell branches apart.
const DefaultBranchLabel = "main"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidSources lists all valid commit sources.
var ValidSources = map[SourceKind]struct{}{
	LocalSource:  {},
	GitHubSource: {},
}

// Severity orders risk levels so that comparisons read naturally.
func (r RiskLevel) Severity() int {
	switch r {
	case HighRisk:
		return 3
	case MediumRisk:
		return 2
	case LowRisk:
		return 1
	default:
		return 0
	}
}
