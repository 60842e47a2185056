package contract

import (
	"fmt"
	"net/url"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/commitpulse/schema"
)

// Default values for configuration.
const (
	DefaultLookback    = "24 hours"
	DefaultResultLimit = 0 // keep the built-in ranking sizes
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultMaxBranches = 10
	DefaultRateLimit   = 10.0
)

// DefaultCacheTTL is how long a cached branch fetch stays valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CacheGranularity aligns analysis windows so repeated runs hit the same cache keys.
const CacheGranularity = time.Minute

// DefaultWorkers is the default number of concurrent branch fetches.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct is the "final, validated" config.
type Config struct {
	Source        schema.SourceKind
	Repos         []string
	Branches      []string // Explicit branch list; empty means enumerate
	DefaultBranch string   // Overrides detection when set
	MaxBranches   int

	StartTime time.Time
	EndTime   time.Time
	Lookback  time.Duration

	ResultLimit int
	Workers     int
	Excludes    []string

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	GitHubToken string // Please use env var as this is plaintext
	RateLimit   float64
	LogLevel    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoArgs []string

	Source         string  `mapstructure:"source"`
	Repos          string  `mapstructure:"repos"`
	Branches       string  `mapstructure:"branches"`
	DefaultBranch  string  `mapstructure:"default-branch"`
	MaxBranches    int     `mapstructure:"max-branches"`
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Lookback       string  `mapstructure:"lookback"`
	Limit          int     `mapstructure:"limit"`
	Workers        int     `mapstructure:"workers"`
	Exclude        string  `mapstructure:"exclude"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Precision      int     `mapstructure:"precision"`
	Width          int     `mapstructure:"width"`
	Emoji          string  `mapstructure:"emoji"`
	Color          string  `mapstructure:"color"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	CacheTTL       string  `mapstructure:"cache-ttl"`
	GitHubToken    string  `mapstructure:"github-token"`
	RateLimit      float64 `mapstructure:"rate-limit"`
	LogLevel       string  `mapstructure:"log-level"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Repos = slices.Clone(c.Repos)
	clone.Branches = slices.Clone(c.Branches)
	clone.Excludes = slices.Clone(c.Excludes)
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// GetAnalysisStartTime returns the configured start time, truncated to the caching granularity.
func (c *Config) GetAnalysisStartTime() time.Time {
	return c.StartTime.UTC().Truncate(CacheGranularity)
}

// GetAnalysisEndTime returns the configured end time, truncated to the caching granularity.
func (c *Config) GetAnalysisEndTime() time.Time {
	return c.EndTime.UTC().Truncate(CacheGranularity)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	return processAndValidateAt(cfg, input, time.Now())
}

func processAndValidateAt(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSourceInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, now); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of cache connection strings.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		u, err := url.Parse(connStr)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") || u.Host == "" {
			return fmt.Errorf("redis connection string must look like redis://host:port/db")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and tuning fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must not be negative and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Excludes = splitList(input.Exclude)
	return nil
}

// validateSourceInputs resolves the commit source, repositories and branch selection.
func validateSourceInputs(cfg *Config, input *ConfigRawInput) error {
	source := input.Source
	if source == "" {
		source = string(schema.LocalSource)
	}
	cfg.Source = schema.SourceKind(strings.ToLower(source))
	if _, ok := schema.ValidSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be local, github", input.Source)
	}

	// Positional arguments take precedence over the repos key
	cfg.Repos = nil
	for _, arg := range input.RepoArgs {
		cfg.Repos = append(cfg.Repos, splitList(arg)...)
	}
	if len(cfg.Repos) == 0 {
		cfg.Repos = splitList(input.Repos)
	}
	if len(cfg.Repos) == 0 {
		if cfg.Source != schema.LocalSource {
			return fmt.Errorf("at least one repository is required for the %s source", cfg.Source)
		}
		cfg.Repos = []string{"."}
	}
	if cfg.Source == schema.GitHubSource {
		for _, repo := range cfg.Repos {
			owner, name, ok := strings.Cut(repo, "/")
			if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
				return fmt.Errorf("invalid GitHub repository %q. must be owner/name", repo)
			}
		}
	}

	cfg.Branches = splitList(input.Branches)
	cfg.DefaultBranch = strings.TrimSpace(input.DefaultBranch)
	if input.MaxBranches <= 0 {
		return fmt.Errorf("max-branches must be greater than 0 (received %d)", input.MaxBranches)
	}
	cfg.MaxBranches = input.MaxBranches

	cfg.GitHubToken = strings.TrimSpace(input.GitHubToken)
	cfg.RateLimit = input.RateLimit
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	return nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := ParseLookbackDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

// processTimeRange resolves the analysis window. An explicit start wins over the lookback.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	lookback := input.Lookback
	if lookback == "" {
		lookback = DefaultLookback
	}
	d, err := ParseLookbackDuration(lookback)
	if err != nil {
		return fmt.Errorf("invalid lookback: %w", err)
	}
	cfg.Lookback = d

	cfg.EndTime = now
	if input.End != "" {
		t, err := ParseTimeInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}

	cfg.StartTime = cfg.EndTime.Add(-cfg.Lookback)
	if input.Start != "" {
		t, err := ParseTimeInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}

	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RevalidateAnalysis applies per request overrides (from MCP tool calls) to an
// already validated config. Empty values keep the base setting.
func RevalidateAnalysis(cfg *Config, repos, branches, start, end, lookback string) error {
	return revalidateAnalysisAt(cfg, repos, branches, start, end, lookback, time.Now())
}

func revalidateAnalysisAt(cfg *Config, repos, branches, start, end, lookback string, now time.Time) error {
	if list := splitList(repos); len(list) > 0 {
		input := &ConfigRawInput{
			Source:        string(cfg.Source),
			Repos:         repos,
			DefaultBranch: cfg.DefaultBranch,
			MaxBranches:   cfg.MaxBranches,
			GitHubToken:   cfg.GitHubToken,
			RateLimit:     cfg.RateLimit,
		}
		if input.MaxBranches <= 0 {
			input.MaxBranches = DefaultMaxBranches
		}
		keepBranches := cfg.Branches
		if err := validateSourceInputs(cfg, input); err != nil {
			return err
		}
		cfg.Branches = keepBranches
	}
	if list := splitList(branches); len(list) > 0 {
		cfg.Branches = list
	}
	if start == "" && end == "" && lookback == "" {
		return nil
	}
	return processTimeRange(cfg, &ConfigRawInput{Start: start, End: end, Lookback: lookback}, now)
}
