package contract

import (
	"testing"
	"time"

	"github.com/huangsam/commitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Source:       "local",
		MaxBranches:  DefaultMaxBranches,
		Lookback:     DefaultLookback,
		Limit:        DefaultResultLimit,
		Workers:      4,
		Output:       "text",
		Precision:    DefaultPrecision,
		Emoji:        "no",
		Color:        "yes",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid defaults", mutate: func(*ConfigRawInput) {}},
		{name: "invalid source", mutate: func(in *ConfigRawInput) { in.Source = "svn" }, expectError: "invalid source"},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: "limit must not be negative"},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: "cannot exceed"},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: "workers"},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: "precision"},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet needs file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file"},
		{name: "bad emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "maybe" }, expectError: "--emoji"},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "" }, expectError: "--color"},
		{name: "zero max branches", mutate: func(in *ConfigRawInput) { in.MaxBranches = 0 }, expectError: "max-branches"},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mongo" }, expectError: "invalid cache backend"},
		{name: "bad ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "forever" }, expectError: "cache-ttl"},
		{name: "bad lookback", mutate: func(in *ConfigRawInput) { in.Lookback = "soon" }, expectError: "lookback"},
		{name: "bad start", mutate: func(in *ConfigRawInput) { in.Start = "yesterday" }, expectError: "start date"},
		{name: "start after end", mutate: func(in *ConfigRawInput) {
			in.Start = "2025-10-02T00:00:00Z"
			in.End = "2025-10-01T00:00:00Z"
		}, expectError: "cannot be after"},
		{name: "github needs repo", mutate: func(in *ConfigRawInput) { in.Source = "github" }, expectError: "at least one repository"},
		{name: "github repo shape", mutate: func(in *ConfigRawInput) {
			in.Source = "github"
			in.Repos = "just-a-name"
		}, expectError: "owner/name"},
		{name: "github valid", mutate: func(in *ConfigRawInput) {
			in.Source = "GitHub"
			in.Repos = "octo/hello, octo/world"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := processAndValidateAt(&Config{}, input, fixedNow)
			if tt.expectError != "" {
				assert.ErrorContains(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, validInput(), fixedNow))

	assert.Equal(t, schema.LocalSource, cfg.Source)
	assert.Equal(t, []string{"."}, cfg.Repos)
	assert.Empty(t, cfg.Branches)
	assert.Equal(t, DefaultMaxBranches, cfg.MaxBranches)
	assert.Equal(t, 24*time.Hour, cfg.Lookback)
	assert.Equal(t, fixedNow, cfg.EndTime)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), cfg.StartTime)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
}

func TestProcessAndValidateRepos(t *testing.T) {
	input := validInput()
	input.Repos = "ignored"
	input.RepoArgs = []string{"/src/a", "/src/b,/src/c"}
	input.Branches = "main, feature ,,"
	input.Exclude = "go.sum,vendor/"

	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, input, fixedNow))
	assert.Equal(t, []string{"/src/a", "/src/b", "/src/c"}, cfg.Repos, "positional args take precedence")
	assert.Equal(t, []string{"main", "feature"}, cfg.Branches)
	assert.Equal(t, []string{"go.sum", "vendor/"}, cfg.Excludes)
}

func TestProcessTimeRange(t *testing.T) {
	tests := []struct {
		name          string
		start, end    string
		lookback      string
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "lookback only",
			lookback:      "3 days",
			expectedStart: fixedNow.Add(-72 * time.Hour),
			expectedEnd:   fixedNow,
		},
		{
			name:          "relative start wins over lookback",
			start:         "2 weeks ago",
			lookback:      "3 days",
			expectedStart: fixedNow.Add(-14 * 24 * time.Hour),
			expectedEnd:   fixedNow,
		},
		{
			name:          "explicit end shifts lookback",
			end:           "2025-10-01",
			lookback:      "12h",
			expectedStart: time.Date(2025, time.September, 30, 12, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.Start, input.End, input.Lookback = tt.start, tt.end, tt.lookback
			cfg := &Config{}
			require.NoError(t, processTimeRange(cfg, input, fixedNow))
			assert.True(t, tt.expectedStart.Equal(cfg.StartTime), "start %s", cfg.StartTime)
			assert.True(t, tt.expectedEnd.Equal(cfg.EndTime), "end %s", cfg.EndTime)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/cache", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/cache", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=cache", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"redis valid", schema.RedisBackend, "redis://localhost:6379/0", false},
		{"rediss valid", schema.RedisBackend, "rediss://:secret@cache.internal:6380", false},
		{"redis wrong scheme", schema.RedisBackend, "http://localhost:6379", true},
		{"redis empty", schema.RedisBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Repos: []string{"a"}, Branches: []string{"main"}, Excludes: []string{"go.sum"}}
	clone := cfg.CloneWithTimeWindow(fixedNow.Add(-time.Hour), fixedNow)
	clone.Repos[0] = "b"
	clone.Branches[0] = "dev"

	assert.Equal(t, "a", cfg.Repos[0])
	assert.Equal(t, "main", cfg.Branches[0])
	assert.True(t, cfg.StartTime.IsZero())
	assert.Equal(t, fixedNow, clone.EndTime)
}

func TestAnalysisWindowTruncation(t *testing.T) {
	cfg := &Config{
		StartTime: time.Date(2025, time.October, 1, 8, 30, 45, 0, time.UTC),
		EndTime:   time.Date(2025, time.October, 1, 9, 0, 59, 0, time.UTC),
	}
	assert.Equal(t, time.Date(2025, time.October, 1, 8, 30, 0, 0, time.UTC), cfg.GetAnalysisStartTime())
	assert.Equal(t, time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC), cfg.GetAnalysisEndTime())
}

func TestRevalidateAnalysis(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	base := func(t *testing.T) *Config {
		t.Helper()
		cfg := &Config{}
		in := validInput()
		in.Source = "github"
		in.Repos = "org/base"
		in.Branches = "main"
		require.NoError(t, processAndValidateAt(cfg, in, now))
		return cfg
	}

	t.Run("no overrides", func(t *testing.T) {
		cfg := base(t)
		before := cfg.Clone()
		require.NoError(t, revalidateAnalysisAt(cfg, "", "", "", "", "", now))
		assert.Equal(t, before, cfg)
	})

	t.Run("repos and branches", func(t *testing.T) {
		cfg := base(t)
		require.NoError(t, revalidateAnalysisAt(cfg, "org/a, org/b", "dev,release", "", "", "", now))
		assert.Equal(t, []string{"org/a", "org/b"}, cfg.Repos)
		assert.Equal(t, []string{"dev", "release"}, cfg.Branches)
		assert.Equal(t, schema.GitHubSource, cfg.Source)
	})

	t.Run("repos keep base branches", func(t *testing.T) {
		cfg := base(t)
		require.NoError(t, revalidateAnalysisAt(cfg, "org/a", "", "", "", "", now))
		assert.Equal(t, []string{"main"}, cfg.Branches)
	})

	t.Run("invalid github repo", func(t *testing.T) {
		cfg := base(t)
		err := revalidateAnalysisAt(cfg, "not-a-repo", "", "", "", "", now)
		assert.ErrorContains(t, err, "owner/name")
	})

	t.Run("lookback", func(t *testing.T) {
		cfg := base(t)
		require.NoError(t, revalidateAnalysisAt(cfg, "", "", "", "", "7 days", now))
		assert.Equal(t, now, cfg.EndTime)
		assert.Equal(t, now.Add(-7*24*time.Hour), cfg.StartTime)
	})

	t.Run("bad lookback", func(t *testing.T) {
		cfg := base(t)
		assert.ErrorContains(t, revalidateAnalysisAt(cfg, "", "", "", "", "soon", now), "invalid lookback")
	})
}
