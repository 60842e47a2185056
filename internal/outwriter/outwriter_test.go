package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/commitpulse/core/agg"
	"github.com/huangsam/commitpulse/core/classify"
	"github.com/huangsam/commitpulse/core/insight"
	"github.com/huangsam/commitpulse/core/trend"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowEnd = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleResult(t *testing.T) schema.AnalysisResult {
	t.Helper()
	ada := &schema.Person{Name: "Ada", Email: "ada@example.com"}
	bob := &schema.Person{Name: "Bob", Email: "bob@example.com"}
	raws := []schema.RawCommit{
		{
			SHA: "aaaaaaaaaa01", Message: "feat: add login page (#12)", Author: ada,
			Timestamp:   windowEnd.Add(-3 * time.Hour),
			PullRequest: 12,
			Files: []schema.FileChange{
				{Filename: "web/login.go", Additions: 120, Deletions: 4},
				{Filename: "web/login_test.go", Additions: 40},
			},
		},
		{
			SHA: "aaaaaaaaaa02", Message: "fix: nil pointer in session store", Author: bob,
			Timestamp: windowEnd.Add(-2 * time.Hour),
			Files:     []schema.FileChange{{Filename: "web/session.go", Additions: 3, Deletions: 1}},
		},
		{
			SHA: "aaaaaaaaaa03", Message: "docs: describe login flow", Author: ada,
			Timestamp: windowEnd.Add(-time.Hour),
			Files:     []schema.FileChange{{Filename: "README.md", Additions: 10}},
		},
	}
	records := classify.Default().Records(raws, "main")
	coll, err := agg.NewCollection("org/app", windowEnd.Add(-24*time.Hour), windowEnd, records)
	require.NoError(t, err)
	coll.BranchesScanned = []string{"main"}
	coll.BranchesTotal = 1

	report := trend.New(trend.WithClock(func() time.Time { return windowEnd })).Analyze(coll.Commits)
	return schema.AnalysisResult{
		Collection: coll,
		Trends:     report,
		Insights:   insight.Generate(report),
	}
}

func emptyResult(t *testing.T) schema.AnalysisResult {
	t.Helper()
	coll, err := agg.NewCollection("org/app", windowEnd.Add(-time.Hour), windowEnd, nil)
	require.NoError(t, err)
	report := trend.New().Analyze(nil)
	return schema.AnalysisResult{Collection: coll, Trends: report, Insights: insight.Generate(report)}
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		Width:        120,
		Workers:      4,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestWriteAnalysisText(t *testing.T) {
	result := sampleResult(t)
	cfg := textConfig()
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, result, cfg, fmtFloat, fmtInt, 150*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Repository: org/app")
	assert.Contains(t, out, "Branches: 1 scanned of 1")
	assert.Contains(t, out, "Commits: 3  Contributors: 2")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "web/login.go")
	assert.Contains(t, out, "aaaaaaa")
	assert.Contains(t, out, string(result.Collection.Commits[0].Category))
	for _, line := range result.Insights {
		assert.Contains(t, out, line)
	}
	assert.Contains(t, out, "Analysis completed in 150ms with 4 workers. Cache backend: sqlite")
	assert.NotContains(t, out, "📊", "emojis are opt in")
}

func TestWriteAnalysisTextEmojis(t *testing.T) {
	cfg := textConfig()
	cfg.UseEmojis = true
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, sampleResult(t), cfg, fmtFloat, fmtInt, time.Second))
	assert.Contains(t, buf.String(), "📊 Summary")
	assert.Contains(t, buf.String(), "⭐ Notable Commits")
}

func TestWriteAnalysisTextEmpty(t *testing.T) {
	cfg := textConfig()
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysisText(&buf, emptyResult(t), cfg, fmtFloat, fmtInt, time.Second))

	out := buf.String()
	assert.Contains(t, out, schema.NoCommitsMessage)
	assert.NotContains(t, out, "Notable Commits")
	assert.Contains(t, out, "Analysis completed in")
}

func TestWriteCSVResultsForAnalysis(t *testing.T) {
	result := sampleResult(t)
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForAnalysis(&buf, result, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, analysisCSVHeader, records[0])

	// Newest first, like the collection
	assert.Equal(t, "aaaaaaaaaa03", records[1][0])
	assert.Equal(t, "aaaaaaaaaa01", records[3][0])
	assert.Equal(t, "12", records[3][15])
	assert.Equal(t, "", records[1][15])
	assert.Equal(t, "feat: add login page (#12)", records[3][16])
	assert.Equal(t, "164", records[3][12])
}

func TestWriteAnalysisResultJSONFile(t *testing.T) {
	result := sampleResult(t)
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, WriteAnalysisResult(result, cfg, time.Second))

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "collection")
	assert.Contains(t, decoded, "trends")
	assert.Contains(t, decoded, "insights")

	var back schema.AnalysisResult
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, result.Trends.Impact.RiskLevel, back.Trends.Impact.RiskLevel)
	assert.Len(t, back.Collection.Commits, 3)
}

func TestWriteAnalysisResultFormats(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
		file   string
		check  func(t *testing.T, content string)
	}{
		{"csv", schema.CSVOut, "out.csv", func(t *testing.T, content string) {
			assert.True(t, strings.HasPrefix(content, "sha,repository,branch"))
		}},
		{"html", schema.HTMLOut, "out.html", func(t *testing.T, content string) {
			assert.Contains(t, content, "<html")
			assert.Contains(t, content, "Commit Types")
			assert.Contains(t, content, "Activity Timeline")
			assert.Contains(t, content, "Top Contributors")
		}},
		{"text", schema.TextOut, "out.txt", func(t *testing.T, content string) {
			assert.Contains(t, content, "Repository: org/app")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := textConfig()
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, WriteAnalysisResult(sampleResult(t), cfg, time.Second))

			content, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			tt.check(t, string(content))
		})
	}
}

func TestWriteAnalysisResultParquet(t *testing.T) {
	dir := t.TempDir()
	cfg := textConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(dir, "commits.parquet")

	require.NoError(t, WriteAnalysisResult(sampleResult(t), cfg, time.Second))
	assert.FileExists(t, filepath.Join(dir, "commits.parquet"))
	assert.FileExists(t, filepath.Join(dir, "commits_files.parquet"))

	cfg.OutputFile = ""
	assert.Error(t, WriteAnalysisResult(sampleResult(t), cfg, time.Second))
}

func TestFilesParquetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"out.parquet", "out_files.parquet"},
		{"/tmp/run/commits.pq", "/tmp/run/commits_files.pq"},
		{"export", "export_files.parquet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filesParquetPath(tt.in), tt.in)
	}
}

func TestWriteHTMLReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHTMLReport(&buf, emptyResult(t)))
	assert.Contains(t, buf.String(), "commitpulse: org/app")
}

func TestGetMaxTableTextWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
		fixed int
		want  int
	}{
		{"narrow clamps to minimum", 40, 30, 15},
		{"wide clamps to maximum", 300, 30, 70},
		{"in between", 100, 40, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getMaxTableTextWidth(&contract.Config{Width: tt.width}, tt.fixed))
		})
	}
}
