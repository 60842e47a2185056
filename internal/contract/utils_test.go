package contract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/commitpulse/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRiskLabel(t *testing.T) {
	tests := []struct {
		level    schema.RiskLevel
		expected string
	}{
		{schema.HighRisk, HighValue},
		{schema.MediumRisk, MediumValue},
		{schema.LowRisk, LowValue},
		{schema.NoChangesRisk, NoChangeValue},
		{"", NoChangeValue},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRiskLabel(tt.level))
			assert.Contains(t, GetColorRiskLabel(tt.level), tt.expected)
		})
	}
}

func TestGetImpactLabel(t *testing.T) {
	assert.Equal(t, HighValue, GetImpactLabel(schema.HighImpact))
	assert.Equal(t, MediumValue, GetImpactLabel(schema.MediumImpact))
	assert.Equal(t, LowValue, GetImpactLabel(schema.LowImpact))
	assert.Contains(t, GetColorImpactLabel(schema.HighImpact), HighValue)
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{"empty excludes", "src/main.go", []string{}, false},
		{"prefix match", "vendor/github.com/lib/file.go", []string{"vendor/"}, true},
		{"suffix match", "dist/bundle.min.js", []string{".min.js"}, true},
		{"glob match basename", "src/file.min.js", []string{"*.min.js"}, true},
		{"substring match", "src/generated/code.go", []string{"generated"}, true},
		{"no match", "src/core/engine.go", []string{"vendor/", "node_modules/", ".min.js"}, false},
		{"blank pattern", "go.sum", []string{"  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIgnore, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestFilterFiles(t *testing.T) {
	files := []schema.FileChange{
		{Filename: "go.sum", Changes: 300},
		{Filename: "main.go", Changes: 4},
		{Filename: "vendor/x/y.go", Changes: 10},
	}

	assert.Equal(t, files, FilterFiles(files, nil))
	assert.Equal(t, []schema.FileChange{{Filename: "main.go", Changes: 4}}, FilterFiles(files, []string{"go.sum", "vendor/"}))
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()
	assert.Contains(t, path, ".commitpulse_cache.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...ep/file.go", TruncatePath("some/deep/file.go", 13))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", " true "} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, got, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		_ = SetLogLevel("warn")
	})

	require.NoError(t, SetLogLevel("warn"))
	LogInfo("hidden", nil)
	LogWarn("branch skipped", errors.New("boom"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "branch skipped")
	assert.Contains(t, buf.String(), "boom")

	require.NoError(t, SetLogLevel("debug"))
	LogDebug("fetching", logrus.Fields{"branch": "main"})
	assert.Contains(t, buf.String(), "branch=main")

	assert.Error(t, SetLogLevel("loud"))
	assert.NoError(t, SetLogLevel(""))
}
