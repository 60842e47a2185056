package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/commitpulse/schema"
)

// Risk label constants.
const (
	HighValue     = "High"     // High risk
	MediumValue   = "Medium"   // Medium risk
	LowValue      = "Low"      // Low risk
	NoChangeValue = "None"     // Nothing to assess
	BreakingValue = "Breaking" // Breaking commit marker
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgRed, color.Bold)     // HighColor represents standard danger.
	MediumColor   = color.New(color.FgYellow)              // MediumColor represents standard caution, not bold.
	LowColor      = color.New(color.FgGreen)               // LowColor represents a safe signal.
	NoChangeColor = color.New(color.FgCyan)                // NoChangeColor is informational.
	BreakingColor = color.New(color.FgMagenta, color.Bold) // BreakingColor flags breaking commits.
)

// GetRiskLabel returns a plain text label for a risk level.
// This is the core logic used for CSV, JSON, and table printing.
func GetRiskLabel(level schema.RiskLevel) string {
	switch level {
	case schema.HighRisk:
		return HighValue
	case schema.MediumRisk:
		return MediumValue
	case schema.LowRisk:
		return LowValue
	default:
		return NoChangeValue
	}
}

// GetColorRiskLabel returns a colored risk label for console output (table).
func GetColorRiskLabel(level schema.RiskLevel) string {
	text := GetRiskLabel(level)
	switch level {
	case schema.HighRisk:
		return HighColor.Sprint(text)
	case schema.MediumRisk:
		return MediumColor.Sprint(text)
	case schema.LowRisk:
		return LowColor.Sprint(text)
	default:
		return NoChangeColor.Sprint(text)
	}
}

// GetImpactLabel returns the plain impact tier label of a score.
func GetImpactLabel(tier schema.ImpactTier) string {
	switch tier {
	case schema.HighImpact:
		return HighValue
	case schema.MediumImpact:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorImpactLabel returns a colored impact tier label.
func GetColorImpactLabel(tier schema.ImpactTier) string {
	text := GetImpactLabel(tier)
	switch tier {
	case schema.HighImpact:
		return HighColor.Sprint(text)
	case schema.MediumImpact:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// FilterFiles drops the file changes whose path matches an exclude pattern.
func FilterFiles(files []schema.FileChange, excludes []string) []schema.FileChange {
	if len(excludes) == 0 {
		return files
	}
	kept := make([]schema.FileChange, 0, len(files))
	for _, f := range files {
		if !ShouldIgnore(f.Filename, excludes) {
			kept = append(kept, f)
		}
	}
	return kept
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitpulse_cache.db"
	}
	return filepath.Join(homeDir, ".commitpulse_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
