// Package classify maps commit messages and changed files to categories and flags.
package classify

import (
	"slices"
	"strings"

	"github.com/huangsam/commitpulse/schema"
)

// CategoryKeywords binds a category to the message tokens that select it.
type CategoryKeywords struct {
	Category schema.Category
	Keywords []string
}

// Rules holds every keyword table used by the classifier.
// A Rules value is copied on construction, so callers may reuse it freely.
type Rules struct {
	// Categories is evaluated in order; the first category with a matching token wins.
	Categories []CategoryKeywords

	// BreakingIndicators are matched case-sensitively against the raw message.
	BreakingIndicators []string

	SecurityKeywords      []string
	SecurityPathFragments []string
	PerformanceKeywords   []string

	// TestPathMarkers and TestFileSuffixes identify test files.
	TestPathMarkers  []string
	TestFileSuffixes []string

	// DocPathMarkers and DocFileSuffixes identify documentation files.
	DocPathMarkers  []string
	DocFileSuffixes []string
}

// DefaultRules returns the built-in keyword tables.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryKeywords{
			{schema.FeatureCategory, []string{"feat:", "feature:", "add:", "new:"}},
			{schema.BugfixCategory, []string{"fix:", "bug:", "bugfix:", "hotfix:"}},
			{schema.SecurityCategory, []string{"security:", "sec:", "vulnerability", "cve"}},
			{schema.PerformanceCategory, []string{"perf:", "performance:", "optimize:", "speed:"}},
			{schema.DocumentationCategory, []string{"docs:", "doc:", "documentation:", "readme"}},
			{schema.RefactorCategory, []string{"refactor:", "refactoring:", "cleanup:", "restructure:"}},
			{schema.TestCategory, []string{"test:", "tests:", "testing:", "spec:"}},
			{schema.StyleCategory, []string{"style:", "format:", "lint:", "prettier:"}},
			{schema.ChoreCategory, []string{"chore:", "build:", "ci:", "deps:"}},
		},
		BreakingIndicators: []string{
			"breaking change", "breaking:", "break:", "major:",
			"BREAKING CHANGE", "BREAKING:", "!:", "major version",
		},
		SecurityKeywords: []string{
			"security", "vulnerability", "cve", "auth", "authentication",
			"authorization", "crypto", "encrypt", "decrypt", "hash", "token",
			"password", "secret", "credential",
		},
		SecurityPathFragments: []string{"auth", "security", "crypto", "password", "token", "credential"},
		PerformanceKeywords: []string{
			"performance", "optimize", "speed", "fast", "slow", "cache",
			"memory", "cpu", "benchmark", "profil", "bottleneck",
		},
		TestPathMarkers:  []string{"test"},
		TestFileSuffixes: []string{".test.js", "_test.py", "_test.go"},
		DocPathMarkers:   []string{"doc"},
		DocFileSuffixes:  []string{".md", ".rst", ".txt"},
	}
}

// clone returns a deep copy so a Classifier never shares slices with its caller.
func (r Rules) clone() Rules {
	out := Rules{
		BreakingIndicators:    slices.Clone(r.BreakingIndicators),
		SecurityKeywords:      lowerAll(r.SecurityKeywords),
		SecurityPathFragments: lowerAll(r.SecurityPathFragments),
		PerformanceKeywords:   lowerAll(r.PerformanceKeywords),
		TestPathMarkers:       lowerAll(r.TestPathMarkers),
		TestFileSuffixes:      lowerAll(r.TestFileSuffixes),
		DocPathMarkers:        lowerAll(r.DocPathMarkers),
		DocFileSuffixes:       lowerAll(r.DocFileSuffixes),
	}
	out.Categories = make([]CategoryKeywords, 0, len(r.Categories))
	for _, ck := range r.Categories {
		out.Categories = append(out.Categories, CategoryKeywords{Category: ck.Category, Keywords: lowerAll(ck.Keywords)})
	}
	return out
}

// IsTestFile reports whether path looks like a test file.
func (r Rules) IsTestFile(path string) bool {
	lower := strings.ToLower(path)
	return containsAny(lower, r.TestPathMarkers) || hasAnySuffix(lower, r.TestFileSuffixes)
}

// IsDocFile reports whether path looks like a documentation file.
func (r Rules) IsDocFile(path string) bool {
	lower := strings.ToLower(path)
	return hasAnySuffix(lower, r.DocFileSuffixes) || containsAny(lower, r.DocPathMarkers)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if suf != "" && strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
