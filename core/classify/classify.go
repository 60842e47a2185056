package classify

import (
	"strings"

	"github.com/huangsam/commitpulse/schema"
)

// Classifier assigns categories and flags to commits. It is safe for concurrent use.
type Classifier struct {
	rules Rules
}

// New creates a classifier from the given rules.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules.clone()}
}

// Default creates a classifier with the built-in rules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Rules returns a copy of the classifier's rules.
func (c *Classifier) Rules() Rules {
	return c.rules.clone()
}

// Classify returns the category of a commit. Message tokens always take priority
// over the changed-file heuristics, and the result is never empty.
func (c *Classifier) Classify(message string, files []string) schema.Category {
	lower := strings.ToLower(message)
	for _, ck := range c.rules.Categories {
		if containsAny(lower, ck.Keywords) {
			return ck.Category
		}
	}

	if len(files) > 0 {
		var tests, docs int
		for _, f := range files {
			if c.rules.IsTestFile(f) {
				tests++
			}
			if c.rules.IsDocFile(f) {
				docs++
			}
		}
		switch {
		case 2*tests > len(files):
			return schema.TestCategory
		case 2*docs > len(files):
			return schema.DocumentationCategory
		}
	}
	return schema.OtherCategory
}

// IsBreaking reports whether the raw message carries a breaking-change indicator.
func (c *Classifier) IsBreaking(message string) bool {
	for _, ind := range c.rules.BreakingIndicators {
		if strings.Contains(message, ind) {
			return true
		}
	}
	return false
}

// AffectsSecurity reports whether the message or any changed path is security related.
func (c *Classifier) AffectsSecurity(message string, files []string) bool {
	if containsAny(strings.ToLower(message), c.rules.SecurityKeywords) {
		return true
	}
	for _, f := range files {
		if containsAny(strings.ToLower(f), c.rules.SecurityPathFragments) {
			return true
		}
	}
	return false
}

// AffectsPerformance reports whether the message mentions performance.
// Changed files are not consulted.
func (c *Classifier) AffectsPerformance(message string, _ []string) bool {
	return containsAny(strings.ToLower(message), c.rules.PerformanceKeywords)
}

// IsTestFile reports whether path is a test file under the classifier's rules.
func (c *Classifier) IsTestFile(path string) bool {
	return c.rules.IsTestFile(path)
}

// IsDocFile reports whether path is a documentation file under the classifier's rules.
func (c *Classifier) IsDocFile(path string) bool {
	return c.rules.IsDocFile(path)
}

// Evaluate returns the full verdict for a message and its changed files.
func (c *Classifier) Evaluate(message string, files []string) schema.Classification {
	return schema.Classification{
		Category:    c.Classify(message, files),
		Breaking:    c.IsBreaking(message),
		Security:    c.AffectsSecurity(message, files),
		Performance: c.AffectsPerformance(message, files),
	}
}
