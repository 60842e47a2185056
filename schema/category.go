package schema

import "fmt"

// Category is the semantic classification of a commit. The set is closed.
type Category string

// All commit categories, in classifier precedence order.
const (
	FeatureCategory       Category = "feature"
	BugfixCategory        Category = "bugfix"
	SecurityCategory      Category = "security"
	PerformanceCategory   Category = "performance"
	DocumentationCategory Category = "documentation"
	RefactorCategory      Category = "refactor"
	TestCategory          Category = "test"
	StyleCategory         Category = "style"
	ChoreCategory         Category = "chore"
	OtherCategory         Category = "other"
)

// AllCategories lists every category in precedence order.
var AllCategories = []Category{
	FeatureCategory,
	BugfixCategory,
	SecurityCategory,
	PerformanceCategory,
	DocumentationCategory,
	RefactorCategory,
	TestCategory,
	StyleCategory,
	ChoreCategory,
	OtherCategory,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case FeatureCategory, BugfixCategory, SecurityCategory, PerformanceCategory, DocumentationCategory,
		RefactorCategory, TestCategory, StyleCategory, ChoreCategory, OtherCategory:
		return true
	default:
		return false
	}
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Classification is the verdict of the classifier for a single message and file list.
type Classification struct {
	Category    Category `json:"commit_type"`
	Breaking    bool     `json:"is_breaking_change"`
	Security    bool     `json:"affects_security"`
	Performance bool     `json:"affects_performance"`
}
