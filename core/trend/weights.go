package trend

import "github.com/huangsam/commitpulse/schema"

// CategoryWeights is the per-category contribution to a commit's impact score.
type CategoryWeights struct {
	Feature       float64
	Bugfix        float64
	Security      float64
	Performance   float64
	Documentation float64
	Refactor      float64
	Test          float64
	Style         float64
	Chore         float64
	Other         float64
}

// DefaultWeights returns the built-in category weights.
func DefaultWeights() CategoryWeights {
	return CategoryWeights{
		Security:      0.4,
		Feature:       0.3,
		Bugfix:        0.2,
		Performance:   0.2,
		Refactor:      0.1,
		Documentation: 0.05,
		Test:          0.05,
		Style:         0.02,
		Chore:         0.02,
		Other:         0.05,
	}
}

// For returns the weight of a category. Unknown categories get the Other weight.
func (w CategoryWeights) For(c schema.Category) float64 {
	switch c {
	case schema.FeatureCategory:
		return w.Feature
	case schema.BugfixCategory:
		return w.Bugfix
	case schema.SecurityCategory:
		return w.Security
	case schema.PerformanceCategory:
		return w.Performance
	case schema.DocumentationCategory:
		return w.Documentation
	case schema.RefactorCategory:
		return w.Refactor
	case schema.TestCategory:
		return w.Test
	case schema.StyleCategory:
		return w.Style
	case schema.ChoreCategory:
		return w.Chore
	default:
		return w.Other
	}
}

// Limits bounds the size of each list in a TrendReport.
type Limits struct {
	Contributors   int
	Files          int
	Extensions     int
	Directories    int
	Notable        int
	NotableMessage int // runes kept from a notable commit's first line
	Topics         int
}

// DefaultLimits returns the built-in report limits.
func DefaultLimits() Limits {
	return Limits{
		Contributors:   10,
		Files:          20,
		Extensions:     10,
		Directories:    10,
		Notable:        5,
		NotableMessage: 100,
		Topics:         10,
	}
}
