package trend

import (
	"github.com/huangsam/commitpulse/schema"
)

const dayLayout = "2006-01-02"

// analyzeTypes computes the category histogram, ratios, daily counts and phase.
// Commits must be in ascending time order.
func analyzeTypes(commits []schema.CommitRecord) schema.TypeAnalysis {
	out := schema.TypeAnalysis{
		Counts: make(map[schema.Category]int),
		Ratios: make(map[schema.Category]float64),
		Daily:  []schema.DailyTypes{},
	}

	for _, c := range commits {
		out.Counts[c.Category]++

		day := c.Timestamp.UTC().Format(dayLayout)
		n := len(out.Daily)
		if n == 0 || out.Daily[n-1].Day != day {
			out.Daily = append(out.Daily, schema.DailyTypes{Day: day, Counts: make(map[schema.Category]int)})
			n++
		}
		out.Daily[n-1].Counts[c.Category]++
	}

	if total := len(commits); total > 0 {
		for cat, n := range out.Counts {
			out.Ratios[cat] = float64(n) / float64(total)
		}
	}
	out.Phase = DevelopmentPhase(out.Ratios)
	return out
}

// DevelopmentPhase labels a window from its category ratios.
func DevelopmentPhase(ratios map[schema.Category]float64) schema.DevelopmentPhase {
	feature := ratios[schema.FeatureCategory]
	bugfix := ratios[schema.BugfixCategory]
	refactor := ratios[schema.RefactorCategory]

	switch {
	case feature > 0.4:
		return schema.ActiveDevelopment
	case bugfix > 0.5:
		return schema.Stabilization
	case refactor > 0.3:
		return schema.Maintenance
	case feature > 0.2 && bugfix > 0.2:
		return schema.BalancedDevelopment
	default:
		return schema.MixedActivity
	}
}
