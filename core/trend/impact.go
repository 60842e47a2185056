package trend

import (
	"sort"

	"github.com/huangsam/commitpulse/schema"
	"gonum.org/v1/gonum/stat"
)

const (
	highImpactThreshold   = 0.7
	mediumImpactThreshold = 0.4

	// tierEpsilon absorbs float addition error so 0.3+0.4 still reaches 0.7.
	tierEpsilon = 1e-9
)

// Score returns the impact of a single commit in [0, 1].
func (a *Analyzer) Score(c schema.CommitRecord) float64 {
	var score float64

	switch files := c.FilesCount(); {
	case files > 10:
		score += 0.3
	case files > 5:
		score += 0.2
	case files > 1:
		score += 0.1
	}

	switch {
	case c.TotalChanges > 500:
		score += 0.3
	case c.TotalChanges > 100:
		score += 0.2
	case c.TotalChanges > 20:
		score += 0.1
	}

	score += a.weights.For(c.Category)
	if c.Breaking {
		score += 0.2
	}
	if c.Security {
		score += 0.2
	}

	return min(max(score, 0), 1)
}

// Tier buckets an unrounded impact score.
func Tier(score float64) schema.ImpactTier {
	switch {
	case score+tierEpsilon >= highImpactThreshold:
		return schema.HighImpact
	case score+tierEpsilon >= mediumImpactThreshold:
		return schema.MediumImpact
	default:
		return schema.LowImpact
	}
}

// RiskLevel assesses a commit set from its breaking, security and high-impact ratios.
func RiskLevel(total, breaking, security, highImpact int) schema.RiskLevel {
	if total == 0 {
		return schema.NoChangesRisk
	}
	n := float64(total)
	breakingRatio := float64(breaking) / n
	securityRatio := float64(security) / n
	highRatio := float64(highImpact) / n

	switch {
	case breakingRatio > 0.1 || securityRatio > 0.2:
		return schema.HighRisk
	case highRatio > 0.3 || breakingRatio > 0:
		return schema.MediumRisk
	default:
		return schema.LowRisk
	}
}

type scoredCommit struct {
	commit schema.CommitRecord
	score  float64
}

// analyzeImpact scores every commit and picks the notable ones.
func (a *Analyzer) analyzeImpact(commits []schema.CommitRecord) schema.ImpactAnalysis {
	out := schema.ImpactAnalysis{Notable: []schema.NotableCommit{}}

	scored := make([]scoredCommit, 0, len(commits))
	scores := make([]float64, 0, len(commits))
	var breaking, security int
	for _, c := range commits {
		s := a.Score(c)
		scored = append(scored, scoredCommit{commit: c, score: s})
		scores = append(scores, s)

		switch Tier(s) {
		case schema.HighImpact:
			out.HighImpact++
		case schema.MediumImpact:
			out.MediumImpact++
		default:
			out.LowImpact++
		}
		if c.Breaking {
			breaking++
		}
		if c.Security {
			security++
		}
	}

	out.Security, out.Breaking = security, breaking
	out.RiskLevel = RiskLevel(len(commits), breaking, security, out.HighImpact)
	if len(scores) > 0 {
		out.AverageScore = round2(stat.Mean(scores, nil))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].commit.Timestamp.After(scored[j].commit.Timestamp)
	})
	for _, sc := range truncate(scored, a.limits.Notable) {
		out.Notable = append(out.Notable, schema.NotableCommit{
			ShortSHA: sc.commit.ShortSHA(),
			Message:  sc.commit.FirstLine(a.limits.NotableMessage),
			Score:    round2(sc.score),
			Impact:   Tier(sc.score),
			Category: sc.commit.Category,
		})
	}
	return out
}
