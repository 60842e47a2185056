// Package insight turns a TrendReport into short, deterministic sentences.
package insight

import (
	"fmt"

	"github.com/huangsam/commitpulse/schema"
)

// MaxInsights caps the number of sentences produced for one report.
const MaxInsights = 8

// Options controls how insights are rendered.
type Options struct {
	UseEmojis bool
}

type line struct {
	icon string
	text string
}

// Generate builds insights with the default options.
func Generate(report schema.TrendReport) []string {
	return GenerateWithOptions(report, Options{})
}

// GenerateWithOptions builds at most MaxInsights sentences in a fixed order:
// volume, contributors, file scope, phase, security, breaking and risk.
func GenerateWithOptions(report schema.TrendReport, opts Options) []string {
	if report.IsEmpty() {
		return []string{schema.NoCommitsMessage}
	}

	s := report.Summary
	lines := []line{
		volume(s.TotalCommits),
		contributors(s.UniqueContributors),
		scope(s.FilesAffected),
		phase(report.Types.Phase),
	}
	if n := report.Impact.Security; n > 0 {
		lines = append(lines, line{"🔒", fmt.Sprintf("%d security updates included", n)})
	}
	if n := report.Impact.Breaking; n > 0 {
		lines = append(lines, line{"⚠️", fmt.Sprintf("%d breaking changes detected", n)})
	}
	lines = append(lines, risk(report.Impact.RiskLevel))

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if opts.UseEmojis {
			out = append(out, l.icon+" "+l.text)
		} else {
			out = append(out, l.text)
		}
	}
	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

func volume(commits int) line {
	switch {
	case commits > 20:
		return line{"🚀", fmt.Sprintf("High development activity with %d commits", commits)}
	case commits > 10:
		return line{"📈", fmt.Sprintf("Moderate development activity with %d commits", commits)}
	default:
		return line{"📝", fmt.Sprintf("Light development activity with %d commits", commits)}
	}
}

func contributors(n int) line {
	switch {
	case n > 5:
		return line{"👥", fmt.Sprintf("Strong team collaboration with %d contributors", n)}
	case n > 2:
		return line{"🤝", fmt.Sprintf("Good team collaboration with %d contributors", n)}
	default:
		return line{"🎯", fmt.Sprintf("Focused development by %d contributors", n)}
	}
}

func scope(files int) line {
	switch {
	case files > 50:
		return line{"🔄", fmt.Sprintf("Extensive codebase changes across %d files", files)}
	case files > 20:
		return line{"📁", fmt.Sprintf("Moderate codebase changes across %d files", files)}
	default:
		return line{"🔍", fmt.Sprintf("Targeted changes across %d files", files)}
	}
}

func phase(p schema.DevelopmentPhase) line {
	switch p {
	case schema.ActiveDevelopment:
		return line{"🛠️", "Active feature development phase"}
	case schema.Stabilization:
		return line{"🔧", "Focus on bug fixes and stabilization"}
	case schema.Maintenance:
		return line{"🧹", "Maintenance and refactoring period"}
	case schema.BalancedDevelopment:
		return line{"⚖️", "Balanced development approach"}
	default:
		return line{"🔀", "Mixed development activities"}
	}
}

func risk(r schema.RiskLevel) line {
	switch r {
	case schema.HighRisk:
		return line{"🔴", "High-risk changes, careful deployment recommended"}
	case schema.MediumRisk:
		return line{"🟡", "Medium-risk changes, standard review process"}
	case schema.LowRisk:
		return line{"🟢", "Low-risk changes, safe for deployment"}
	default:
		return line{"📊", "No changes to assess"}
	}
}
