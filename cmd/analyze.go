package cmd

import (
	"github.com/huangsam/commitpulse/core"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full collection and trend analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo...]",
	Short: "Collect, classify and analyze recent commits across branches.",
	Long: `Collect recent commits from the branches of one or more repositories,
classify each commit, remove duplicates seen on several branches and report trends.

The report covers:
- Commit type mix and the development phase it suggests
- Activity timeline, velocity and peak hour
- Top contributors and most changed files
- Impact scores, notable commits and an overall risk level
- Human readable insights

Examples:
  # Analyze the last 24 hours of the current repository
  commitpulse analyze

  # Analyze a week of two GitHub repositories
  GITHUB_TOKEN=... commitpulse analyze --source github --lookback "7 days" org/api org/web

  # Only scan two branches and ignore vendored code
  commitpulse analyze --branches main,release --exclude vendor/

  # Export for dashboards
  commitpulse analyze --output parquet --output-file commits.parquet
  commitpulse analyze --output html --output-file report.html`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalysis(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run commit analysis", err)
		}
	},
}
