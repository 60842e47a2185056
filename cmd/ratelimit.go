package cmd

import (
	"github.com/huangsam/commitpulse/core"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// rateLimitCmd shows the remaining request budget of a remote source.
var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show the remaining GitHub API request budget.",
	Long: `Query the commit source for its remaining request budget and reset time.

Only remote sources have a budget, so this requires --source github.

Examples:
  GITHUB_TOKEN=... commitpulse ratelimit --source github --repos org/app`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRateLimit(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot read rate limit", err)
		}
	},
}
