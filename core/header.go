package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/schollz/progressbar/v3"
)

// printAnalysisHeader prints the repositories and window being analyzed.
func printAnalysisHeader(cfg *contract.Config, sourceName string) {
	if cfg.Output != "" && cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return // machine readable output goes to stdout untouched
	}
	bold := color.New(color.Bold).SprintFunc()
	repos := strings.Join(cfg.Repos, ", ")
	if cfg.UseEmojis {
		fmt.Fprintf(os.Stderr, "🔎 Repo: %s (Source: %s)\n", bold(repos), sourceName)
		fmt.Fprintf(os.Stderr, "📅 Range: %s\n", windowLabel(cfg.StartTime, cfg.EndTime))
		return
	}
	fmt.Fprintf(os.Stderr, "Repo: %s (Source: %s)\n", bold(repos), sourceName)
	fmt.Fprintf(os.Stderr, "Range: %s\n", windowLabel(cfg.StartTime, cfg.EndTime))
}

// newFetchProgress creates the branch fetch progress bar shown in text mode.
func newFetchProgress(repo string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("Fetching branches of "+repo),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}
