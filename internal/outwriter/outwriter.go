// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis writes an analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResult(result, cfg, duration)
}

// WriteClassification writes a single classification verdict.
func (ow *OutWriter) WriteClassification(message string, verdict schema.Classification, cfg *contract.Config) error {
	return WriteClassification(message, verdict, cfg)
}

// WriteRateLimit writes the rate limit status of a remote source.
func (ow *OutWriter) WriteRateLimit(status schema.RateLimitStatus, cfg *contract.Config) error {
	return WriteRateLimit(status, cfg)
}

// terminalWidth returns the width override, else the detected terminal width, else 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// getMaxTableTextWidth calculates the width left for a free text column
// (commit message or file path) once fixedWidth is spent on the other columns.
func getMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedWidth - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
