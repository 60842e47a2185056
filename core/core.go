// Package core has the commit analysis pipeline and its orchestration.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/commitpulse/core/classify"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/internal/github"
	"github.com/huangsam/commitpulse/internal/outwriter"
	"github.com/huangsam/commitpulse/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewCommitSource builds the commit source selected by cfg.Source.
func NewCommitSource(cfg *contract.Config) (contract.CommitSource, error) {
	switch cfg.Source {
	case schema.GitHubSource:
		return github.NewSource(cfg.GitHubToken, cfg.RateLimit, github.WithDefaultBranch(cfg.DefaultBranch)), nil
	case schema.LocalSource, "":
		return contract.NewLocalGitSource(contract.NewLocalGitClient(), cfg.DefaultBranch), nil
	default:
		return nil, fmt.Errorf("unsupported commit source: %s", cfg.Source)
	}
}

// GetAnalysisResults runs the full pipeline and returns its result without printing it.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, time.Duration, error) {
	start := time.Now()
	source, err := NewCommitSource(cfg)
	if err != nil {
		return nil, 0, err
	}
	result, err := runAnalysisCore(ctx, cfg, source, mgr)
	if err != nil {
		return nil, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteAnalysis runs the commit analysis and writes the result in the configured format.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteAnalysisResult(*result, cfg, duration)
}

// ClassifyMessage classifies a single commit message with the built-in rules.
func ClassifyMessage(message string, files []string) schema.Classification {
	return classify.Default().Evaluate(message, files)
}

// ExecuteClassify classifies one message and writes the verdict.
func ExecuteClassify(_ context.Context, cfg *contract.Config, message string, files []string) error {
	return outwriter.WriteClassification(message, ClassifyMessage(message, files), cfg)
}

// GetRateLimit reports the remaining request budget of the configured source.
func GetRateLimit(ctx context.Context, cfg *contract.Config) (schema.RateLimitStatus, error) {
	source, err := NewCommitSource(cfg)
	if err != nil {
		return schema.RateLimitStatus{}, err
	}
	limiter, ok := source.(contract.RateLimiter)
	if !ok {
		return schema.RateLimitStatus{}, fmt.Errorf("source %s has no rate limit", source.Name())
	}
	return limiter.RateLimit(ctx)
}

// ExecuteRateLimit prints the rate limit of the configured source.
func ExecuteRateLimit(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	status, err := GetRateLimit(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteRateLimit(status, cfg)
}
