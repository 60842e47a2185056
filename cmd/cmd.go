// Package cmd defines the command-line interface for commitpulse.
package cmd

import (
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(rateLimitCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source", string(schema.LocalSource), "Commit source: local or github")
	rootCmd.PersistentFlags().String("repos", "", "Comma-separated repositories (local paths, or owner/name for github)")
	rootCmd.PersistentFlags().StringP("branches", "b", "", "Comma-separated branches to scan (default: enumerate all)")
	rootCmd.PersistentFlags().String("default-branch", "", "Default branch name (default: detected)")
	rootCmd.PersistentFlags().Int("max-branches", contract.DefaultMaxBranches, "Maximum number of branches to scan per repository")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago (overrides --lookback)")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("lookback", contract.DefaultLookback, "Time window ending at --end (e.g. '24 hours', '7 days', '720h')")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of contributors and files to rank (0 keeps 10 contributors and 20 files)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent branch fetches")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Decorate headers and insights with emojis (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Cache connection string (e.g., user:pass@tcp(host:port)/dbname or redis://host:6379/0)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long cached branch fetches stay valid (default: 7 days)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (prefer the GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum GitHub requests per second")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of classifyCmd to Viper
	classifyCmd.Flags().String("files", "", "Comma-separated paths touched by the commit")
	if err := viper.BindPFlags(classifyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding classify flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
