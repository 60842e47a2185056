package cmd

import (
	"fmt"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/internal/iocache"
	"github.com/huangsam/commitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads the cache backend settings without the full shared setup.
func cacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations and opens the store.
func cacheSetup() error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, contract.DefaultCacheTTL); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands. This avoids repository and time
// window validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the branch fetch cache (improves performance)",
	Long: `Manage the cache of raw branch fetches that speeds up repeated analyses.

Commitpulse caches the commits fetched for each (source, repository, branch, window)
so that re-running an analysis does not hit git or the GitHub API again.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or None

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Move the cache table schema to a given version

Examples:
  # Check cache status
  commitpulse cache status

  # Clear cache after a force push
  commitpulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached branch fetches",
	Long: `Delete all cached branch fetches from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cache may be stale or corrupted

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes every cache row
For Redis: Deletes every commitpulse key

Examples:
  # Clear SQLite cache (default)
  commitpulse cache clear

  # Clear Redis cache (set connection string via env variable)
  COMMITPULSE_CACHE_BACKEND=redis COMMITPULSE_CACHE_DB_CONNECT="redis://localhost:6379/0" commitpulse cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the branch fetch cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache size

Examples:
  commitpulse cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetCommitStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheMigrateCmd migrates the cache table schema.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the cache table schema",
	Long: `Apply or roll back cache table migrations for SQL backends.

Examples:
  # Migrate to the latest version
  commitpulse cache migrate

  # Roll back to the first version
  commitpulse cache migrate --target-version 1`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.Migrate(cfg.CacheBackend, cfg.CacheDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		iocache.PrintMigrationResult(result)
	},
}
