package iocache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
)

// CacheStoreManager holds the store used for raw branch fetches.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	commits      contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCommitStore returns the commit CacheStore.
func (mgr *CacheStoreManager) GetCommitStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.commits
}

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// OpenStore creates the store for a backend without touching the global Manager.
func OpenStore(backend schema.DatabaseBackend, connStr string, ttl time.Duration) (contract.CacheStore, error) {
	if backend == schema.RedisBackend {
		return NewRedisStore(connStr, ttl)
	}
	return NewCacheStore(backend, connStr)
}

// InitStores initializes the global cache manager. It is safe to call more than once.
func InitStores(backend schema.DatabaseBackend, connStr string, ttl time.Duration) error {
	var initErr error
	initOnce.Do(func() {
		store, err := OpenStore(backend, connStr, ttl)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize commit caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.commits = store
		Manager.Unlock()
	})
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.commits != nil {
			_ = Manager.commits.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file. Other backends delete their entries.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		store, err := NewCacheStore(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.(*CacheStoreImpl).clear()

	case schema.RedisBackend:
		store, err := NewRedisStore(connStr, 0)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.clear()

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(time.DateTime))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(time.DateTime))
	}
	fmt.Printf("Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}
