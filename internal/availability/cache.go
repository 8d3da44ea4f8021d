package availability

import (
	"context"
	"sync"
	"time"

	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

// Cache holds recent availability results keyed by (date, serviceID).
// Writes are last-write-wins; a slow refresh can overwrite a newer entry,
// which matches the polling model this replaces.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	result  *Result
	savedAt time.Time
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns a fresh cached result, if any.
func (c *Cache) Get(date time.Time, serviceID string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(date, serviceID)]
	if !ok || time.Since(entry.savedAt) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores a result.
func (c *Cache) Put(date time.Time, serviceID string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(date, serviceID)] = cacheEntry{result: result, savedAt: time.Now()}
}

func cacheKey(date time.Time, serviceID string) string {
	return date.Format("2006-01-02") + "|" + serviceID
}

// Warmer re-fetches today's availability for a set of services on a fixed
// interval so the scheduler view answers from a warm cache.
type Warmer struct {
	source     SlotSource
	cache      *Cache
	serviceIDs []string
	branchID   string
	interval   time.Duration
	logger     *logging.Logger
}

// NewWarmer creates a warmer. It does nothing until Run is called.
func NewWarmer(source SlotSource, cache *Cache, serviceIDs []string, branchID string, interval time.Duration, logger *logging.Logger) *Warmer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Warmer{
		source:     source,
		cache:      cache,
		serviceIDs: serviceIDs,
		branchID:   branchID,
		interval:   interval,
		logger:     logger,
	}
}

// Run blocks refreshing the cache until ctx is cancelled.
func (w *Warmer) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *Warmer) warm(ctx context.Context) {
	today := time.Now()
	for _, serviceID := range w.serviceIDs {
		result, err := w.source.Slots(ctx, phorest.AvailabilityRequest{
			Date:      today,
			ServiceID: serviceID,
			BranchID:  w.branchID,
		})
		if err != nil {
			w.logger.Warn("availability warm failed", "error", err, "service_id", serviceID)
			continue
		}
		w.cache.Put(today, serviceID, result)
	}
}
