package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// MentorFetcher loads the full mentor directory snapshot from the store
type MentorFetcher func(ctx context.Context) ([]*models.User, error)

const (
	mentorsKey       = "mentors:all"
	cacheCheckPeriod = 10 * time.Second
	maxRetries       = 3
	initialRetryWait = 2 * time.Second
)

// MentorCache holds a TTL snapshot of the mentor directory. Reads never hit
// the store: an expired snapshot is refreshed in the background while stale
// data keeps being served.
type MentorCache struct {
	cache      *gocache.Cache
	fetch      MentorFetcher
	mu         sync.RWMutex
	refreshing bool
	ready      bool
	ttl        time.Duration
}

// NewMentorCache creates a mentor directory cache with the given TTL
func NewMentorCache(fetch MentorFetcher, ttlSeconds int) *MentorCache {
	return &MentorCache{
		cache: gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		fetch: fetch,
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

// Initialize performs the initial synchronous population and starts the
// periodic refresh. Call during startup before accepting requests.
func (mc *MentorCache) Initialize() error {
	logger.Info("Initializing mentor cache...")
	start := time.Now()

	if err := mc.refreshWithRetry(); err != nil {
		logger.Error("Failed to initialize mentor cache", zap.Error(err))
		return err
	}

	mc.mu.Lock()
	mc.ready = true
	mc.mu.Unlock()

	logger.Info("Mentor cache initialized successfully",
		zap.Duration("duration", time.Since(start)))

	go mc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (mc *MentorCache) IsReady() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ready
}

// Get returns the cached mentor snapshot. Returns immediately, even if the
// snapshot is stale; the refresher keeps it current.
func (mc *MentorCache) Get() ([]*models.User, bool) {
	data, found := mc.cache.Get(mentorsKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentors").Inc()
		return nil, false
	}

	mentors, ok := data.([]*models.User)
	if !ok {
		logger.Error("Invalid cache data type for mentor snapshot")
		mc.cache.Delete(mentorsKey)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentors").Inc()
	return mentors, true
}

// Invalidate forces a refresh on the next periodic pass by dropping the
// snapshot. Called after a mentor profile update so the directory converges
// quickly.
func (mc *MentorCache) Invalidate() {
	mc.cache.Delete(mentorsKey)
	go func() {
		if err := mc.refresh(); err != nil {
			logger.Error("Failed to refresh mentor cache after invalidation", zap.Error(err))
		}
	}()
}

func (mc *MentorCache) refresh() error {
	mc.mu.Lock()
	if mc.refreshing {
		mc.mu.Unlock()
		return nil
	}
	mc.refreshing = true
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		mc.refreshing = false
		mc.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mentors, err := mc.fetch(ctx)
	if err != nil {
		return err
	}

	mc.cache.Set(mentorsKey, mentors, gocache.NoExpiration)
	logger.Debug("Mentor cache refreshed", zap.Int("count", len(mentors)))

	return nil
}

func (mc *MentorCache) refreshWithRetry() error {
	var err error
	wait := initialRetryWait

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = mc.refresh(); err == nil {
			return nil
		}
		logger.Warn("Mentor cache refresh failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < maxRetries {
			time.Sleep(wait)
			wait *= 2
		}
	}

	return err
}

func (mc *MentorCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(mc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		if err := mc.refresh(); err != nil {
			logger.Error("Periodic mentor cache refresh failed", zap.Error(err))
		}
	}
}
