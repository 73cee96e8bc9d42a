package quoter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tondexlabs/swap-engine/internal/domain"
	"github.com/tondexlabs/swap-engine/internal/metrics"
)

// Cache holds issued quotes until they expire or are consumed. A plain
// mutex-guarded map: the working set is bounded by quote TTL times issue
// rate, and the sweep keeps it from accumulating dead entries.
type Cache struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote
	stop   chan struct{}
	once   sync.Once
}

func NewCache(sweepInterval time.Duration) *Cache {
	c := &Cache{
		quotes: make(map[string]*domain.Quote),
		stop:   make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

func (c *Cache) Put(q *domain.Quote) {
	c.mu.Lock()
	c.quotes[q.ID] = q
	size := len(c.quotes)
	c.mu.Unlock()
	metrics.QuoteCacheSize.Set(float64(size))
}

// Get returns the quote without removing it. Expiry is the caller's concern:
// an expired entry is still returned so the caller can answer "expired"
// instead of "unknown" until the sweep collects it.
func (c *Cache) Get(id string) (*domain.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[id]
	return q, ok
}

// Remove deletes a consumed quote so it cannot be executed twice.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	delete(c.quotes, id)
	size := len(c.quotes)
	c.mu.Unlock()
	metrics.QuoteCacheSize.Set(float64(size))
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// Close stops the background sweep. Safe to call more than once.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if swept := c.sweep(now); swept > 0 {
				log.Debug().Int("count", swept).Msg("[quoter] swept expired quotes")
			}
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	swept := 0
	for id, q := range c.quotes {
		if q.IsExpired(now) {
			delete(c.quotes, id)
			swept++
		}
	}
	if swept > 0 {
		metrics.QuotesExpired.Add(float64(swept))
		metrics.QuoteCacheSize.Set(float64(len(c.quotes)))
	}
	return swept
}
