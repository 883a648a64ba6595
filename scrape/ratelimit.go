package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/docscout"
	"golang.org/x/time/rate"
)

var _ docscout.DomainLimiter = (*DomainLimiter)(nil)

// MaxTrackedDomains is the number of domains tracked before idle limiters
// are evicted.
const MaxTrackedDomains = 1024

// DomainLimiter provides per-domain rate limiting using token buckets, so
// that concurrent scrapes of the same site are spaced out while different
// sites proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second per domain with the given burst. A burst below 1 is treated as 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		if len(d.limiters) >= MaxTrackedDomains {
			d.evictIdle()
		}
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// evictIdle drops limiters whose bucket has refilled. A fresh limiter
// behaves the same as a full one, so eviction never shortens a wait.
// Caller holds mu.
func (d *DomainLimiter) evictIdle() {
	now := time.Now()
	for domain, l := range d.limiters {
		if l.TokensAt(now) >= float64(d.burst) {
			delete(d.limiters, domain)
		}
	}
}

// Len returns the number of domains currently tracked.
func (d *DomainLimiter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}
