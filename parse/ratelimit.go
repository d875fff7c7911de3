package parse

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/rezept"
	"golang.org/x/time/rate"
)

var _ rezept.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles requests per recipe site. Hosts that differ only
// by case or a leading "www." share one token bucket, so chefkoch.de and
// www.chefkoch.de are limited together while a batch spanning several
// sites runs them in parallel.
type DomainLimiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	limit rate.Limit
}

// NewDomainLimiter allows rps requests per second to each site with a burst
// of one. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		sites: make(map[string]*rate.Limiter),
		limit: limit,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}
	return d.limiter(domain).Wait(ctx)
}

// Sites returns the number of sites seen so far.
func (d *DomainLimiter) Sites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sites)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	key := siteKey(domain)

	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.sites[key]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.sites[key] = l
	}
	return l
}

func siteKey(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSuffix(domain, ".")), "www.")
}
