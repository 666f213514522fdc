package geo

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/swooby/swoo.by/internal/domain"
	"github.com/swooby/swoo.by/internal/logger"
)

// DefaultLookupTimeout bounds a single outbound lookup.
const DefaultLookupTimeout = 2 * time.Second

// Resolver annotates client IPs with geo data, caching results per epoch.
type Resolver struct {
	cache   *Cache
	lookup  LookupFunc
	timeout time.Duration
	logger  logger.Logger
	flights singleflight.Group
}

// NewResolver wires a cache and a lookup source. timeout <= 0 uses DefaultLookupTimeout.
func NewResolver(cache *Cache, lookup LookupFunc, timeout time.Duration, log logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Resolver{
		cache:   cache,
		lookup:  lookup,
		timeout: timeout,
		logger:  log,
	}
}

// Resolve returns the geo data for ip or nil. It never fails: lookup errors
// and timeouts are logged and cached as nil.
func (r *Resolver) Resolve(ctx context.Context, ip string) *domain.GeoInfo {
	if ip == "" || ip == domain.LoopbackIP {
		return nil
	}

	if info, ok := r.cache.Get(ip); ok {
		return info
	}

	v, _, _ := r.flights.Do(ip, func() (interface{}, error) {
		// Waiters share this call, so it must not die with the first caller.
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		start := time.Now()
		info, err := r.lookup(lookupCtx, ip)
		if err != nil {
			r.logger.Warn("geo lookup failed",
				logger.String("ip", ip),
				logger.Duration("elapsed", time.Since(start)),
				logger.Error(err))
			info = nil
		} else {
			r.logger.Debug("geo lookup",
				logger.String("ip", ip),
				logger.String("place", info.Place()),
				logger.Duration("elapsed", time.Since(start)))
		}

		r.cache.Put(ip, info)
		return info, nil
	})

	info, _ := v.(*domain.GeoInfo)
	return info
}

// Cache exposes the underlying cache for status reporting.
func (r *Resolver) Cache() *Cache { return r.cache }
