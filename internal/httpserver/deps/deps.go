package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swooby/swoo.by/internal/geo"
	"github.com/swooby/swoo.by/internal/index"
	"github.com/swooby/swoo.by/internal/logger"
	"github.com/swooby/swoo.by/internal/render"
	redisstore "github.com/swooby/swoo.by/internal/store/redis"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time     // for testing, defaults to time.Now
	AllowedHosts    []string             // Host headers allowed to reach the gateway (empty = any)
	AllowedCIDRS    []string             // IPs allowed to access healthz/readyz/infra endpoints
	TrustProxy      bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedirectSource  string               // Where the redirect table was loaded from (path or s3:// URI)
	Table           *index.Table         // Immutable redirect table
	Geo             *geo.Resolver        // Cached client IP geolocation
	GeoSources      []string             // Lookup chain order, for /infra
	Renderer        *render.Renderer     // Redirect / not-found responses and event logging
	RedisClient     *redis.Client        // nil when the shared geo cache is disabled
	GeoStore        *redisstore.GeoStore // nil when the shared geo cache is disabled
	RateLimitBurst  int                  // per-IP bucket size on the gateway
	RateLimitPerMin int                  // per-IP refill on the gateway
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
