package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/swooby/swoo.by/internal/httpserver/deps"
	"github.com/swooby/swoo.by/internal/httpserver/handlers"
	"github.com/swooby/swoo.by/internal/httpserver/mw"
)

func init() { Register(registerGateway) }

func registerGateway(r chi.Router, d deps.Deps) {
	gw := handlers.Gateway(d)
	guarded := r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			MaxEntries:        100_000,
			TrustProxy:        d.TrustProxy,
		}),
	)
	guarded.Handle("/", gw)
	guarded.Handle("/*", gw)
}
