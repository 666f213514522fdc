package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/swooby/swoo.by/internal/httpserver/deps"
	"github.com/swooby/swoo.by/internal/httpserver/handlers"
	"github.com/swooby/swoo.by/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// Probes are reserved paths and never reach the redirect table.
func registerProbes(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	guarded.Get("/healthz", handlers.Healthz(d))
	guarded.Get("/readyz", handlers.Readyz(d))
	guarded.Get("/infra", handlers.Infra(d))
}
