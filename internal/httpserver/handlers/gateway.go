package handlers

import (
	"net/http"

	"github.com/swooby/swoo.by/internal/domain"
	"github.com/swooby/swoo.by/internal/httpserver/deps"
)

// Gateway answers every request that no other route claimed.
// The client is geo-annotated before dispatch so misses are logged with
// the same detail as redirects.
func Gateway(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := domain.Classify(r)
		geo := d.Geo.Resolve(r.Context(), req.ClientIP)

		if req.Redirectable() {
			if dest, ok := d.Table.Lookup(req.NormalizedPath); ok {
				d.Renderer.Redirect(w, req, geo, dest)
				return
			}
		}
		d.Renderer.NotFound(w, req, geo)
	}
}
