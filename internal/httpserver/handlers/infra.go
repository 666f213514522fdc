package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/swooby/swoo.by/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool     `json:"ok"`
	RoutesLoaded *int     `json:"routes_loaded,omitempty"`
	Destinations *int     `json:"destinations,omitempty"`
	Source       string   `json:"source,omitempty"`
	LoadedAt     string   `json:"loaded_at,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Entries      *int     `json:"entries,omitempty"`
	Epoch        string   `json:"epoch,omitempty"`
	TTL          string   `json:"ttl,omitempty"`
	Impact       string   `json:"impact,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type infraResponse struct {
	RoutingMode string                     `json:"routing_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"redirects": checkTable(d),
			"geo":       checkGeo(d),
			"redis":     checkRedis(r.Context(), d),
			"renderer": {
				OK:   d.Renderer != nil,
				Mode: rendererMode(d),
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			RoutingMode: determineRoutingMode(components),
			Components:  components,
		})
	}
}

func determineRoutingMode(components map[string]componentStatus) string {
	if table, exists := components["redirects"]; exists {
		if !table.OK || (table.RoutesLoaded != nil && *table.RoutesLoaded == 0) {
			return "critical" // nothing to redirect to
		}
	}

	// Redis only backs the geo cache; losing it costs lookups, not redirects.
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "operational"
}

func checkTable(d deps.Deps) componentStatus {
	if d.Table == nil {
		return componentStatus{OK: false, Error: "table not loaded"}
	}
	routes := d.Table.Count()
	dests := d.Table.Destinations()
	loadedAt := "never"
	if t := d.Table.LoadedAt(); !t.IsZero() {
		loadedAt = t.Format(time.RFC3339)
	}
	return componentStatus{
		OK:           routes > 0,
		RoutesLoaded: &routes,
		Destinations: &dests,
		Source:       d.RedirectSource,
		LoadedAt:     loadedAt,
	}
}

func checkGeo(d deps.Deps) componentStatus {
	if d.Geo == nil {
		return componentStatus{OK: false, Error: "resolver not initialized"}
	}
	cache := d.Geo.Cache()
	entries := cache.Len()
	return componentStatus{
		OK:      true,
		Sources: d.GeoSources,
		Entries: &entries,
		Epoch:   cache.Epoch().Format(time.RFC3339),
		TTL:     cache.TTL().String(),
	}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "shared-geo-cache-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "shared-geo-cache-unavailable",
			Error:  err.Error(),
		}
	}

	status := componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "shared-geo-cache-enabled",
	}
	if d.GeoStore != nil {
		if n, err := d.GeoStore.Count(ctx); err == nil {
			status.Entries = &n
		}
	}
	return status
}

func rendererMode(d deps.Deps) string {
	if d.Renderer == nil {
		return ""
	}
	return d.Renderer.Mode().String()
}
