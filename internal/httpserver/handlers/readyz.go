package handlers

import (
	"net/http"

	"github.com/swooby/swoo.by/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool `json:"ready"`
	Routes int  `json:"routes"`
}

// Readyz reports ready once a non-empty redirect table is loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := 0
		if d.Table != nil {
			n = d.Table.Count()
		}

		status := http.StatusOK
		if n == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: n > 0, Routes: n})
	}
}
