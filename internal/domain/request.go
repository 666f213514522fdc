package domain

import (
	"net/http"
	"strings"

	"github.com/swooby/swoo.by/internal/utils"
)

// LoopbackIP is the client address assumed when no forwarding header is present.
const LoopbackIP = "127.0.0.1"

// ClientRequest is the classified view of an inbound request.
type ClientRequest struct {
	Method         string
	RawPath        string
	NormalizedPath string
	ClientIP       string
	ForwardedFor   string // raw X-Forwarded-For header, empty if absent
}

// Classify extracts the normalized path and client IP from r.
// The client IP is the left-most X-Forwarded-For token, unvalidated,
// or LoopbackIP when the header is missing or empty.
func Classify(r *http.Request) ClientRequest {
	xff := r.Header.Get("X-Forwarded-For")

	ip := utils.FirstForwardedFor(xff)
	if ip == "" {
		ip = LoopbackIP
	}

	raw := r.URL.Path
	if raw == "" {
		raw = "/"
	}

	return ClientRequest{
		Method:         r.Method,
		RawPath:        raw,
		NormalizedPath: NormalizePath(raw),
		ClientIP:       ip,
		ForwardedFor:   xff,
	}
}

// NormalizePath removes a single trailing slash. The root path is kept as "/".
func NormalizePath(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

// Redirectable reports whether the method may be answered with a redirect.
// Everything else goes to the catch-all.
func (c ClientRequest) Redirectable() bool {
	return c.Method == http.MethodGet || c.Method == http.MethodHead
}
