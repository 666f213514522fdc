package domain

import "strings"

// GeoInfo is the coarse location of a client IP. A nil *GeoInfo means
// no annotation is available.
type GeoInfo struct {
	Country string         `json:"country"`
	City    string         `json:"city"`
	Raw     map[string]any `json:"raw,omitempty"`
}

// Place renders "City, Country" using whichever parts are known.
func (g *GeoInfo) Place() string {
	if g == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if c := strings.TrimSpace(g.City); c != "" {
		parts = append(parts, c)
	}
	if c := strings.TrimSpace(g.Country); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

// ClientLabel is the display identifier for a client: the IP, followed by
// the place in parentheses when geo data is available.
func ClientLabel(ip string, geo *GeoInfo) string {
	if place := geo.Place(); place != "" {
		return ip + " (" + place + ")"
	}
	return ip
}
