package domain

import "time"

// RedirectEvent describes one served redirect. It is only ever logged.
type RedirectEvent struct {
	IP     string
	Geo    *GeoInfo
	Method string
	From   string
	To     string
	At     time.Time
}

// Client returns the geo-annotated client identifier.
func (e RedirectEvent) Client() string {
	return ClientLabel(e.IP, e.Geo)
}
