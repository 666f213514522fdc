package domain

// Route maps one normalized trigger path to its destination URL.
type Route struct {
	Path        string `json:"path"`
	Destination string `json:"destination"`
}
