package index

import (
	"sort"
	"time"

	"github.com/swooby/swoo.by/internal/domain"
)

// Table is the immutable trigger path -> destination lookup.
// It is safe for concurrent reads without locking.
type Table struct {
	routes   map[string]string
	loadedAt time.Time
}

// NewTable indexes routes by their normalized path. Later routes replace
// earlier ones with the same path; conflict handling happens upstream.
func NewTable(routes []*domain.Route) *Table {
	m := make(map[string]string, len(routes))
	for _, r := range routes {
		m[domain.NormalizePath(r.Path)] = r.Destination
	}
	return &Table{
		routes:   m,
		loadedAt: time.Now(),
	}
}

// Lookup finds the destination for an already normalized path.
// Matching is exact: no prefixes, wildcards or case folding.
func (t *Table) Lookup(path string) (string, bool) {
	dest, ok := t.routes[path]
	return dest, ok
}

// Count returns the number of trigger paths.
func (t *Table) Count() int {
	return len(t.routes)
}

// Destinations returns the number of distinct destination URLs.
func (t *Table) Destinations() int {
	seen := make(map[string]struct{}, len(t.routes))
	for _, d := range t.routes {
		seen[d] = struct{}{}
	}
	return len(seen)
}

// Paths returns every trigger path, sorted.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.routes))
	for p := range t.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}
