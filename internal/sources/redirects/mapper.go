package redirects

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/swooby/swoo.by/internal/domain"
)

// Conflict records a trigger path listed under more than one destination.
type Conflict struct {
	Path     string
	Previous string
	Winner   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s replaced by %s", c.Path, c.Previous, c.Winner)
}

// Mapper inverts the destination -> paths source into path -> destination routes.
type Mapper struct {
	reserved map[string]struct{}
}

// NewMapper creates a mapper that rejects trigger paths shadowing reserved paths.
func NewMapper(reserved ...string) *Mapper {
	m := &Mapper{reserved: make(map[string]struct{}, len(reserved))}
	for _, p := range reserved {
		m.reserved[domain.NormalizePath(p)] = struct{}{}
	}
	return m
}

// MapRoutes validates the source and inverts it. When a path appears under
// several destinations the last one wins and a Conflict is reported; the
// caller decides whether that is fatal.
func (m *Mapper) MapRoutes(cfg Config) ([]*domain.Route, []Conflict, error) {
	var (
		order     []string
		dest      = make(map[string]string)
		conflicts []Conflict
	)

	for _, entry := range cfg {
		if err := validateDestination(entry.Destination); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", entry.Line, err)
		}
		if len(entry.Paths) == 0 {
			return nil, nil, fmt.Errorf("line %d: destination %q has no trigger paths", entry.Line, entry.Destination)
		}

		for _, raw := range entry.Paths {
			path, err := m.normalize(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", entry.Line, err)
			}

			prev, seen := dest[path]
			switch {
			case !seen:
				order = append(order, path)
			case prev != entry.Destination:
				conflicts = append(conflicts, Conflict{Path: path, Previous: prev, Winner: entry.Destination})
			}
			dest[path] = entry.Destination
		}
	}

	if len(order) == 0 {
		return nil, nil, fmt.Errorf("no redirects found in table")
	}

	routes := make([]*domain.Route, 0, len(order))
	for _, p := range order {
		routes = append(routes, &domain.Route{Path: p, Destination: dest[p]})
	}
	return routes, conflicts, nil
}

func (m *Mapper) normalize(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("trigger path %q must start with /", raw)
	}
	p = domain.NormalizePath(p)
	if _, ok := m.reserved[p]; ok {
		return "", fmt.Errorf("trigger path %q is reserved", raw)
	}
	return p, nil
}

func validateDestination(dest string) error {
	u, err := url.Parse(dest)
	if err != nil {
		return fmt.Errorf("invalid destination %q: %w", dest, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("destination %q must be an absolute http(s) URL", dest)
	}
	return nil
}
