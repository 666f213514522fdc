package domain

import (
	"fmt"
	"strings"
)

// RedirectMode selects how matched requests are answered.
type RedirectMode int

const (
	// ModeDirect answers with a 307 Temporary Redirect.
	ModeDirect RedirectMode = iota
	// ModeTracked answers with an HTML page that fires an analytics
	// event and then navigates client-side.
	ModeTracked
)

func (m RedirectMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeTracked:
		return "tracked"
	default:
		return fmt.Sprintf("RedirectMode(%d)", int(m))
	}
}

// ParseRedirectMode accepts "direct" or "tracked" (case-insensitive).
func ParseRedirectMode(s string) (RedirectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "":
		return ModeDirect, nil
	case "tracked":
		return ModeTracked, nil
	default:
		return ModeDirect, fmt.Errorf("unknown redirect mode %q (want direct or tracked)", s)
	}
}
