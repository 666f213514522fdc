package redirects

import (
	"strings"
	"testing"
)

func TestMapRoutes(t *testing.T) {
	cfg := Config{
		{Destination: "https://example.com/target", Paths: Triggers{"/go", "/g/"}},
		{Destination: "https://swooby.com/pv/resume", Paths: Triggers{" /cv ", "/cv/"}},
	}

	routes, conflicts, err := NewMapper().MapRoutes(cfg)
	if err != nil {
		t.Fatalf("MapRoutes() error = %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("unexpected conflicts: %v", conflicts)
	}

	want := map[string]string{
		"/go": "https://example.com/target",
		"/g":  "https://example.com/target",
		"/cv": "https://swooby.com/pv/resume",
	}
	if len(routes) != len(want) {
		t.Fatalf("MapRoutes() returned %d routes, want %d", len(routes), len(want))
	}
	for _, r := range routes {
		if want[r.Path] != r.Destination {
			t.Errorf("route %s -> %s, want %s", r.Path, r.Destination, want[r.Path])
		}
	}
	if routes[0].Path != "/go" || routes[2].Path != "/cv" {
		t.Errorf("routes not in source order: %v, %v, %v", routes[0], routes[1], routes[2])
	}
}

func TestMapRoutesConflicts(t *testing.T) {
	cfg := Config{
		{Destination: "https://first.example", Paths: Triggers{"/dup", "/a"}},
		{Destination: "https://second.example", Paths: Triggers{"/dup/"}},
	}

	routes, conflicts, err := NewMapper().MapRoutes(cfg)
	if err != nil {
		t.Fatalf("MapRoutes() error = %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v, want 1", conflicts)
	}
	c := conflicts[0]
	if c.Path != "/dup" || c.Previous != "https://first.example" || c.Winner != "https://second.example" {
		t.Errorf("conflict = %+v", c)
	}
	if !strings.Contains(c.String(), "/dup") {
		t.Errorf("String() = %q", c.String())
	}
	for _, r := range routes {
		if r.Path == "/dup" && r.Destination != "https://second.example" {
			t.Errorf("/dup -> %s, want last destination", r.Destination)
		}
	}
}

func TestMapRoutesErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty", nil},
		{"relative destination", Config{{Destination: "/elsewhere", Paths: Triggers{"/x"}}}},
		{"ftp destination", Config{{Destination: "ftp://files.example/x", Paths: Triggers{"/x"}}}},
		{"javascript destination", Config{{Destination: "javascript:alert(1)", Paths: Triggers{"/x"}}}},
		{"no paths", Config{{Destination: "https://a.example", Paths: Triggers{}}}},
		{"path without slash", Config{{Destination: "https://a.example", Paths: Triggers{"x"}}}},
		{"reserved path", Config{{Destination: "https://a.example", Paths: Triggers{"/healthz/"}}}},
	}

	m := NewMapper("/healthz", "/readyz")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := m.MapRoutes(tt.cfg); err == nil {
				t.Error("MapRoutes() should fail")
			}
		})
	}
}
