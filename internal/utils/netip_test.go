package utils

import (
	"net/http/httptest"
	"testing"
)

func TestFirstForwardedFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1.2.3.4", "1.2.3.4"},
		{" 1.2.3.4 , 5.6.7.8", "1.2.3.4"},
		{",5.6.7.8", ""},
		{"</script>", "</script>"},
	}
	for _, tt := range tests {
		if got := FirstForwardedFor(tt.in); got != tt.want {
			t.Errorf("FirstForwardedFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")

	if got := ClientIP(r, false); got != "10.0.0.9" {
		t.Errorf("ClientIP(untrusted) = %q, want 10.0.0.9", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.1" {
		t.Errorf("ClientIP(trusted) = %q, want 203.0.113.1", got)
	}

	r.Header.Set("CF-Connecting-IP", "198.51.100.4")
	if got := ClientIP(r, true); got != "198.51.100.4" {
		t.Errorf("ClientIP(cf) = %q, want 198.51.100.4", got)
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"192.168.1.0/24", " 10.0.0.5 ", "bogus", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.77", true},
		{"10.0.0.5", true},
		{"10.0.0.6", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should produce an empty matcher")
	}
}
