package domain

import "testing"

func TestClientLabel(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		geo  *GeoInfo
		want string
	}{
		{"no geo", "203.0.113.7", nil, "203.0.113.7"},
		{"city and country", "203.0.113.7", &GeoInfo{Country: "Germany", City: "Berlin"}, "203.0.113.7 (Berlin, Germany)"},
		{"country only", "203.0.113.7", &GeoInfo{Country: "Japan"}, "203.0.113.7 (Japan)"},
		{"empty geo", "203.0.113.7", &GeoInfo{}, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClientLabel(tt.ip, tt.geo); got != tt.want {
				t.Errorf("ClientLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
