package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestIPAPIClientLookup(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"Germany","countryCode":"DE","region":"BE",` +
			`"city":"Berlin","lat":52.52,"lon":13.405,"query":"203.0.113.7"}`))
	}))
	defer srv.Close()

	c := NewIPAPIClient(srv.URL+"/json", time.Second)
	info, err := c.Lookup(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if gotPath != "/json/203.0.113.7" {
		t.Errorf("request path = %q, want /json/203.0.113.7", gotPath)
	}
	if info.Country != "Germany" || info.City != "Berlin" {
		t.Errorf("info = %+v", info)
	}
	if info.Raw["countryCode"] != "DE" {
		t.Errorf("raw countryCode = %v, want DE", info.Raw["countryCode"])
	}
	if lat, _ := info.Raw["lat"].(float64); lat != 52.52 {
		t.Errorf("raw lat = %v, want 52.52", info.Raw["lat"])
	}
}

func TestIPAPIClientFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
	}))
	defer srv.Close()

	info, err := NewIPAPIClient(srv.URL, time.Second).Lookup(context.Background(), "10.0.0.1")
	if err != nil || info != nil {
		t.Errorf("Lookup() = (%+v, %v), want (nil, nil)", info, err)
	}
}

func TestIPAPIClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "slow down", http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
		{
			name: "too slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			info, err := NewIPAPIClient(srv.URL, 50*time.Millisecond).Lookup(context.Background(), "203.0.113.7")
			if err == nil {
				t.Errorf("Lookup() = %+v, want error", info)
			}
		})
	}
}

func TestIPAPIClientEscapesIP(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	_, _ = NewIPAPIClient(srv.URL, time.Second).Lookup(context.Background(), "../admin?x=1")
	if strings.Contains(gotPath, "/admin") || !strings.HasPrefix(gotPath, "/") {
		t.Errorf("unescaped path reached server: %q", gotPath)
	}
}
