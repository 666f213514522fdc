package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swooby/swoo.by/internal/domain"
	"github.com/swooby/swoo.by/internal/logger"
)

const target = "https://example.com/target?a=1&b=2"

func request(ip string) domain.ClientRequest {
	return domain.ClientRequest{
		Method:         http.MethodGet,
		RawPath:        "/go/",
		NormalizedPath: "/go",
		ClientIP:       ip,
	}
}

func TestRedirectDirect(t *testing.T) {
	rr := New(domain.ModeDirect, "", logger.New("error", false))
	w := httptest.NewRecorder()

	rr.Redirect(w, request("203.0.113.7"), nil, target)

	if w.Code != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want 307", w.Code)
	}
	if got := w.Header().Get("Location"); got != target {
		t.Errorf("Location = %q, want %q", got, target)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestRedirectTracked(t *testing.T) {
	rr := New(domain.ModeTracked, "G-TEST123", logger.New("error", false))
	w := httptest.NewRecorder()

	geo := &domain.GeoInfo{Country: "Germany", City: "Berlin"}
	rr.Redirect(w, request("203.0.113.7"), geo, "https://example.com/target")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<title>Redirecting to https://example.com/target</title>",
		`var destination = "https://example.com/target";`,
		`"203.0.113.7 (Berlin, Germany)"`,
		`gtag('config', "G-TEST123")`,
		"window.location.replace(destination)",
		"gtag/js?id=G-TEST123",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}
	if w.Header().Get("Location") != "" {
		t.Error("tracked mode must not set Location")
	}
}

func TestRedirectTrackedEscapesClient(t *testing.T) {
	rr := New(domain.ModeTracked, "G-TEST123", logger.New("error", false))
	w := httptest.NewRecorder()

	payload := `</script><script>alert(1)</script>`
	rr.Redirect(w, request(payload), nil, "https://example.com/target")

	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)") {
		t.Fatalf("payload rendered as markup:\n%s", body)
	}
	if strings.Count(body, "</script>") != 2 {
		t.Errorf("expected exactly the page's own two </script> tags:\n%s", body)
	}
	if !strings.Contains(body, `\u003cscript\u003ealert(1)`) {
		t.Errorf("payload not present as an escaped string literal:\n%s", body)
	}
}

func TestRedirectTrackedEscapesDestination(t *testing.T) {
	rr := New(domain.ModeTracked, "G-TEST123", logger.New("error", false))
	w := httptest.NewRecorder()

	rr.Redirect(w, request("203.0.113.7"), nil, `https://example.com/"</script><b>x`)

	body := w.Body.String()
	if strings.Contains(body, "<b>x") {
		t.Errorf("destination rendered as markup:\n%s", body)
	}
}

func TestNotFound(t *testing.T) {
	rr := New(domain.ModeDirect, "", logger.New("error", false))
	w := httptest.NewRecorder()

	rr.NotFound(w, request("203.0.113.7"), nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not Found") {
		t.Errorf("body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}
