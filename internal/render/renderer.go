package render

import (
	"bytes"
	"net/http"
	"time"

	"github.com/swooby/swoo.by/internal/domain"
	"github.com/swooby/swoo.by/internal/logger"
)

// beaconTimeout is how long the page waits for the analytics callback
// before navigating anyway.
const beaconTimeout = time.Second

// Renderer writes the responses of the redirect pipeline.
type Renderer struct {
	mode        domain.RedirectMode
	analyticsID string
	logger      logger.Logger
	now         func() time.Time
}

// New creates a renderer. analyticsID is only used in tracked mode.
func New(mode domain.RedirectMode, analyticsID string, log logger.Logger) *Renderer {
	return &Renderer{
		mode:        mode,
		analyticsID: analyticsID,
		logger:      log,
		now:         time.Now,
	}
}

// Mode returns the configured redirect strategy.
func (rr *Renderer) Mode() domain.RedirectMode { return rr.mode }

// Redirect logs the redirect event and sends the client to dest.
func (rr *Renderer) Redirect(w http.ResponseWriter, req domain.ClientRequest, geo *domain.GeoInfo, dest string) {
	ev := domain.RedirectEvent{
		IP:     req.ClientIP,
		Geo:    geo,
		Method: req.Method,
		From:   req.NormalizedPath,
		To:     dest,
		At:     rr.now(),
	}

	rr.logger.Info("redirect",
		logger.String("client", ev.Client()),
		logger.String("ip", ev.IP),
		logger.String("method", ev.Method),
		logger.String("from", ev.From),
		logger.String("to", ev.To),
		logger.String("mode", rr.mode.String()),
		logger.Time("at", ev.At))

	if rr.mode == domain.ModeTracked {
		rr.tracked(w, ev)
		return
	}
	rr.direct(w, dest)
}

// direct answers 307 Temporary Redirect with no body.
func (rr *Renderer) direct(w http.ResponseWriter, dest string) {
	h := w.Header()
	h.Set("Location", dest)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusTemporaryRedirect)
}

func (rr *Renderer) tracked(w http.ResponseWriter, ev domain.RedirectEvent) {
	var buf bytes.Buffer
	err := trackedPage.Execute(&buf, trackedPageData{
		AnalyticsID:    rr.analyticsID,
		Destination:    ev.To,
		Client:         ev.Client(),
		From:           ev.From,
		TimeoutMillis:  int(beaconTimeout / time.Millisecond),
		FallbackMillis: int(beaconTimeout/time.Millisecond) + 500,
	})
	if err != nil {
		rr.logger.Error("failed to render tracked redirect",
			logger.String("to", ev.To),
			logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("Referrer-Policy", "no-referrer-when-downgrade")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		rr.logger.Debug("failed to write response", logger.Error(err))
	}
}

// NotFound logs the unmatched request and answers 404.
func (rr *Renderer) NotFound(w http.ResponseWriter, req domain.ClientRequest, geo *domain.GeoInfo) {
	rr.logger.Warn("not_found",
		logger.String("client", domain.ClientLabel(req.ClientIP, geo)),
		logger.String("ip", req.ClientIP),
		logger.String("method", req.Method),
		logger.String("path", req.RawPath))

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNotFound)
	if _, err := w.Write([]byte(notFoundBody)); err != nil {
		rr.logger.Debug("failed to write response", logger.Error(err))
	}
}
