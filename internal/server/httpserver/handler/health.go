package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/infra/buildinfo"
	"github.com/yndnr/ltrgate-go/internal/telemetry/metric"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

// handleHealth handles GET /api/health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Get().Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /api/ready. The service is not ready while no
// token secret is configured, since every gated page would redirect.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.verifier.HasSecret() {
		h.writeError(w, r, http.StatusServiceUnavailable,
			domain.ErrMissingSecret.Code, domain.ErrMissingSecret.Message, nil)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ReadyResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/metrics.
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s := h.Settings()
	if !s.MetricsEnabled {
		h.handleAPINotFound(w, r)
		return
	}
	if s.MetricsToken != "" && !token.Equal(bearerToken(r), s.MetricsToken) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="metrics"`)
		h.writeError(w, r, http.StatusUnauthorized,
			domain.ErrMetricsTokenInvalid.Code, domain.ErrMetricsTokenInvalid.Message, nil)
		return
	}

	if h.metrics != nil {
		h.metrics.Handler().ServeHTTP(w, r)
		return
	}
	metric.Handler().ServeHTTP(w, r)
}
