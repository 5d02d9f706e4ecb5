package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/internal/telemetry/logger"
	"github.com/yndnr/ltrgate-go/internal/telemetry/metric"
)

// Settings are the handler options that may change on configuration reload.
type Settings struct {
	// SiteURL is the configured origin for generated links. Empty means
	// derive it from the request.
	SiteURL string

	// PinnedSiteURL is the origin used by the pinned-origin endpoint.
	PinnedSiteURL string

	// IssuerAPIKey, when set, protects the issuing endpoints.
	IssuerAPIKey string

	DefaultMinutes       int
	PinnedDefaultMinutes int

	MetricsEnabled bool
	MetricsToken   string

	// RootDir is served for gated pages. Empty serves the placeholder page.
	RootDir string
}

// Config holds the handler's collaborators.
type Config struct {
	Issuer   *service.Issuer
	Verifier *service.Verifier
	Admin    *service.AdminService
	Metrics  *metric.Registry
	Logger   *slog.Logger
	Settings Settings
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	issuer   *service.Issuer
	verifier *service.Verifier
	admin    *service.AdminService
	metrics  *metric.Registry
	logger   *slog.Logger
	settings atomic.Pointer[Settings]
	mux      *http.ServeMux
}

// New creates a new Handler.
func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		issuer:   cfg.Issuer,
		verifier: cfg.Verifier,
		admin:    cfg.Admin,
		metrics:  cfg.Metrics,
		logger:   log,
		mux:      http.NewServeMux(),
	}
	h.SetSettings(cfg.Settings)

	h.registerRoutes()
	return h
}

// SetSettings replaces the reloadable settings.
func (h *Handler) SetSettings(s Settings) {
	if s.DefaultMinutes <= 0 {
		s.DefaultMinutes = service.DefaultDurationMinutes
	}
	if s.PinnedDefaultMinutes <= 0 {
		s.PinnedDefaultMinutes = service.PinnedDurationMinutes
	}
	h.settings.Store(&s)
}

// Settings returns the current settings.
func (h *Handler) Settings() Settings {
	return *h.settings.Load()
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	// API
	h.mux.HandleFunc("GET /api/health", h.handleHealth)
	h.mux.HandleFunc("GET /api/ready", h.handleReady)
	h.mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	h.mux.HandleFunc("GET /api/generate-link", h.handleGenerateLink)
	h.mux.HandleFunc("GET /api/generate-link-wix", h.handlePinnedLinkGet)
	h.mux.HandleFunc("POST /api/generate-link-wix", h.handlePinnedLinkPost)
	h.mux.HandleFunc("OPTIONS /api/generate-link-wix", h.handlePinnedLinkOptions)
	h.mux.HandleFunc("GET /api/token/inspect", h.handleInspect)
	h.mux.HandleFunc("GET /api/", h.handleAPINotFound)

	// Admin
	h.mux.HandleFunc("GET /admin-panel/login", h.handleLoginPage)
	h.mux.HandleFunc("POST /admin-panel/login", h.handleLogin)
	h.mux.HandleFunc("POST /admin-panel/logout", h.handleLogout)
	h.mux.HandleFunc("GET /admin-panel", h.handleAdminPanel)

	// Pages
	h.mux.HandleFunc("GET /expired", h.handleExpired)
	h.mux.HandleFunc("GET /", h.handlePage)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	h.writeRaw(w, status, NewResponse(requestID, data))
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	w.Header().Set("X-Error-Code", code)
	h.writeRaw(w, status, NewErrorResponse(requestID, code, message, details))
}

// writeRaw writes v as JSON without the envelope.
func (h *Handler) writeRaw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error(), nil)
		return
	}

	h.logger.Error("internal error", "request_id", getRequestID(r), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, "internal server error", nil)
}

func (h *Handler) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "LG-SYS-4040", "not found", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4050"):
		return http.StatusMethodNotAllowed
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"),
		strings.HasSuffix(code, "-4012"), strings.HasSuffix(code, "-4013"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "LG-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getRequestID returns the ID assigned by the request ID middleware.
func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// getClientIP extracts client IP from request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return strings.Trim(ip, "[]")
}

// bearerToken returns the credential of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// isSecureRequest reports whether the client connection is HTTPS,
// directly or behind a proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
