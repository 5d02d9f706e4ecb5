package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

const (
	endpointGeneric = "generic"
	endpointPinned  = "pinned"

	maxIssueBody = 64 << 10
)

// handleGenerateLink handles GET /api/generate-link?duration=N.
func (h *Handler) handleGenerateLink(w http.ResponseWriter, r *http.Request) {
	s := h.Settings()
	if !h.issueAuthorized(r, s, true) {
		h.writeRaw(w, http.StatusUnauthorized, FailureResponse{Error: "unauthorized"})
		return
	}

	minutes := service.NormalizeDuration(r.URL.Query().Get("duration"), s.DefaultMinutes)
	siteURL := service.ResolveSiteURL(s.SiteURL,
		r.Header.Get("X-Forwarded-Proto"), r.Header.Get("X-Forwarded-Host"), r.Host)

	issued, err := h.issuer.IssueLink(minutes, siteURL)
	if err != nil {
		h.writeIssueError(w, r, err)
		return
	}
	h.recordIssued(r, endpointGeneric, issued)

	h.writeRaw(w, http.StatusOK, GenerateLinkResponse{
		OK:              true,
		Link:            issued.Link,
		DurationMinutes: issued.DurationMinutes,
		ExpiresAt:       issued.ExpiresAt,
	})
}

// handlePinnedLinkGet handles GET /api/generate-link-wix?duration=N.
func (h *Handler) handlePinnedLinkGet(w http.ResponseWriter, r *http.Request) {
	s := h.Settings()
	minutes := service.NormalizeDuration(r.URL.Query().Get("duration"), s.PinnedDefaultMinutes)
	h.issuePinned(w, r, s, minutes)
}

// handlePinnedLinkPost handles POST /api/generate-link-wix with a JSON
// body {"duration": N}. An unreadable body keeps the default duration.
func (h *Handler) handlePinnedLinkPost(w http.ResponseWriter, r *http.Request) {
	s := h.Settings()
	minutes := s.PinnedDefaultMinutes

	var req PinnedLinkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxIssueBody)).Decode(&req); err == nil {
		minutes = durationFromJSON(req.Duration, s.PinnedDefaultMinutes)
	}
	h.issuePinned(w, r, s, minutes)
}

// handlePinnedLinkOptions answers CORS preflight requests.
func (h *Handler) handlePinnedLinkOptions(w http.ResponseWriter, r *http.Request) {
	h.writeRaw(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) issuePinned(w http.ResponseWriter, r *http.Request, s Settings, minutes int) {
	if !h.issueAuthorized(r, s, false) {
		h.writeRaw(w, http.StatusUnauthorized, FailureResponse{Error: "unauthorized"})
		return
	}

	issued, err := h.issuer.IssueLink(minutes, service.ResolvePinnedSiteURL(s.PinnedSiteURL))
	if err != nil {
		h.writeIssueError(w, r, err)
		return
	}
	h.recordIssued(r, endpointPinned, issued)

	h.writeRaw(w, http.StatusOK, PinnedLinkResponse{
		OK:              true,
		Link:            issued.Link,
		Result:          issued.Link,
		DurationMinutes: issued.DurationMinutes,
	})
}

// issueAuthorized checks the optional issuer API key. The admin cookie is
// accepted in its place when allowCookie is set.
func (h *Handler) issueAuthorized(r *http.Request, s Settings, allowCookie bool) bool {
	if s.IssuerAPIKey == "" {
		return true
	}
	if bearer := bearerToken(r); bearer != "" && token.Equal(bearer, s.IssuerAPIKey) {
		return true
	}
	if allowCookie && h.admin != nil {
		if c, err := r.Cookie(domain.AdminCookieName); err == nil && h.admin.Authorized(c.Value) {
			return true
		}
	}

	h.logger.Warn("issuer request rejected",
		"request_id", getRequestID(r),
		"client_ip", getClientIP(r),
		"path", r.URL.Path)
	return false
}

func (h *Handler) writeIssueError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrMissingSecret) {
		h.logger.Error("cannot issue link", "request_id", getRequestID(r), "error", err)
		h.writeRaw(w, http.StatusInternalServerError, FailureResponse{Error: "TOKEN_SECRET missing"})
		return
	}
	h.writeRaw(w, errorCodeToHTTPStatus(domain.GetErrorCode(err)), FailureResponse{Error: err.Error()})
}

func (h *Handler) recordIssued(r *http.Request, endpoint string, issued *service.IssuedLink) {
	if h.metrics != nil {
		h.metrics.TokensIssued.WithLabelValues(endpoint).Inc()
	}
	h.logger.Info("link issued",
		"request_id", getRequestID(r),
		"endpoint", endpoint,
		"duration_minutes", issued.DurationMinutes,
		"expires_at", issued.ExpiresAt,
		"client_ip", getClientIP(r))
}

// durationFromJSON accepts a JSON number or a numeric string.
func durationFromJSON(v any, fallback int) int {
	switch d := v.(type) {
	case float64:
		return service.NormalizeDuration(strconv.FormatFloat(d, 'f', -1, 64), fallback)
	case string:
		return service.NormalizeDuration(d, fallback)
	default:
		return fallback
	}
}
