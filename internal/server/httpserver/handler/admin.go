package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
)

const maxLoginBody = 4 << 10

// Login results, used as metric labels.
const (
	loginSuccess     = "success"
	loginInvalid     = "invalid"
	loginRateLimited = "rate_limited"
)

// handleLoginPage handles GET /admin-panel/login.
func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.adminCookieValid(r) {
		http.Redirect(w, r, domain.AdminBaseRoute, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", loginPage{})
}

// handleLogin handles POST /admin-panel/login. A correct code is stored in
// the admin cookie for 24 hours.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	client := getClientIP(r)

	if delay, err := h.admin.AllowLogin(client); err != nil {
		h.recordLogin(loginRateLimited)
		h.logger.Warn("admin login rate limited",
			"request_id", getRequestID(r),
			"client_ip", client,
			"retry_after", delay)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(delay.Seconds())))
		h.render(w, r, http.StatusTooManyRequests, "login.html",
			loginPage{Error: "Trop de tentatives, réessayez plus tard"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", loginPage{Error: "Requête invalide"})
		return
	}

	code := strings.TrimSpace(r.PostForm.Get("code"))
	if err := h.admin.CheckCode(code); err != nil {
		h.recordLogin(loginInvalid)
		h.logger.Warn("admin login failed",
			"request_id", getRequestID(r),
			"client_ip", client,
			"reason", domain.GetErrorCode(err))
		h.render(w, r, http.StatusUnauthorized, "login.html", loginPage{Error: domain.ErrAdminCodeInvalid.Message})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     domain.AdminCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int(domain.AdminCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	h.recordLogin(loginSuccess)
	h.logger.Info("admin login succeeded", "request_id", getRequestID(r), "client_ip", client)

	http.Redirect(w, r, domain.AdminBaseRoute, http.StatusSeeOther)
}

// handleLogout handles POST /admin-panel/logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     domain.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, domain.AdminLoginRoute, http.StatusSeeOther)
}

// handleAdminPanel handles GET /admin-panel. The gate has already checked
// the admin cookie.
func (h *Handler) handleAdminPanel(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin.html", adminPage{
		DefaultMinutes: h.Settings().DefaultMinutes,
	})
}

func (h *Handler) adminCookieValid(r *http.Request) bool {
	if h.admin == nil {
		return false
	}
	c, err := r.Cookie(domain.AdminCookieName)
	return err == nil && h.admin.Authorized(c.Value)
}

func (h *Handler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.AdminLogins.WithLabelValues(result).Inc()
	}
}

func retryAfterSeconds(s float64) int {
	n := int(math.Ceil(s))
	if n < 1 {
		n = 1
	}
	return n
}
