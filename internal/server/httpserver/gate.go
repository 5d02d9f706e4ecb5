package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/internal/telemetry/metric"
)

// Decision is what the gate requires before a request may proceed.
type Decision int

const (
	// Pass lets the request through unconditionally.
	Pass Decision = iota
	// RequireToken requires a verified ?token= query parameter.
	RequireToken
	// RequireAdminCookie requires the admin credential cookie.
	RequireAdminCookie
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case RequireToken:
		return "require_token"
	case RequireAdminCookie:
		return "require_admin_cookie"
	default:
		return "unknown"
	}
}

// Route is the route class a path was assigned to.
type Route string

const (
	RouteAsset      Route = "asset"
	RouteExpired    Route = "expired"
	RouteAdminLogin Route = "admin_login"
	RouteAdmin      Route = "admin"
	RouteAPI        Route = "api"
	RoutePage       Route = "page"
)

// Gate outcomes, used as metric labels and in the audit log.
const (
	OutcomePass           = "pass"
	OutcomeAllowed        = "allowed"
	OutcomeRedirectExpiry = "redirect_expired"
	OutcomeRedirectLogin  = "redirect_login"
)

var (
	assetPrefixes = []string{"/_next", "/public", "/icons"}
	assetSuffixes = []string{".png", ".ico", ".svg"}
	assetFiles    = []string{"/favicon.ico", "/favicon.png"}
)

// Classify assigns path to a route class. Rules are evaluated in order and
// the first match wins.
func Classify(path string) (Decision, Route) {
	switch {
	case isAsset(path):
		return Pass, RouteAsset
	case strings.HasPrefix(path, domain.ExpiredRoute):
		return Pass, RouteExpired
	case strings.HasPrefix(path, domain.AdminLoginRoute):
		return Pass, RouteAdminLogin
	case strings.HasPrefix(path, domain.AdminBaseRoute):
		return RequireAdminCookie, RouteAdmin
	case strings.HasPrefix(path, domain.APIRoutePrefix):
		return Pass, RouteAPI
	default:
		return RequireToken, RoutePage
	}
}

func isAsset(path string) bool {
	for _, p := range assetPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, s := range assetSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	for _, f := range assetFiles {
		if path == f {
			return true
		}
	}
	return false
}

// GateConfig holds the gate's collaborators.
type GateConfig struct {
	Verifier *service.Verifier
	Admin    *service.AdminService
	Metrics  *metric.Registry
	Logger   *slog.Logger
}

// Gate enforces Classify's decision, redirecting with 307 when the
// required credential is absent or rejected.
func Gate(cfg *GateConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, route := Classify(r.URL.Path)

			outcome := OutcomePass
			switch decision {
			case RequireAdminCookie:
				outcome = OutcomeAllowed
				if !adminCookieValid(cfg.Admin, r) {
					outcome = OutcomeRedirectLogin
				}
			case RequireToken:
				err := cfg.Verifier.Check(r.URL.Query().Get("token"))
				result := service.CheckResult(err)
				if cfg.Metrics != nil {
					cfg.Metrics.Verifications.WithLabelValues(result).Inc()
				}
				outcome = OutcomeAllowed
				if err != nil {
					outcome = OutcomeRedirectExpiry
					if domain.IsDomainError(err, domain.ErrMissingSecret.Code) {
						logger.Error("token secret not configured, rejecting page request",
							"path", r.URL.Path)
					} else {
						logger.Debug("token rejected", "path", r.URL.Path, "result", result)
					}
				}
			}

			if cfg.Metrics != nil {
				cfg.Metrics.GateDecisions.WithLabelValues(string(route), outcome).Inc()
			}
			noteGate(r.Context(), route, outcome)

			switch outcome {
			case OutcomeRedirectLogin:
				http.Redirect(w, r, domain.AdminLoginRoute, http.StatusTemporaryRedirect)
			case OutcomeRedirectExpiry:
				http.Redirect(w, r, domain.ExpiredRoute, http.StatusTemporaryRedirect)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func adminCookieValid(admin *service.AdminService, r *http.Request) bool {
	if admin == nil {
		return false
	}
	c, err := r.Cookie(domain.AdminCookieName)
	if err != nil {
		return false
	}
	return admin.Authorized(c.Value)
}

// gateNote carries the gate's verdict back out to the audit middleware.
type gateNote struct {
	route   Route
	outcome string
}

func withGateNote(ctx context.Context) (context.Context, *gateNote) {
	n := &gateNote{}
	return context.WithValue(ctx, ContextKeyGate, n), n
}

func noteGate(ctx context.Context, route Route, outcome string) {
	if n, ok := ctx.Value(ContextKeyGate).(*gateNote); ok {
		n.route = route
		n.outcome = outcome
	}
}
