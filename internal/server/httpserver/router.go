package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/internal/server/httpserver/handler"
	"github.com/yndnr/ltrgate-go/internal/telemetry/metric"
)

// PinnedLinkRoute is the cross-origin link generation endpoint.
const PinnedLinkRoute = "/api/generate-link-wix"

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Issuer   *service.Issuer
	Verifier *service.Verifier
	Admin    *service.AdminService

	// Metrics records gate, issuing and request metrics. Optional.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// Settings are the initial reloadable handler settings.
	Settings handler.Settings

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// Router is the assembled HTTP handler.
type Router struct {
	http.Handler
	handler *handler.Handler
}

// SetSettings applies reloaded handler settings.
func (rt *Router) SetSettings(s handler.Settings) {
	rt.handler.SetSettings(s)
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> Audit -> Gate -> routes. The pinned link
// route additionally gets permissive CORS.
func NewRouter(cfg *RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New(handler.Config{
		Issuer:   cfg.Issuer,
		Verifier: cfg.Verifier,
		Admin:    cfg.Admin,
		Metrics:  cfg.Metrics,
		Logger:   logger,
		Settings: cfg.Settings,
	})

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.Handle(PinnedLinkRoute, CORS(CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})(h))

	middlewares := []Middleware{
		Recover(logger),
		RequestID(),
	}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(logger, cfg.Metrics))
	}
	middlewares = append(middlewares, Gate(&GateConfig{
		Verifier: cfg.Verifier,
		Admin:    cfg.Admin,
		Metrics:  cfg.Metrics,
		Logger:   logger,
	}))

	return &Router{
		Handler: Chain(mux, middlewares...),
		handler: h,
	}
}
