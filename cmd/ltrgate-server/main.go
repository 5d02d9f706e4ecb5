package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/internal/infra/buildinfo"
	"github.com/yndnr/ltrgate-go/internal/infra/confloader"
	"github.com/yndnr/ltrgate-go/internal/infra/shutdown"
	"github.com/yndnr/ltrgate-go/internal/infra/tlsconf"
	"github.com/yndnr/ltrgate-go/internal/server/config"
	"github.com/yndnr/ltrgate-go/internal/server/httpserver"
	"github.com/yndnr/ltrgate-go/internal/server/httpserver/handler"
	"github.com/yndnr/ltrgate-go/internal/telemetry/logger"
	"github.com/yndnr/ltrgate-go/internal/telemetry/metric"
)

// limiterIdle is how long an idle login limiter is kept.
const limiterIdle = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.http.addr)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("ltrgate-server " + buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting ltrgate-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	if cfg.Token.Secret == "" {
		log.Warn("token.secret is not set: link issuing is disabled and every gated page redirects to the expiry page")
	}

	svc := initServices(cfg)

	registry := metric.NewRegistry()
	registry.MustRegister(metric.NewCollector(info.Version, info.GoVersion, svc.Admin.LimiterCount, svc.Admin.IsHashed))

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Issuer:      svc.Issuer,
		Verifier:    svc.Verifier,
		Admin:       svc.Admin,
		Metrics:     registry,
		Logger:      slogLogger,
		Settings:    settingsFrom(cfg),
		EnableAudit: true,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, shutdown.WithLogger(slogLogger))

	// Hooks run in reverse order: the listener stops first.
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	go pruneLimiters(pruneCtx, svc.Admin, slogLogger)
	shutdownHandler.OnShutdown("login limiter pruning", func(context.Context) error {
		stopPrune()
		return nil
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, overrides, cfg, svc, router, slogLogger)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	var reloader *tlsconf.Reloader
	if cfg.Server.HTTP.TLSCertFile != "" {
		reloader, err = tlsconf.NewReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsconf.WithLogger(slogLogger))
		if err != nil {
			return fmt.Errorf("load tls certificate: %w", err)
		}
		if err := reloader.Start(); err != nil {
			log.Warn("certificate hot reload disabled", "error", err)
		}
		shutdownHandler.OnShutdown("certificate reloader", func(context.Context) error {
			return reloader.Stop()
		})
	}

	shutdownHandler.OnShutdown("http server", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", reloader != nil)

		var err error
		if reloader != nil {
			err = httpServer.ListenAndServeTLSConfig(reloader.TLSConfig())
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the optional file, the environment and the
// command line overrides, then validates the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithEnvAliases(config.EnvAliases())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, fmt.Errorf("apply flags: %w", err)
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("apply flags: %w", err)
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger.
// Returns both the logger interface and slog.Logger for components that need it.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: "ltrgate-server",
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)
	return log, logger.Slog(log), nil
}

// Services holds all initialized services.
type Services struct {
	Issuer   *service.Issuer
	Verifier *service.Verifier
	Admin    *service.AdminService
}

func initServices(cfg *config.ServerConfig) *Services {
	return &Services{
		Issuer:   service.NewIssuer(cfg.Token.Secret),
		Verifier: service.NewVerifier(cfg.Token.Secret),
		Admin:    service.NewAdminService(cfg.Admin.Code, cfg.Admin.LoginRateLimit),
	}
}

func settingsFrom(cfg *config.ServerConfig) handler.Settings {
	return handler.Settings{
		SiteURL:              cfg.Site.URL,
		PinnedSiteURL:        cfg.Site.PinnedURL,
		IssuerAPIKey:         cfg.Issuer.APIKey,
		DefaultMinutes:       cfg.Issuer.DefaultMinutes,
		PinnedDefaultMinutes: cfg.Issuer.PinnedDefaultMinutes,
		MetricsEnabled:       cfg.Metrics.Enabled,
		MetricsToken:         cfg.Metrics.Token,
		RootDir:              cfg.Site.RootDir,
	}
}

// watchConfig applies reloadable settings whenever the config file changes.
// Listener, TLS and token secret changes need a restart.
func watchConfig(path string, overrides map[string]any, current *config.ServerConfig,
	svc *Services, router *httpserver.Router, log *slog.Logger) (*confloader.Watcher, error) {

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := watcher.Watch(abs); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		next, err := loadConfig(path, overrides)
		if err != nil {
			log.Error("config reload rejected", "error", err)
			return
		}

		if err := logger.SetLevel(next.Log.Level); err != nil {
			log.Warn("log level not applied", "error", err)
		}
		svc.Admin.SetCode(next.Admin.Code)
		router.SetSettings(settingsFrom(next))

		if next.Token.Secret != current.Token.Secret {
			log.Warn("token.secret changed on disk, restart to apply")
		}
		if next.Server.HTTP != current.Server.HTTP {
			log.Warn("server.http changed on disk, restart to apply")
		}
		log.Info("configuration reloaded", "level", next.Log.Level)
	})
	watcher.StartAsync()

	return watcher, nil
}

// pruneLimiters drops idle login limiters until ctx is done.
func pruneLimiters(ctx context.Context, admin *service.AdminService, log *slog.Logger) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := admin.PruneLimiters(limiterIdle); n > 0 {
				log.Debug("pruned idle login limiters", "count", n)
			}
		}
	}
}
