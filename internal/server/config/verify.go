package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/telemetry/logger"
)

// Verify validates the configuration.
//
// A missing token secret is not an error: the server starts and reports
// it on every issue or verification, matching the fail-closed behaviour.
func Verify(cfg *ServerConfig) error {
	var errs []error

	if err := verifyServer(&cfg.Server); err != nil {
		errs = append(errs, err)
	}
	if err := verifySite(&cfg.Site); err != nil {
		errs = append(errs, err)
	}
	if err := verifyIssuer(&cfg.Issuer); err != nil {
		errs = append(errs, err)
	}
	if err := verifyQuota(&cfg.Quota); err != nil {
		errs = append(errs, err)
	}
	if code := strings.TrimSpace(cfg.Admin.Code); !strings.HasPrefix(code, "$argon2id$") && !domain.ValidAdminCode(code) {
		errs = append(errs, errors.New(`admin.code must be printable ASCII without '"', ';' or '\'`))
	}
	if cfg.Admin.LoginRateLimit < 0 {
		errs = append(errs, errors.New("admin.login_rate_limit must not be negative"))
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "", "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of json, text", cfg.Log.Format))
	}

	return errors.Join(errs...)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifySite(cfg *SiteSection) error {
	for key, v := range map[string]string{"site.url": cfg.URL, "site.pinned_url": cfg.PinnedURL} {
		if v == "" {
			continue
		}
		u, err := url.Parse(v)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, v)
		}
	}

	if cfg.RootDir != "" {
		info, err := os.Stat(cfg.RootDir)
		if err != nil {
			return fmt.Errorf("site.root_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("site.root_dir %q is not a directory", cfg.RootDir)
		}
	}
	return nil
}

func verifyIssuer(cfg *IssuerSection) error {
	if cfg.DefaultMinutes < 1 {
		return errors.New("issuer.default_minutes must be at least 1")
	}
	if cfg.PinnedDefaultMinutes < 1 {
		return errors.New("issuer.pinned_default_minutes must be at least 1")
	}
	return nil
}

func verifyQuota(cfg *QuotaSection) error {
	if cfg.Max < 1 {
		return errors.New("quota.max must be at least 1")
	}
	if cfg.Debounce < 0 {
		return errors.New("quota.debounce must not be negative")
	}
	if cfg.NewAccessURL != "" && !strings.HasPrefix(cfg.NewAccessURL, "http") {
		return fmt.Errorf("quota.new_access_url must be an http(s) URL, got %q", cfg.NewAccessURL)
	}
	return nil
}
