package config

import "time"

// ServerConfig is the root configuration for ltrgate-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Token   TokenSection   `koanf:"token"`
	Admin   AdminSection   `koanf:"admin"`
	Site    SiteSection    `koanf:"site"`
	Issuer  IssuerSection  `koanf:"issuer"`
	Quota   QuotaSection   `koanf:"quota"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP            HTTPConfig    `koanf:"http"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// TokenSection configures token signing.
type TokenSection struct {
	// Secret is the shared HMAC key. Without it no token is issued and every
	// token is rejected.
	Secret string `koanf:"secret"`
}

// AdminSection configures the admin area.
type AdminSection struct {
	// Code is the static admin code, in plain text or as an Argon2id hash.
	Code string `koanf:"code"`

	// LoginRateLimit is the number of login attempts allowed per client IP
	// per minute. 0 disables the limiter.
	LoginRateLimit int `koanf:"login_rate_limit"`
}

// SiteSection configures the public origin and served content.
type SiteSection struct {
	// URL is the origin used in generated links. Empty means derive from
	// the request.
	URL string `koanf:"url"`

	// PinnedURL is the origin used by the pinned-origin issuing endpoint.
	PinnedURL string `koanf:"pinned_url"`

	// RootDir holds the static site served behind the gate. Empty serves a
	// placeholder page.
	RootDir string `koanf:"root_dir"`
}

// IssuerSection configures the issuing endpoints.
type IssuerSection struct {
	// APIKey, when set, is required as a bearer token to issue links.
	APIKey string `koanf:"api_key"`

	DefaultMinutes       int `koanf:"default_minutes"`
	PinnedDefaultMinutes int `koanf:"pinned_default_minutes"`
}

// QuotaSection configures the usage quota shared with clients.
type QuotaSection struct {
	Max          int           `koanf:"max"`
	Debounce     time.Duration `koanf:"debounce"`
	NewAccessURL string        `koanf:"new_access_url"`
}

// MetricsSection configures the metrics endpoint.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`

	// Token, when set, is required as a bearer token to scrape metrics.
	Token string `koanf:"token"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
