package config

import (
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/pkg/quota"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:3000"
	DefaultShutdownTimeout = 15 * time.Second

	DefaultNewAccessURL = "https://www.dreem.ch/product-page/discutez-avec-un-conseiller-du-travail-ia"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Admin: AdminSection{
			Code: domain.DefaultAdminCode,
		},
		Site: SiteSection{
			PinnedURL: service.PinnedSiteURL,
		},
		Issuer: IssuerSection{
			DefaultMinutes:       service.DefaultDurationMinutes,
			PinnedDefaultMinutes: service.PinnedDurationMinutes,
		},
		Quota: QuotaSection{
			Max:          quota.DefaultMax,
			Debounce:     quota.DefaultDebounce,
			NewAccessURL: DefaultNewAccessURL,
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
