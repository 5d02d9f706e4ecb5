package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

// Duration defaults, in minutes.
const (
	DefaultDurationMinutes = 60
	PinnedDurationMinutes  = 360
)

// Site origins used when nothing better is known.
const (
	DefaultSiteURL = "http://localhost:3000"
	PinnedSiteURL  = "https://ltr.dreem.ch"
)

// Option configures an Issuer or a Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IssuedToken is the result of a successful issue.
type IssuedToken struct {
	Token           string
	ExpiresAt       int64
	DurationMinutes int
}

// IssuedLink is an issued token embedded in a shareable URL.
type IssuedLink struct {
	IssuedToken
	Link string
}

// Issuer mints access tokens.
type Issuer struct {
	secret string
	now    func() time.Time
}

// NewIssuer creates an Issuer signing with secret. An empty secret is
// accepted here and reported on every Issue call.
func NewIssuer(secret string, opts ...Option) *Issuer {
	o := buildOptions(opts)
	return &Issuer{secret: secret, now: o.now}
}

// Issue mints a token expiring durationMinutes from now.
func (i *Issuer) Issue(durationMinutes int) (*IssuedToken, error) {
	if i.secret == "" {
		return nil, domain.ErrMissingSecret
	}
	if durationMinutes <= 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("duration must be a positive number of minutes")
	}

	expiresAt := i.now().UnixMilli() + int64(durationMinutes)*int64(time.Minute/time.Millisecond)
	sig := token.Sign(i.secret, domain.FormatExpiry(expiresAt))

	return &IssuedToken{
		Token:           domain.EncodeToken(expiresAt, sig),
		ExpiresAt:       expiresAt,
		DurationMinutes: durationMinutes,
	}, nil
}

// IssueLink mints a token and embeds it in a link rooted at siteURL.
func (i *Issuer) IssueLink(durationMinutes int, siteURL string) (*IssuedLink, error) {
	issued, err := i.Issue(durationMinutes)
	if err != nil {
		return nil, err
	}
	return &IssuedLink{
		IssuedToken: *issued,
		Link:        BuildLink(siteURL, issued.Token),
	}, nil
}

// BuildLink returns "<siteURL>/?token=<escaped token>".
func BuildLink(siteURL, tok string) string {
	return strings.TrimSuffix(siteURL, "/") + "/?token=" + url.QueryEscape(tok)
}

// NormalizeDuration turns caller input into a whole number of minutes.
// Non-numeric, non-finite and non-positive inputs yield fallback.
func NormalizeDuration(raw string, fallback int) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	f = math.Floor(f)
	if f <= 0 || f > math.MaxInt32 {
		return fallback
	}
	return int(f)
}

// ResolveSiteURL picks the origin used in generated links.
//
// Order: the configured URL, then forwarded or Host headers, then
// DefaultSiteURL.
func ResolveSiteURL(configured, forwardedProto, forwardedHost, host string) string {
	if s := strings.TrimSpace(configured); s != "" {
		return strings.TrimSuffix(s, "/")
	}

	h := forwardedHost
	if h == "" {
		h = host
	}
	if h == "" {
		return DefaultSiteURL
	}

	proto := forwardedProto
	if proto == "" {
		proto = "http"
	}
	return strings.TrimSuffix(proto+"://"+h, "/")
}

// ResolvePinnedSiteURL returns the configured URL or PinnedSiteURL.
func ResolvePinnedSiteURL(configured string) string {
	if s := strings.TrimSpace(configured); s != "" {
		return strings.TrimSuffix(s, "/")
	}
	return PinnedSiteURL
}
