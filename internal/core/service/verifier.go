package service

import (
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

// Verifier checks access tokens.
type Verifier struct {
	secret string
	now    func() time.Time
}

// NewVerifier creates a Verifier. With an empty secret every token is
// rejected.
func NewVerifier(secret string, opts ...Option) *Verifier {
	o := buildOptions(opts)
	return &Verifier{secret: secret, now: o.now}
}

// Verify reports whether tok is authentic and unexpired.
func (v *Verifier) Verify(tok string) bool {
	return v.Check(tok) == nil
}

// Check returns nil for a valid token, or the reason it was rejected:
// ErrMissingSecret, ErrTokenMissing, ErrTokenMalformed, ErrTokenInvalid
// or ErrTokenExpired.
func (v *Verifier) Check(tok string) error {
	if v.secret == "" {
		return domain.ErrMissingSecret
	}
	if tok == "" {
		return domain.ErrTokenMissing
	}

	at, err := domain.DecodeToken(tok)
	if err != nil {
		return err
	}

	if !token.VerifySignature(v.secret, at.Message(), at.Signature) {
		return domain.ErrTokenInvalid
	}
	if at.Expired(v.now()) {
		return domain.ErrTokenExpired
	}
	return nil
}

// HasSecret reports whether a signing secret is configured.
func (v *Verifier) HasSecret() bool {
	return v.secret != ""
}

// Now returns the verifier's current time.
func (v *Verifier) Now() time.Time {
	return v.now()
}

// Inspection describes a token without revealing its signature.
type Inspection struct {
	Valid       bool
	Reason      string
	ExpiresAt   int64
	RemainingMs int64
}

// Inspect decodes tok and reports validity and time left. Decoding needs no
// secret, so ExpiresAt is filled even when the signature does not verify.
func (v *Verifier) Inspect(tok string) Inspection {
	var ins Inspection
	if at, err := domain.DecodeToken(tok); err == nil {
		ins.ExpiresAt = at.ExpiresAt
		ins.RemainingMs = at.Remaining(v.now()).Milliseconds()
	}

	if err := v.Check(tok); err != nil {
		ins.Reason = domain.GetErrorCode(err)
		ins.RemainingMs = 0
		return ins
	}
	ins.Valid = true
	return ins
}

// CheckResult maps a Check error to a short label for logs and metrics.
func CheckResult(err error) string {
	switch {
	case err == nil:
		return "valid"
	case domain.IsDomainError(err, domain.ErrMissingSecret.Code):
		return "missing_secret"
	case domain.IsDomainError(err, domain.ErrTokenMissing.Code):
		return "missing"
	case domain.IsDomainError(err, domain.ErrTokenMalformed.Code):
		return "malformed"
	case domain.IsDomainError(err, domain.ErrTokenExpired.Code):
		return "expired"
	default:
		return "invalid"
	}
}
