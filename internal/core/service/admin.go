package service

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/pkg/cmap"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

// Argon2id parameters used by HashAdminCode and expected by verification.
const (
	argon2Time    = 2
	argon2Memory  = 16384
	argon2Threads = 2
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

const argon2Prefix = "$argon2id$"

// AdminService checks the admin static code.
//
// The configured code is either plain text or an Argon2id hash in the form
// $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>. Hash verification results
// are cached per presented value until the code is rotated.
type AdminService struct {
	code     atomic.Pointer[string]
	cacheKey string
	verified *cmap.Map[bool]

	loginRate int
	limiters  *cmap.Map[*limiterEntry]
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewAdminService creates an AdminService. An empty code falls back to
// domain.DefaultAdminCode. loginPerMinute <= 0 disables the login limiter.
func NewAdminService(code string, loginPerMinute int, opts ...Option) *AdminService {
	o := buildOptions(opts)

	// Per-process key so cache entries never hold presented codes verbatim.
	cacheKey, err := token.Generate()
	if err != nil {
		cacheKey = fmt.Sprintf("%d", time.Now().UnixNano())
	}

	s := &AdminService{
		cacheKey:  cacheKey,
		verified:  cmap.New[bool](),
		loginRate: loginPerMinute,
		limiters:  cmap.New[*limiterEntry](),
		now:       o.now,
	}
	s.SetCode(code)
	return s
}

// SetCode rotates the admin code. Cached verifications are dropped.
func (s *AdminService) SetCode(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = domain.DefaultAdminCode
	}
	s.code.Store(&code)
	s.verified.Clear()
}

// IsHashed reports whether the configured code is an Argon2id hash.
func (s *AdminService) IsHashed() bool {
	return strings.HasPrefix(*s.code.Load(), argon2Prefix)
}

// CheckCode validates a code typed into the login form. Surrounding
// whitespace is ignored.
func (s *AdminService) CheckCode(candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return domain.ErrAdminCodeMissing
	}
	if !domain.ValidAdminCode(candidate) || !s.matches(candidate) {
		return domain.ErrAdminCodeInvalid
	}
	return nil
}

// Authorized reports whether an admin cookie value grants access.
// The cookie carries the code exactly as accepted at login.
func (s *AdminService) Authorized(cookieValue string) bool {
	if cookieValue == "" {
		return false
	}
	return s.matches(cookieValue)
}

func (s *AdminService) matches(candidate string) bool {
	configured := *s.code.Load()
	if !strings.HasPrefix(configured, argon2Prefix) {
		return token.Equal(candidate, configured)
	}

	// Only successes are cached; the set of failing values is unbounded.
	key := token.Sign(s.cacheKey, candidate)
	if _, hit := s.verified.Get(key); hit {
		return true
	}
	if !verifyArgon2Hash(candidate, configured) {
		return false
	}
	s.verified.Set(key, true)
	return true
}

// AllowLogin consumes one login attempt for client. It returns
// ErrLoginRateLimited with the retry delay in Details when the bucket is
// empty. Always nil when the limiter is disabled.
func (s *AdminService) AllowLogin(client string) (time.Duration, error) {
	if s.loginRate <= 0 {
		return 0, nil
	}

	entry := s.limiters.GetOrCreate(client, func() *limiterEntry {
		// loginRate attempts per minute, burst = loginRate
		return &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.loginRate)), s.loginRate),
		}
	})
	now := s.now()
	entry.lastSeen.Store(now.UnixNano())

	if entry.limiter.AllowN(now, 1) {
		return 0, nil
	}

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return delay, domain.ErrLoginRateLimited.WithDetails("retry after " + delay.Round(time.Second).String())
}

// PruneLimiters drops limiters idle for longer than idle and returns how
// many were removed.
func (s *AdminService) PruneLimiters(idle time.Duration) int {
	cutoff := s.now().Add(-idle).UnixNano()
	return s.limiters.DeleteIf(func(_ string, e *limiterEntry) bool {
		return e.lastSeen.Load() < cutoff
	})
}

// LimiterCount returns the number of tracked login clients.
func (s *AdminService) LimiterCount() int {
	return s.limiters.Len()
}

// HashAdminCode produces an Argon2id hash of code suitable for admin.code.
func HashAdminCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", domain.ErrInvalidArgument.WithDetails("admin code is empty")
	}
	if !domain.ValidAdminCode(code) {
		return "", domain.ErrInvalidArgument.WithDetails(`admin code must be printable ASCII without '"', ';' or '\'`)
	}

	salt, err := token.GenerateBytes(argon2SaltLen)
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}
	sum := argon2.IDKey([]byte(code), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// verifyArgon2Hash verifies a secret against an Argon2id hash.
// Hash format: $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
func verifyArgon2Hash(secret, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false
	}
	if parts[1] != "argon2id" {
		return false
	}

	var memory uint32
	var iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(secret), salt, iterations, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
