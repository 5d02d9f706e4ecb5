package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/domain"
)

func TestAdminService_CheckCode(t *testing.T) {
	svc := NewAdminService("s3cret", 0)

	tests := []struct {
		name    string
		input   string
		wantErr *domain.DomainError
	}{
		{"exact", "s3cret", nil},
		{"trimmed", "  s3cret\n", nil},
		{"wrong", "nope", domain.ErrAdminCodeInvalid},
		{"case differs", "S3CRET", domain.ErrAdminCodeInvalid},
		{"empty", "   ", domain.ErrAdminCodeMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckCode(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckCode(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckCode(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestAdminService_DefaultCode(t *testing.T) {
	svc := NewAdminService("", 0)
	if err := svc.CheckCode(domain.DefaultAdminCode); err != nil {
		t.Errorf("CheckCode(default) error = %v", err)
	}
}

func TestAdminService_Authorized(t *testing.T) {
	svc := NewAdminService("s3cret", 0)

	if !svc.Authorized("s3cret") {
		t.Error("Authorized() = false for matching cookie")
	}
	if svc.Authorized("") {
		t.Error("Authorized() = true for empty cookie")
	}
	if svc.Authorized(" s3cret") {
		t.Error("Authorized() should not trim cookie values")
	}

	svc.SetCode("rotated")
	if svc.Authorized("s3cret") {
		t.Error("Authorized() = true for old code after rotation")
	}
	if !svc.Authorized("rotated") {
		t.Error("Authorized() = false for new code")
	}
}

func TestAdminService_HashedCode(t *testing.T) {
	hash, err := HashAdminCode("hashed-code")
	if err != nil {
		t.Fatalf("HashAdminCode() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=16384,t=2,p=2$") {
		t.Fatalf("HashAdminCode() = %q, unexpected format", hash)
	}

	svc := NewAdminService(hash, 0)
	if !svc.IsHashed() {
		t.Error("IsHashed() = false, want true")
	}
	if err := svc.CheckCode("hashed-code"); err != nil {
		t.Errorf("CheckCode() error = %v", err)
	}
	if err := svc.CheckCode("wrong"); !errors.Is(err, domain.ErrAdminCodeInvalid) {
		t.Errorf("CheckCode(wrong) error = %v, want ErrAdminCodeInvalid", err)
	}

	// Second lookup is served from the cache.
	if !svc.Authorized("hashed-code") {
		t.Error("Authorized() = false for cached code")
	}
	if svc.verified.Len() != 1 {
		t.Errorf("verified cache size = %d, want 1", svc.verified.Len())
	}

	svc.SetCode("plain")
	if svc.verified.Len() != 0 {
		t.Errorf("verified cache size after rotation = %d, want 0", svc.verified.Len())
	}
}

func TestAdminService_HashedCodeForgetsFailures(t *testing.T) {
	hash, err := HashAdminCode("hashed-code")
	if err != nil {
		t.Fatalf("HashAdminCode() error = %v", err)
	}
	svc := NewAdminService(hash, 0)

	for i := 0; i < 5; i++ {
		if svc.Authorized(fmt.Sprintf("bogus-%d", i)) {
			t.Fatalf("Authorized(bogus-%d) = true", i)
		}
	}
	if svc.verified.Len() != 0 {
		t.Errorf("verified cache size after failures = %d, want 0", svc.verified.Len())
	}

	if !svc.Authorized("hashed-code") {
		t.Fatal("Authorized() = false for the configured code")
	}
	if svc.Authorized("bogus-0") {
		t.Error("Authorized(bogus-0) = true after a successful match")
	}
	if svc.verified.Len() != 1 {
		t.Errorf("verified cache size = %d, want 1", svc.verified.Len())
	}
}

func TestAdminService_CookieUnsafeCode(t *testing.T) {
	svc := NewAdminService("open;sesame", 0)
	if err := svc.CheckCode("open;sesame"); !errors.Is(err, domain.ErrAdminCodeInvalid) {
		t.Errorf("CheckCode(cookie-unsafe) error = %v, want ErrAdminCodeInvalid", err)
	}

	if _, err := HashAdminCode(`back\slash`); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("HashAdminCode(cookie-unsafe) error = %v, want ErrInvalidArgument", err)
	}
}

func TestHashAdminCode_Empty(t *testing.T) {
	if _, err := HashAdminCode("  "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("HashAdminCode(blank) error = %v, want ErrInvalidArgument", err)
	}
}

func TestVerifyArgon2Hash_Malformed(t *testing.T) {
	tests := []string{
		"",
		"plain",
		"$argon2i$v=19$m=16384,t=2,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$bad$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=16384,t=2,p=2$!!$aGFzaA",
	}
	for _, h := range tests {
		if verifyArgon2Hash("x", h) {
			t.Errorf("verifyArgon2Hash(%q) = true, want false", h)
		}
	}
}

func TestAdminService_AllowLogin(t *testing.T) {
	clock := &stepClock{now: time.Unix(1700000000, 0)}

	t.Run("disabled", func(t *testing.T) {
		svc := NewAdminService("c", 0)
		for i := 0; i < 100; i++ {
			if _, err := svc.AllowLogin("1.2.3.4"); err != nil {
				t.Fatalf("AllowLogin() error = %v", err)
			}
		}
		if svc.LimiterCount() != 0 {
			t.Errorf("LimiterCount() = %d, want 0", svc.LimiterCount())
		}
	})

	t.Run("limited per client", func(t *testing.T) {
		svc := NewAdminService("c", 3, WithClock(clock.Now))
		for i := 0; i < 3; i++ {
			if _, err := svc.AllowLogin("1.2.3.4"); err != nil {
				t.Fatalf("attempt %d error = %v", i+1, err)
			}
		}

		delay, err := svc.AllowLogin("1.2.3.4")
		if !errors.Is(err, domain.ErrLoginRateLimited) {
			t.Fatalf("AllowLogin() error = %v, want ErrLoginRateLimited", err)
		}
		if delay <= 0 || delay > 20*time.Second {
			t.Errorf("delay = %v, want within (0, 20s]", delay)
		}

		if _, err := svc.AllowLogin("5.6.7.8"); err != nil {
			t.Errorf("other client error = %v, want nil", err)
		}

		clock.Advance(21 * time.Second)
		if _, err := svc.AllowLogin("1.2.3.4"); err != nil {
			t.Errorf("AllowLogin() after refill error = %v", err)
		}
	})

	t.Run("prune idle", func(t *testing.T) {
		svc := NewAdminService("c", 3, WithClock(clock.Now))
		svc.AllowLogin("a")
		clock.Advance(10 * time.Minute)
		svc.AllowLogin("b")

		if n := svc.PruneLimiters(5 * time.Minute); n != 1 {
			t.Errorf("PruneLimiters() = %d, want 1", n)
		}
		if svc.LimiterCount() != 1 {
			t.Errorf("LimiterCount() = %d, want 1", svc.LimiterCount())
		}
	})
}
