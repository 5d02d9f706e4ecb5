package domain

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeToken(t *testing.T) {
	got := EncodeToken(1700000000000, "abc_DEF-123")
	want := "1700000000000.abc_DEF-123"
	if got != want {
		t.Errorf("EncodeToken() = %q, want %q", got, want)
	}
}

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantExp int64
		wantSig string
		wantErr bool
	}{
		{"valid", "1700000000000.sig", 1700000000000, "sig", false},
		{"empty signature", "1700000000000.", 1700000000000, "", false},
		{"negative expiry", "-5.sig", -5, "sig", false},
		{"no separator", "1700000000000sig", 0, "", true},
		{"two separators", "1700000000000.sig.extra", 0, "", true},
		{"empty", "", 0, "", true},
		{"non-numeric expiry", "soon.sig", 0, "", true},
		{"float expiry", "1.5.sig", 0, "", true},
		{"empty expiry", ".sig", 0, "", true},
		{"overflow expiry", "99999999999999999999.sig", 0, "", true},
		{"plus sign", "+1700000000000.sig", 0, "", true},
		{"leading zero", "01700000000000.sig", 0, "", true},
		{"leading zeros", "0001700000000000.sig", 0, "", true},
		{"negative zero", "-0.sig", 0, "", true},
		{"zero", "0.sig", 0, "sig", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := DecodeToken(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeToken(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrTokenMalformed) {
					t.Errorf("DecodeToken(%q) error = %v, want ErrTokenMalformed", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeToken(%q) error = %v", tt.input, err)
			}
			if tok.ExpiresAt != tt.wantExp {
				t.Errorf("ExpiresAt = %d, want %d", tok.ExpiresAt, tt.wantExp)
			}
			if tok.Signature != tt.wantSig {
				t.Errorf("Signature = %q, want %q", tok.Signature, tt.wantSig)
			}
		})
	}
}

func TestDecodeToken_RoundTrip(t *testing.T) {
	cases := []struct {
		exp int64
		sig string
	}{
		{0, ""},
		{1, "a"},
		{1700000000000, "hbU2bDZcT5Mp0enUjcEEAiD6lC1jCwtVIcuLXZTSoEI"},
		{-42, "with-dash_and_underscore"},
	}

	for _, c := range cases {
		tok, err := DecodeToken(EncodeToken(c.exp, c.sig))
		if err != nil {
			t.Fatalf("DecodeToken(EncodeToken(%d, %q)) error = %v", c.exp, c.sig, err)
		}
		if tok.ExpiresAt != c.exp || tok.Signature != c.sig {
			t.Errorf("round trip = {%d, %q}, want {%d, %q}", tok.ExpiresAt, tok.Signature, c.exp, c.sig)
		}
		if tok.String() != EncodeToken(c.exp, c.sig) {
			t.Errorf("String() = %q, want %q", tok.String(), EncodeToken(c.exp, c.sig))
		}
	}
}

func TestAccessToken_Expired(t *testing.T) {
	tok := &AccessToken{ExpiresAt: 1700000000000}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one ms before", time.UnixMilli(1699999999999), false},
		{"exactly at expiry", time.UnixMilli(1700000000000), true},
		{"after expiry", time.UnixMilli(1700000000001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.Expired(tt.now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessToken_Remaining(t *testing.T) {
	tok := &AccessToken{ExpiresAt: 1700000060000}

	if got := tok.Remaining(time.UnixMilli(1700000000000)); got != time.Minute {
		t.Errorf("Remaining() = %v, want %v", got, time.Minute)
	}
	if got := tok.Remaining(time.UnixMilli(1700000090000)); got != 0 {
		t.Errorf("Remaining() after expiry = %v, want 0", got)
	}
	if got := tok.ExpiresAtTime(); !got.Equal(time.UnixMilli(1700000060000)) {
		t.Errorf("ExpiresAtTime() = %v", got)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1700000000000.hbU2bDZcT5Mp0enUjcEEAiD6lC1jCwtVIcuLXZTSoEI", "1700000000000.***"},
		{"garbage", "***REDACTED***"},
		{"abc.def", "***REDACTED***"},
		{".sig", "***REDACTED***"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MaskToken(tt.input); got != tt.want {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
