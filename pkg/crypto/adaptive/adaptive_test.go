package adaptive

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != Preferred() {
		t.Errorf("Type() = %s, want %s", c.Type(), Preferred())
	}
}

func TestNewWithType(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		typ     CipherType
		wantErr bool
	}{
		{"aes-gcm", testKey(), CipherAESGCM, false},
		{"chacha20", testKey(), CipherChaCha20, false},
		{"unknown", testKey(), "rot13", true},
		{"short key", make([]byte, 16), CipherAESGCM, true},
		{"long key", make([]byte, 64), CipherChaCha20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewWithType(tt.key, tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWithType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", c.Type(), tt.typ)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	for _, typ := range []CipherType{CipherAESGCM, CipherChaCha20} {
		t.Run(string(typ), func(t *testing.T) {
			c, err := NewWithType(testKey(), typ)
			if err != nil {
				t.Fatalf("NewWithType() error = %v", err)
			}

			plaintext := []byte("ltrgate api key")
			aad := []byte("profile:prod")

			ct, err := c.Encrypt(plaintext, aad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(ct) != len(plaintext)+c.Overhead() {
				t.Errorf("len(ciphertext) = %d, want %d", len(ct), len(plaintext)+c.Overhead())
			}
			if bytes.Contains(ct, plaintext) {
				t.Error("ciphertext contains plaintext")
			}

			got, err := c.Decrypt(ct, aad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Errorf("Decrypt() = %q, want %q", got, plaintext)
			}

			if _, err := c.Decrypt(ct, []byte("profile:dev")); err == nil {
				t.Error("Decrypt() with wrong additional data should fail")
			}

			ct[len(ct)-1] ^= 0xff
			if _, err := c.Decrypt(ct, aad); err == nil {
				t.Error("Decrypt() of tampered ciphertext should fail")
			}

			if _, err := c.Decrypt([]byte{1, 2}, aad); !errors.Is(err, ErrCiphertext) {
				t.Errorf("Decrypt(short) error = %v, want %v", err, ErrCiphertext)
			}
		})
	}
}

func TestEncrypt_UniqueNonce(t *testing.T) {
	c, _ := New(testKey())
	a, _ := c.Encrypt([]byte("same"), nil)
	b, _ := c.Encrypt([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same plaintext are identical")
	}
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	b, _ := GenerateKey()
	if len(a) != KeySize {
		t.Errorf("len(key) = %d, want %d", len(a), KeySize)
	}
	if bytes.Equal(a, b) {
		t.Error("GenerateKey() returned the same key twice")
	}
}

func TestSealString(t *testing.T) {
	key := testKey()
	aad := []byte("cli")

	sealed, err := SealString(key, "secret-key", aad)
	if err != nil {
		t.Fatalf("SealString() error = %v", err)
	}
	if !IsSealed(sealed) {
		t.Errorf("IsSealed(%q) = false", sealed)
	}
	if strings.Contains(sealed, "secret-key") {
		t.Errorf("sealed value %q leaks plaintext", sealed)
	}
	if !strings.HasPrefix(sealed, SealedPrefix+string(Preferred())+":") {
		t.Errorf("sealed value %q does not name cipher %s", sealed, Preferred())
	}

	got, err := OpenString(key, sealed, aad)
	if err != nil {
		t.Fatalf("OpenString() error = %v", err)
	}
	if got != "secret-key" {
		t.Errorf("OpenString() = %q, want %q", got, "secret-key")
	}
}

func TestOpenString_Errors(t *testing.T) {
	key := testKey()
	sealed, _ := SealString(key, "v", nil)
	other := make([]byte, KeySize)

	tests := []struct {
		name  string
		key   []byte
		input string
	}{
		{"plain", key, "not-sealed"},
		{"no cipher separator", key, SealedPrefix + "abc"},
		{"bad base64", key, SealedPrefix + string(CipherAESGCM) + ":***"},
		{"unknown cipher", key, SealedPrefix + "rot13:AAAA"},
		{"wrong key", other, sealed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OpenString(tt.key, tt.input, nil); err == nil {
				t.Errorf("OpenString(%q) error = nil", tt.input)
			}
		})
	}

	if _, err := OpenString(key, "plain", nil); !errors.Is(err, ErrNotSealed) {
		t.Errorf("OpenString(plain) error = %v, want %v", err, ErrNotSealed)
	}
}

func TestOpenString_OtherCipher(t *testing.T) {
	key := testKey()
	c, _ := NewWithType(key, CipherChaCha20)
	ct, _ := c.Encrypt([]byte("portable"), nil)

	sealed := SealedPrefix + string(CipherChaCha20) + ":" + base64.RawURLEncoding.EncodeToString(ct)
	got, err := OpenString(key, sealed, nil)
	if err != nil {
		t.Fatalf("OpenString() error = %v", err)
	}
	if got != "portable" {
		t.Errorf("OpenString() = %q, want %q", got, "portable")
	}
}
