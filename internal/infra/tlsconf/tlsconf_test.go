package tlsconf

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeKeyPair writes a self-signed certificate for cn and returns its PEM.
func writeKeyPair(t *testing.T, certFile, keyFile, cn string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(30 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey() error = %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("WriteFile(cert) error = %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatalf("WriteFile(key) error = %v", err)
	}
	return certPEM
}

func pairPaths(t *testing.T) (string, string) {
	dir := t.TempDir()
	return filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")
}

func commonName(t *testing.T, r *Reloader) string {
	t.Helper()
	cert, err := r.GetCertificate(nil)
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
	return cert.Leaf.Subject.CommonName
}

func TestNewReloader(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	writeKeyPair(t, certFile, keyFile, "first.local")

	r, err := NewReloader(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Stop()

	if got := commonName(t, r); got != "first.local" {
		t.Errorf("CommonName = %q, want %q", got, "first.local")
	}

	cfg := r.TLSConfig()
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}
	if cfg.GetCertificate == nil {
		t.Error("TLSConfig().GetCertificate is nil")
	}
}

func TestNewReloader_Invalid(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	os.WriteFile(certFile, []byte("invalid"), 0644)
	os.WriteFile(keyFile, []byte("invalid"), 0600)

	if _, err := NewReloader(certFile, keyFile); err == nil {
		t.Error("NewReloader() error = nil for invalid pair")
	}
	if _, err := NewReloader("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("NewReloader() error = nil for missing files")
	}
}

func TestReloader_ReloadKeepsPreviousOnFailure(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	writeKeyPair(t, certFile, keyFile, "first.local")

	r, err := NewReloader(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Stop()

	os.WriteFile(keyFile, []byte("broken"), 0600)
	if err := r.Reload(); err == nil {
		t.Error("Reload() error = nil for broken key")
	}
	if got := commonName(t, r); got != "first.local" {
		t.Errorf("CommonName after failed reload = %q, want %q", got, "first.local")
	}
}

func TestReloader_WatchesFiles(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	writeKeyPair(t, certFile, keyFile, "first.local")

	r, err := NewReloader(certFile, keyFile,
		WithLogger(quietLogger()),
		WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	writeKeyPair(t, certFile, keyFile, "second.local")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if commonName(t, r) == "second.local" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("CommonName = %q after rewrite, want %q", commonName(t, r), "second.local")
}

func TestReloader_StopTwice(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	writeKeyPair(t, certFile, keyFile, "first.local")

	r, err := NewReloader(certFile, keyFile, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestClientConfig(t *testing.T) {
	certFile, keyFile := pairPaths(t)
	writeKeyPair(t, certFile, keyFile, "ca.local")

	empty := filepath.Join(t.TempDir(), "empty.pem")
	os.WriteFile(empty, []byte("no pem here"), 0644)

	tests := []struct {
		name     string
		opts     ClientOptions
		wantNil  bool
		wantErr  error
		wantRoot bool
	}{
		{"defaults", ClientOptions{}, true, nil, false},
		{"insecure", ClientOptions{InsecureSkipVerify: true}, false, nil, false},
		{"ca file", ClientOptions{CAFile: certFile}, false, nil, true},
		{"ca without certs", ClientOptions{CAFile: empty}, false, ErrNoCertsFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ClientConfig(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ClientConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClientConfig() error = %v", err)
			}
			if (cfg == nil) != tt.wantNil {
				t.Fatalf("ClientConfig() = %v, want nil %v", cfg, tt.wantNil)
			}
			if cfg == nil {
				return
			}
			if cfg.InsecureSkipVerify != tt.opts.InsecureSkipVerify {
				t.Errorf("InsecureSkipVerify = %v, want %v", cfg.InsecureSkipVerify, tt.opts.InsecureSkipVerify)
			}
			if (cfg.RootCAs != nil) != tt.wantRoot {
				t.Errorf("RootCAs set = %v, want %v", cfg.RootCAs != nil, tt.wantRoot)
			}
		})
	}
}

func TestClientConfig_MissingFile(t *testing.T) {
	if _, err := ClientConfig(ClientOptions{CAFile: "/nonexistent/ca.pem"}); err == nil {
		t.Error("ClientConfig() error = nil for missing file")
	}
}
