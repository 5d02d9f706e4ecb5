package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when a CA bundle holds no certificate.
var ErrNoCertsFound = errors.New("tlsconf: no certificates found")

// ClientOptions configures outbound TLS.
type ClientOptions struct {
	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
}

// ClientConfig returns a TLS config for opts, or nil when opts asks for
// nothing beyond the defaults.
func ClientConfig(opts ClientOptions) (*tls.Config, error) {
	if opts.CAFile == "" && !opts.InsecureSkipVerify {
		return nil, nil
	}

	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}

	if opts.CAFile != "" {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		data, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tlsconf: read ca file: %w", err)
		}
		if err := appendPEM(pool, data); err != nil {
			return nil, fmt.Errorf("tlsconf: %s: %w", opts.CAFile, err)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

// appendPEM adds every CERTIFICATE block of data to pool.
func appendPEM(pool *x509.CertPool, data []byte) error {
	var added int
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}
	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}
