// Package tls provides server TLS configuration for the latencyd HTTP API.
//
// The API is a public, CORS-open endpoint, so only plain server-side TLS is
// supported: no client certificate verification. TLS 1.3 is the minimum
// accepted version.
package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
)

// Config holds TLS certificate file paths for the HTTP server.
type Config struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// Validate checks that certificate files are specified and readable when
// TLS is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.CertFile == "" || c.KeyFile == "" {
		return errors.New("tls enabled but cert/key files not specified")
	}

	for _, path := range []string{c.CertFile, c.KeyFile} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tls file %q: %w", path, err)
		}
	}

	return nil
}

// NewServerTLSConfig creates a TLS 1.3 server configuration from PEM
// certificate and key files.
func NewServerTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("certificate and key file paths cannot be empty")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
		CipherSuites: []uint16{
			tls.TLS_AES_128_GCM_SHA256,
			tls.TLS_AES_256_GCM_SHA384,
			tls.TLS_CHACHA20_POLY1305_SHA256,
		},
	}, nil
}
