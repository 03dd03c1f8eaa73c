// FILE: eslogger/src/internal/tls/client.go
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
)

// ClientManager builds the TLS configuration of the bulk sink's HTTPS client.
type ClientManager struct {
	config    *config.TLSClientConfig
	tlsConfig *tls.Config
	logger    *log.Logger
}

// NewClientManager loads certificates named in cfg.
func NewClientManager(cfg *config.TLSClientConfig, logger *log.Logger) (*ClientManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("TLS client options cannot be nil")
	}

	m := &ClientManager{
		config: cfg,
		logger: logger,
		tlsConfig: &tls.Config{
			MinVersion: parseTLSVersion(cfg.MinVersion, tls.VersionTLS12),
			MaxVersion: parseTLSVersion(cfg.MaxVersion, tls.VersionTLS13),
		},
	}

	if cfg.CipherSuites != "" {
		suites, rejected := parseCipherSuites(cfg.CipherSuites)
		if len(suites) == 0 {
			return nil, fmt.Errorf("no usable cipher suites in %q", cfg.CipherSuites)
		}
		if len(rejected) > 0 {
			logger.Warn("msg", "Ignoring unknown or insecure cipher suites",
				"component", "tls",
				"suites", strings.Join(rejected, ","))
		}
		m.tlsConfig.CipherSuites = suites
	}

	// Client certificate for mTLS
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		clientCert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		m.tlsConfig.Certificates = []tls.Certificate{clientCert}
	} else if cfg.CertFile != "" || cfg.KeyFile != "" {
		return nil, fmt.Errorf("both cert_file and key_file must be provided for mTLS")
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		m.tlsConfig.RootCAs = caCertPool
	}

	m.tlsConfig.InsecureSkipVerify = cfg.InsecureSkipVerify
	m.tlsConfig.ServerName = cfg.ServerName

	if cfg.InsecureSkipVerify {
		logger.Warn("msg", "TLS verification disabled",
			"component", "tls")
	}
	logger.Info("msg", "TLS client configured",
		"component", "tls",
		"has_client_cert", cfg.CertFile != "",
		"has_ca", cfg.CAFile != "",
		"min_version", tlsVersionString(m.tlsConfig.MinVersion))
	return m, nil
}

// GetConfig returns a copy of the client TLS configuration.
func (m *ClientManager) GetConfig() *tls.Config {
	if m == nil {
		return nil
	}
	return m.tlsConfig.Clone()
}

// GetStats returns statistics about the client TLS configuration.
func (m *ClientManager) GetStats() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":              true,
		"min_version":          tlsVersionString(m.tlsConfig.MinVersion),
		"max_version":          tlsVersionString(m.tlsConfig.MaxVersion),
		"has_client_cert":      m.config.CertFile != "",
		"has_ca":               m.config.CAFile != "",
		"insecure_skip_verify": m.config.InsecureSkipVerify,
	}
}
