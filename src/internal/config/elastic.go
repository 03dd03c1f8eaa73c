// FILE: eslogger/src/internal/config/elastic.go
package config

// ElasticConfig describes the bulk endpoint.
type ElasticConfig struct {
	// Base URL, "/_bulk" is appended
	URL string `toml:"url"`

	// Per request timeout
	TimeoutSeconds int64 `toml:"timeout_seconds"`

	// Client TLS for https URLs
	TLS TLSClientConfig `toml:"tls"`

	// Basic authentication
	Username string `toml:"username"`
	Password string `toml:"password"`

	// Sent as "Authorization: ApiKey <key>"
	APIKey string `toml:"api_key"`

	// Bearer token minted per request when Secret is set
	JWT JWTConfig `toml:"jwt"`

	// Submission throttling
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// TLSClientConfig configures the HTTPS client.
type TLSClientConfig struct {
	// CA bundle verifying the server, system roots when empty
	CAFile string `toml:"ca_file"`

	// Client certificate for mTLS
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`

	// Overrides the name checked against the server certificate
	ServerName string `toml:"server_name"`

	// "TLS1.2" or "TLS1.3"
	MinVersion string `toml:"min_version"`
	MaxVersion string `toml:"max_version"`

	// Comma separated cipher suite names
	CipherSuites string `toml:"cipher_suites"`

	InsecureSkipVerify bool `toml:"insecure_skip_verify"`
}

// JWTConfig configures HS256 bearer tokens.
type JWTConfig struct {
	Secret     string `toml:"secret"`
	Issuer     string `toml:"issuer"`
	Subject    string `toml:"subject"`
	Audience   string `toml:"audience"`
	TTLSeconds int64  `toml:"ttl_seconds"`
}

// RateLimitConfig bounds bulk submissions per second.
type RateLimitConfig struct {
	// Batches per second. Default: 0 (disabled).
	Rate float64 `toml:"rate"`
	// Maximum burst of batches. Defaults to the Rate.
	Burst int64 `toml:"burst"`
}

// AuthMode names the authentication scheme in effect.
func (e *ElasticConfig) AuthMode() string {
	switch {
	case e.JWT.Secret != "":
		return "jwt"
	case e.APIKey != "":
		return "api_key"
	case e.Username != "":
		return "basic"
	default:
		return "none"
	}
}
