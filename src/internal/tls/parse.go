// FILE: eslogger/src/internal/tls/parse.go
package tls

import (
	"crypto/tls"
	"fmt"
	"strings"
)

var versionNames = map[string]uint16{
	"TLS1.0": tls.VersionTLS10, "TLS10": tls.VersionTLS10,
	"TLS1.1": tls.VersionTLS11, "TLS11": tls.VersionTLS11,
	"TLS1.2": tls.VersionTLS12, "TLS12": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13, "TLS13": tls.VersionTLS13,
}

// parseTLSVersion maps "TLS1.2" or "TLS12" to its constant, def when empty or unknown.
func parseTLSVersion(version string, def uint16) uint16 {
	if v, ok := versionNames[strings.ToUpper(version)]; ok {
		return v
	}
	return def
}

// parseCipherSuites resolves a comma-separated list of suite names. Names
// that are unknown or listed as insecure by crypto/tls are returned in
// rejected.
func parseCipherSuites(suites string) (ids []uint16, rejected []string) {
	known := make(map[string]uint16)
	for _, s := range tls.CipherSuites() {
		known[s.Name] = s.ID
	}

	for _, name := range strings.Split(suites, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if id, ok := known[name]; ok {
			ids = append(ids, id)
			continue
		}
		rejected = append(rejected, name)
	}
	return ids, rejected
}

func tlsVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS1.0"
	case tls.VersionTLS11:
		return "TLS1.1"
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	default:
		return fmt.Sprintf("0x%04x", version)
	}
}
