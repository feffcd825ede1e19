package security

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
)

// Detector flags requests matching common probe patterns. It only observes;
// responses are never blocked on a match.
type Detector struct {
	suspicious atomic.Int64
}

// NewDetector creates a new security detector
func NewDetector() *Detector {
	return &Detector{}
}

var probePatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

// IsSuspicious analyzes request patterns for common probes.
func (d *Detector) IsSuspicious(r *http.Request) bool {
	suspicious := false

	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, pattern := range probePatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			suspicious = true
			break
		}
	}

	// Unusual methods are never sent by the client or API consumers
	switch r.Method {
	case "TRACE", "TRACK", "CONNECT":
		suspicious = true
	}

	// Excessively long URLs suggest an overflow attempt
	if len(r.URL.String()) > 2048 {
		suspicious = true
	}

	if suspicious {
		d.suspicious.Add(1)
	}
	return suspicious
}

// SuspiciousCount returns the number of flagged requests so far.
func (d *Detector) SuspiciousCount() int64 {
	return d.suspicious.Load()
}

// Middleware logs flagged requests and passes everything through.
func (d *Detector) Middleware(clientIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d.IsSuspicious(r) {
				ip := ""
				if clientIP != nil {
					ip = clientIP(r)
				}
				slog.WarnContext(r.Context(), "Suspicious request detected",
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", ip,
					"user_agent", r.Header.Get("User-Agent"))
			}
			next.ServeHTTP(w, r)
		})
	}
}
