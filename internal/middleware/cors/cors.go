// Package cors implements cross-origin resource sharing with an explicit
// origin allowlist. Requests from unlisted origins get no CORS headers and
// the browser blocks the response.
package cors

import (
	"net/http"
	"strconv"
	"strings"
)

// Config holds CORS configuration.
type Config struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAgeSeconds    int
}

// DefaultConfig allows the typical local frontend origin.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAgeSeconds:    600,
	}
}

// Middleware applies CORS headers and short-circuits preflight requests.
type Middleware struct {
	config  Config
	origins map[string]struct{}
	methods string
	headers string
}

// NewMiddleware creates a CORS middleware from config. Empty origin lists
// fall back to the defaults rather than allowing everything.
func NewMiddleware(config Config) *Middleware {
	def := DefaultConfig()
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = def.AllowedOrigins
	}
	if len(config.AllowedMethods) == 0 {
		config.AllowedMethods = def.AllowedMethods
	}
	if len(config.AllowedHeaders) == 0 {
		config.AllowedHeaders = def.AllowedHeaders
	}

	origins := make(map[string]struct{}, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins[o] = struct{}{}
		}
	}

	return &Middleware{
		config:  config,
		origins: origins,
		methods: strings.Join(config.AllowedMethods, ", "),
		headers: strings.Join(config.AllowedHeaders, ", "),
	}
}

// AllowsOrigin reports whether the given Origin header value is allowlisted.
func (m *Middleware) AllowsOrigin(origin string) bool {
	_, ok := m.origins[strings.TrimRight(origin, "/")]
	return ok
}

// Handler wraps next with CORS handling.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Same-origin or non-browser request
			next.ServeHTTP(w, r)
			return
		}

		// Responses vary by Origin even when it is rejected
		w.Header().Add("Vary", "Origin")

		if m.AllowsOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if m.config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Add("Vary", "Access-Control-Request-Method")
			w.Header().Add("Vary", "Access-Control-Request-Headers")
			w.Header().Set("Access-Control-Allow-Methods", m.methods)
			w.Header().Set("Access-Control-Allow-Headers", m.headers)
			if m.config.MaxAgeSeconds > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAgeSeconds))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
