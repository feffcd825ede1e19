package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/config"
	applog "spendlog/internal/log"
	"spendlog/internal/middleware/cors"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/services"
	appweb "spendlog/web"
)

// Server hosts the JSON API and the embedded front end.
type Server struct {
	http.Server

	auth     *services.AuthService
	expenses *services.ExpenseService
	tokens   *auth.TokenIssuer

	limiter      *ratelimit.Limiter
	isProduction bool

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, authSvc *services.AuthService, expSvc *services.ExpenseService, tokens *auth.TokenIssuer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:         authSvc,
		expenses:     expSvc,
		tokens:       tokens,
		isProduction: cfg.IsProduction(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/profile", s.handleProfile)

	mux.Handle("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.Handle("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	// Registered before the {id} routes in spirit; the mux prefers the
	// more specific literal pattern either way.
	mux.Handle("GET /api/expenses/stats/summary", s.requireAuth(s.handleExpenseStats))
	mux.Handle("GET /api/expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.Handle("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	// Unmatched API routes answer in JSON, not the SPA fallback
	mux.HandleFunc("/api/", s.handleNotFound)

	// Static front end (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.FileServer(http.FS(sub))
		mux.Handle("/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	corsMW := cors.NewMiddleware(cors.Config{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cors.DefaultConfig().AllowedMethods,
		AllowedHeaders:   cors.DefaultConfig().AllowedHeaders,
		AllowCredentials: true,
		MaxAgeSeconds:    600,
	})
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	detector := security.NewDetector()
	traceMW := trace.NewMiddleware(clientIP)

	rejectRateLimited := func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError("Too many requests, please try again later").Write(w)
	}

	// Chain outermost first: trace, rate limit, CORS, security headers,
	// panic recovery, then the mux.
	var handler http.Handler = mux
	handler = s.recoverPanics(handler)
	handler = headersMW.Middleware(handler)
	handler = detector.Middleware(clientIP)(handler)
	handler = corsMW.Handler(handler)
	handler = s.limiter.Middleware(clientIP, rejectRateLimited)(handler)
	handler = traceMW.Middleware(handler)
	handler = applog.Middleware(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// Shutdown stops the rate limiter's cleanup loop and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireAuth verifies the bearer token and attaches the caller's identity
// to the request context. It fails closed on anything unexpected.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok {
			UnauthorizedError("Access token required").Write(w)
			return
		}

		id, err := s.tokens.Verify(token)
		if err != nil {
			UnauthorizedError("Invalid or expired token").Write(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// recoverPanics converts handler panics into a 500 response. Error detail
// is only exposed outside production.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panic",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path)

				message := "Internal server error"
				if !s.isProduction {
					if err, ok := rec.(error); ok {
						message = err.Error()
					}
				}
				NewJSONResponse().Status(http.StatusInternalServerError).Payload(map[string]string{
					"error":   "Something went wrong!",
					"message": message,
				}).Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]string{
		"status":  "OK",
		"message": "Expense Tracker API is running",
	}).Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundError("Route not found").Write(w)
}
