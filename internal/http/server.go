// Package http provides the JSON API server and its handlers.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"plenio/internal/auth"
	"plenio/internal/cache"
	"plenio/internal/core"
	"plenio/internal/log"
	"plenio/internal/middleware/ratelimit"
	"plenio/internal/middleware/security"
	"plenio/internal/middleware/trace"
	"plenio/internal/services"
	"plenio/internal/store"
)

// Options bundles the tunables NewServer needs beyond its collaborators.
type Options struct {
	Addr      string
	CacheSize int
	CacheTTL  time.Duration
}

// Server is the API server. Stats responses are memoized in per-user LRU
// caches; every write through the transaction, category, payment-method or
// budget handlers invalidates the owning user's entries.
type Server struct {
	http.Server

	store store.Store
	txns  *services.TransactionService

	limiter  *ratelimit.Limiter
	detector *security.Detector

	cacheManager *cache.Manager
	summaryCache *cache.LRUCache[summaryResponse]
	monthlyCache *cache.LRUCache[monthlyStatsResponse]
	statusCache  *cache.LRUCache[[]core.BudgetStatus]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, st store.Store, txns *services.TransactionService, verifier auth.Verifier) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}

	s := &Server{
		store:        st,
		txns:         txns,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     security.NewDetector(),
		cacheManager: cache.NewManager(),
		summaryCache: cache.NewLRUCache[summaryResponse](opts.CacheSize, opts.CacheTTL),
		monthlyCache: cache.NewLRUCache[monthlyStatsResponse](opts.CacheSize, opts.CacheTTL),
		statusCache:  cache.NewLRUCache[[]core.BudgetStatus](opts.CacheSize, opts.CacheTTL),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.monthlyCache)
	s.cacheManager.Register(s.statusCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: s.buildHandler(verifier),
	}
	return s
}

func (s *Server) buildHandler(verifier auth.Verifier) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/", s.handleRoot)

	api.HandleFunc("POST /api/users/profile", s.handleUpsertProfile)
	api.HandleFunc("GET /api/users/profile", s.handleGetProfile)

	api.HandleFunc("POST /api/payment-methods", s.handleCreatePaymentMethod)
	api.HandleFunc("GET /api/payment-methods", s.handleListPaymentMethods)
	api.HandleFunc("PUT /api/payment-methods/{id}", s.handleUpdatePaymentMethod)
	api.HandleFunc("DELETE /api/payment-methods/{id}", s.handleDeletePaymentMethod)

	api.HandleFunc("POST /api/categories", s.handleCreateCategory)
	api.HandleFunc("GET /api/categories", s.handleListCategories)
	api.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	api.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	api.HandleFunc("GET /api/budgets", s.handleListBudgets)
	api.HandleFunc("GET /api/budgets/status", s.handleBudgetStatus)
	api.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	api.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	api.HandleFunc("GET /api/stats/summary", s.handleStatsSummary)
	api.HandleFunc("GET /api/stats/monthly", s.handleStatsMonthly)

	api.HandleFunc("POST /api/suggest-icon", s.handleSuggestIcon)

	authMW := auth.NewMiddleware(verifier)
	limited := s.writeRateLimit(api)

	mux := http.NewServeMux()
	mux.Handle("/api/", authMW.RequireAuth(limited))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	cors := security.CORSMiddleware(security.DefaultCORSConfig())

	return tracer.Middleware(headers.Middleware(cors(s.flagProbes(mux))))
}

// flagProbes logs requests that look like vulnerability scans. They are
// served normally; the log line is for operators, not a block list.
func (s *Server) flagProbes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.Flag(r) {
			slog.WarnContext(r.Context(), "Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// writeRateLimit applies the limiter to mutating methods only; reads are
// served from cache and are cheap enough to leave unmetered.
func (s *Server) writeRateLimit(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.rateLimitKey, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// rateLimitKey buckets authenticated requests per user so clients behind a
// shared NAT don't starve each other; unauthenticated traffic falls back to
// the client IP.
func (s *Server) rateLimitKey(r *http.Request) string {
	if uid, ok := auth.GetUserID(r.Context()); ok {
		return uid
	}
	return s.detector.ExtractClientIP(r)
}

// invalidateUserCaches drops every cached stats response for the user. Called
// after any write that can change totals, balances or budget status.
func (s *Server) invalidateUserCaches(userID string) {
	prefix := "stats:" + userID + ":"
	s.summaryCache.DeletePrefix(prefix)
	s.monthlyCache.DeletePrefix(prefix)
	s.statusCache.DeletePrefix(prefix)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Plenio Budget API"})
}
