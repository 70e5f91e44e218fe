package trace

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"plenio/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string

	requests    int64
	totalMicros int64
}

// Metrics is a snapshot of the request counters.
type Metrics struct {
	TotalRequests       int64
	AverageResponseTime int64 // mean duration in microseconds
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		
		// Extract client IP
		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}
		
		// Generate request ID for tracing
		requestID := GenerateRequestID()
		
		// Add request context with metadata and request ID
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		// Echo the ID so clients can quote it when reporting problems
		w.Header().Set("X-Request-ID", requestID)
		
		slog.InfoContext(ctx, "HTTP request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldQuery, r.URL.RawQuery,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"),
			log.FieldReferer, r.Header.Get("Referer"),
			"content_length", r.ContentLength,
			"protocol", r.Proto)
		
		// Track total requests
		atomic.AddInt64(&m.requests, 1)
		
		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		
		// Enhanced request completion logging
		duration := time.Since(start)
		durationMs := duration.Milliseconds()
		
		// Feed the running mean
		atomic.AddInt64(&m.totalMicros, duration.Microseconds())
		
		// Use appropriate log level based on status code
		logLevel := slog.LevelInfo
		if rw.statusCode >= 400 && rw.statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if rw.statusCode >= 500 {
			logLevel = slog.LevelError
		}
		
		slog.Log(ctx, logLevel, "HTTP request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldQuery, r.URL.RawQuery,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, durationMs,
			log.FieldDurationHuman, duration.String(),
			log.FieldClientIP, clientIP,
			log.FieldSuccess, rw.statusCode < 400)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	n := atomic.LoadInt64(&m.requests)
	var avg int64
	if n > 0 {
		avg = atomic.LoadInt64(&m.totalMicros) / n
	}
	return Metrics{
		TotalRequests:       n,
		AverageResponseTime: avg,
	}
}
