package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func loggingMiddleware(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			requestID, _ := r.Context().Value(requestIDKey).(string)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Dur("duration", time.Since(start)).
				Str("request_id", requestID).
				Msg("http request")
			metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status/100*100))
		})
	}
}

// rateLimitMiddleware keys limiters by the caller id header, falling back to
// the remote address for anonymous endpoints. A configured redis limiter is
// consulted first so the window is shared across instances; the in-process
// token bucket still applies as a local backstop.
func rateLimitMiddleware(cfg config.RateLimitConfig, redisLimiter domain.RateLimiter) func(http.Handler) http.Handler {
	var limiters sync.Map // map[string]*rate.Limiter

	getLimiter := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			return v.(*rate.Limiter)
		}

		burst := cfg.Burst
		if burst <= 0 {
			burst = 5
		}

		lim := rate.NewLimiter(rate.Limit(cfg.RPS), burst)
		actual, loaded := limiters.LoadOrStore(key, lim)
		if loaded {
			return actual.(*rate.Limiter)
		}
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(models.HeaderUserID)
			if key == "" {
				key = r.RemoteAddr
			}

			if redisLimiter != nil {
				if userID, err := strconv.ParseInt(key, 10, 64); err == nil {
					window := time.Duration(cfg.Window) * time.Second
					allowed, err := redisLimiter.CheckRateLimit(r.Context(), userID, cfg.Requests, window)
					if err == nil && !allowed {
						writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
							Error:   "RateLimit",
							Message: "rate limit exceeded",
						})
						return
					}
				}
			}

			if cfg.RPS > 0 && !getLimiter(key).Allow() {
				writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
					Error:   "RateLimit",
					Message: "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
