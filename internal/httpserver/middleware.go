package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"funkosrest/internal/apperr"
)

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lg.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows perMinute requests per client IP with a burst of the
// same size. perMinute <= 0 disables it.
func RateLimit(perMinute int, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			v, ok := visitors[ip]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)}
				visitors[ip] = v
			}
			v.lastSeen = time.Now()
			for k, other := range visitors {
				if time.Since(other.lastSeen) > 30*time.Minute {
					delete(visitors, k)
				}
			}
			allowed := v.limiter.Allow()
			mu.Unlock()

			if !allowed {
				lg.Warnw("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				apperr.WriteHTTP(w, r, lg, apperr.TooManyRequests("Demasiados intentos, inténtelo más tarde"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
