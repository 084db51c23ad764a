package api

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"messagebridge/internal/config"
	"messagebridge/internal/logger"
)

// SecurityMiddleware wraps next with CORS, IP allowlisting, API-key auth,
// and per-key rate limiting, in that order.
func SecurityMiddleware(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	limiters := &limiterPool{rps: cfg.RateLimit.RPS, burst: cfg.RateLimit.Burst}
	keys := make(map[string]struct{}, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		keys[k] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogRequest(r)

			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.CORS.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-API-Key")
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if r.URL.Path == "/healthz" && r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if len(cfg.IPWhitelist) > 0 {
				ip := clientIP(r)
				if !ipWhitelisted(ip, cfg.IPWhitelist) {
					logger.AuditLog.Warn("request blocked: ip not whitelisted", zap.String("ip", ip), zap.String("path", r.URL.Path))
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}

			key := apiKey(r)
			if _, ok := keys[key]; key == "" || !ok {
				logger.AuditLog.Warn("request unauthorized: missing or invalid api key", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !limiters.Allow(key) {
				logger.AuditLog.Warn("request rate limited", zap.String("path", r.URL.Path))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ipWhitelisted(ip string, list []string) bool {
	for _, w := range list {
		if ip == w {
			return true
		}
	}
	return false
}

func apiKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return r.Header.Get("X-API-Key")
}

type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	rps := p.rps
	if rps <= 0 {
		rps = 10
	}
	burst := p.burst
	if burst <= 0 {
		burst = 20
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = l
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}
