package http

import (
	"net"
	"net/http"
)

// clientKey prefers the caller-supplied user id so one busy NAT does not
// starve everyone behind it.
func clientKey(r *http.Request) string {
	if id := r.Header.Get(userIDHeader); id != "" {
		return id
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func RateLimitMiddleware(limiter *RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientKey(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
