// Package limits caps concurrent live connections per client address.
package limits

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// ConnectionLimiter counts open connections per client IP.
type ConnectionLimiter struct {
	maxPerIP int

	mu     sync.Mutex
	counts map[string]int

	blocked atomic.Int64
}

// NewConnectionLimiter creates a limiter. A maxPerIP of zero or less
// disables the limit.
func NewConnectionLimiter(maxPerIP int) *ConnectionLimiter {
	return &ConnectionLimiter{maxPerIP: maxPerIP, counts: make(map[string]int)}
}

// Acquire takes a slot for ip and reports whether one was free.
func (cl *ConnectionLimiter) Acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.maxPerIP > 0 && cl.counts[ip] >= cl.maxPerIP {
		cl.blocked.Add(1)
		return false
	}
	cl.counts[ip]++
	return true
}

// Release frees a slot taken by Acquire.
func (cl *ConnectionLimiter) Release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.counts[ip] <= 1 {
		delete(cl.counts, ip)
		return
	}
	cl.counts[ip]--
}

// Count returns the open connections of ip.
func (cl *ConnectionLimiter) Count(ip string) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.counts[ip]
}

// Blocked returns how many connections were refused.
func (cl *ConnectionLimiter) Blocked() int64 {
	return cl.blocked.Load()
}

// Middleware holds a slot for the lifetime of each request, which for a
// websocket upgrade is the whole session.
func (cl *ConnectionLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !cl.Acquire(ip) {
			http.Error(w, "too many connections", http.StatusTooManyRequests)
			return
		}
		defer cl.Release(ip)
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of the request's remote address. Proxy
// headers are expected to have been applied to RemoteAddr already.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
