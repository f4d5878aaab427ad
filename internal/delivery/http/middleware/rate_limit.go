package middleware

import (
	"net/http"
	"strings"
	"time"

	"ultimate-kits/pkg/cache"
	"ultimate-kits/pkg/utils"

	"golang.org/x/time/rate"
)

// RatePolicy is a token bucket applied to every path under Prefix. The empty prefix
// matches everything.
type RatePolicy struct {
	Prefix string
	Limit  rate.Limit
	Burst  int
}

// RateLimiter keeps one bucket per client IP and policy. Buckets live in the cache and
// expire after idleTTL without traffic.
type RateLimiter struct {
	buckets  cache.CacheService
	idleTTL  time.Duration
	policies []RatePolicy
}

// NewRateLimiter applies def to every request, or the override with the longest
// matching prefix.
func NewRateLimiter(buckets cache.CacheService, idleTTL time.Duration, def RatePolicy, overrides ...RatePolicy) *RateLimiter {
	def.Prefix = ""
	return &RateLimiter{
		buckets:  buckets,
		idleTTL:  idleTTL,
		policies: append([]RatePolicy{def}, overrides...),
	}
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := rl.policyFor(r.URL.Path)
			if !rl.bucket(policy, ClientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				utils.WriteError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) policyFor(path string) RatePolicy {
	best := rl.policies[0]
	for _, p := range rl.policies[1:] {
		if strings.HasPrefix(path, p.Prefix) && len(p.Prefix) > len(best.Prefix) {
			best = p
		}
	}
	return best
}

func (rl *RateLimiter) bucket(p RatePolicy, ip string) *rate.Limiter {
	key := "ratelimit:" + p.Prefix + "|" + ip
	for {
		if v, ok := rl.buckets.Get(key); ok {
			if limiter, ok := v.(*rate.Limiter); ok {
				rl.buckets.Set(key, limiter, rl.idleTTL)
				return limiter
			}
		}
		limiter := rate.NewLimiter(p.Limit, p.Burst)
		if rl.buckets.Add(key, limiter, rl.idleTTL) {
			return limiter
		}
	}
}
