package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
)

// RateLimitedMessage is shown when a user clicks faster than allowed
const RateLimitedMessage = "⏱️ 操作が速すぎます。少し待ってからもう一度お試しください。"

// RateLimitConfig configures rate limiting behavior
type RateLimitConfig struct {
	// PerSecond is the sustained rate allowed per key
	PerSecond float64

	// Burst is how many interactions may arrive at once
	Burst int

	// KeyFunc extracts the rate limit key from context; "" skips limiting
	KeyFunc func(*core.InteractionContext) string

	// IdleTTL drops limiters not used for this long
	IdleTTL time.Duration

	Message string

	now func() time.Time
}

// RateLimiter hands out one token bucket per key
type RateLimiter struct {
	config *RateLimitConfig

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastPrune time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter, filling in defaults
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(ctx *core.InteractionContext) string { return ctx.UserID }
	}
	if config.Message == "" {
		config.Message = RateLimitedMessage
	}
	if config.PerSecond <= 0 {
		config.PerSecond = 1
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &RateLimiter{
		config:   config,
		limiters: make(map[string]*limiterEntry),
	}
}

// Allow reports whether key may proceed now
func (l *RateLimiter) Allow(key string) bool {
	now := l.config.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(l.config.PerSecond), l.config.Burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// prune runs at most once per IdleTTL; caller holds mu
func (l *RateLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < l.config.IdleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.config.IdleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastPrune = now
}

// Middleware rejects interactions over the limit with an ephemeral notice
func (l *RateLimiter) Middleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			key := l.config.KeyFunc(ctx)
			if key == "" || l.Allow(key) {
				return next.Handle(ctx)
			}
			return &core.HandlerResult{
				Response: core.NewEphemeralResponse(l.config.Message),
			}, nil
		})
	}
}

// UserRateLimitMiddleware applies per-user rate limiting
func UserRateLimitMiddleware(perSecond float64, burst int) core.Middleware {
	return NewRateLimiter(&RateLimitConfig{
		PerSecond: perSecond,
		Burst:     burst,
	}).Middleware()
}
