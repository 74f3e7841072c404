package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
)

// RateLimiter gates tool requests per authenticated identity.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// InProcessLimiter enforces per-minute request budgets in memory.
// Budgets are resolved from the identity's service tier, falling back
// to a default when the tier has no explicit entry. Every rejection is
// counted in the rate-limit metric under the rejected tier.
type InProcessLimiter struct {
	tierRPM    map[string]int
	defaultRPM int

	mu      sync.Mutex
	windows map[string]*usageWindow
}

type usageWindow struct {
	used      int
	startedAt time.Time
}

// NewInProcessLimiter builds a limiter from per-tier requests-per-minute
// budgets as they appear in configuration. A budget of zero or below
// disables limiting for that tier.
func NewInProcessLimiter(tierRPM map[string]int, defaultRPM int) *InProcessLimiter {
	return &InProcessLimiter{
		tierRPM:    tierRPM,
		defaultRPM: defaultRPM,
		windows:    make(map[string]*usageWindow),
	}
}

// Allow reports whether the identity has budget left in the current
// minute window. It returns ErrTooManyRequests once the budget is
// exhausted and fails open when no budget applies.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	tier := identity.ServiceTier
	if tier == "" {
		tier = "default"
	}

	budget, ok := l.tierRPM[tier]
	if !ok {
		budget = l.defaultRPM
	}
	if budget <= 0 {
		return nil
	}

	key := identity.Subject + ":" + tier

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.windows[key]
	if w == nil || now.Sub(w.startedAt) >= time.Minute {
		l.windows[key] = &usageWindow{used: 1, startedAt: now}
		return nil
	}

	w.used++
	if w.used > budget {
		observability.RateLimitRejectedTotal.WithLabelValues(tier).Inc()
		return ErrTooManyRequests
	}

	return nil
}
