package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// loginLimiter holds one token bucket per user. Idle buckets are pruned on
// access once the map grows past pruneThreshold.
type loginLimiter struct {
	mu             sync.Mutex
	limiters       map[uuid.UUID]*loginLimiterEntry
	limit          rate.Limit
	burst          int
	idleTTL        time.Duration
	pruneThreshold int
	now            func() time.Time
}

type loginLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// newLoginLimiter allows perMinute sustained attempts per user with the given
// burst. A zero rate disables throttling.
func newLoginLimiter(perMinute float64, burst int) *loginLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limiters:       make(map[uuid.UUID]*loginLimiterEntry),
		limit:          limit,
		burst:          burst,
		idleTTL:        15 * time.Minute,
		pruneThreshold: 1024,
		now:            time.Now,
	}
}

// allow consumes one attempt for userID.
func (l *loginLimiter) allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.limiters) >= l.pruneThreshold {
		l.pruneLocked(now)
	}

	entry, ok := l.limiters[userID]
	if !ok {
		entry = &loginLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastAccess = now
	return entry.limiter.AllowN(now, 1)
}

// reset forgets the bucket of userID after a successful login.
func (l *loginLimiter) reset(userID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, userID)
}

func (l *loginLimiter) pruneLocked(now time.Time) {
	for userID, entry := range l.limiters {
		if now.Sub(entry.lastAccess) > l.idleTTL {
			delete(l.limiters, userID)
		}
	}
}
