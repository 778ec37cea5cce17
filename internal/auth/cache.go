package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/slotdeck/server/internal/domain"
)

const (
	defaultCacheSize = 512
	defaultCacheTTL  = 5 * time.Minute
)

// profileCache is an in-memory LRU for profile lookups with time-based
// expiration. Merge-writes invalidate, so a hit is never staler than the
// TTL.
type profileCache struct {
	lru *expirable.LRU[string, *domain.Profile]
}

func newProfileCache(size int, ttl time.Duration) *profileCache {
	return &profileCache{
		lru: expirable.NewLRU[string, *domain.Profile](size, nil, ttl),
	}
}

// Get returns a copy of the cached profile for uid, if present.
func (c *profileCache) Get(uid string) (*domain.Profile, bool) {
	p, found := c.lru.Get(uid)
	if !found {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Set stores a copy of the profile.
func (c *profileCache) Set(uid string, profile *domain.Profile) {
	cp := *profile
	c.lru.Add(uid, &cp)
}

// Invalidate drops the cache entry for uid.
func (c *profileCache) Invalidate(uid string) {
	c.lru.Remove(uid)
}

// attemptTracker counts recent failed logins per email. Entries expire
// with the window, so a quiet period resets the count.
type attemptTracker struct {
	max int
	lru *expirable.LRU[string, int]
}

func newAttemptTracker(max int, window time.Duration) *attemptTracker {
	return &attemptTracker{
		max: max,
		lru: expirable.NewLRU[string, int](4096, nil, window),
	}
}

// Record notes a failed attempt for email.
func (t *attemptTracker) Record(email string) {
	n, _ := t.lru.Get(email)
	t.lru.Add(email, n+1)
}

// Blocked reports whether email has exhausted its attempts.
func (t *attemptTracker) Blocked(email string) bool {
	n, _ := t.lru.Get(email)
	return n >= t.max
}

// Clear resets the attempt count after a successful login.
func (t *attemptTracker) Clear(email string) {
	t.lru.Remove(email)
}
