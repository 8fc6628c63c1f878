package cache

import "time"

// DefaultMaxAge is how long a cached page stays fresh.
const DefaultMaxAge = 7 * 24 * time.Hour

// Policy decides whether a cached timestamp is still usable.
type Policy struct {
	MaxAge time.Duration
}

// DefaultPolicy returns the seven-day policy.
func DefaultPolicy() Policy {
	return Policy{MaxAge: DefaultMaxAge}
}

// IsFresh reports whether ts is still valid at now. A slot is expired
// exactly at ts+MaxAge.
func (p Policy) IsFresh(ts, now time.Time) bool {
	maxAge := p.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return now.Before(ts.Add(maxAge))
}
