package models

import "time"

// CachedPage is the single persisted cache slot.
type CachedPage struct {
	Page      Page      `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

// CacheStats reports the state of the local cache.
type CacheStats struct {
	Present   bool          `json:"present"`
	Fresh     bool          `json:"fresh"`
	Timestamp time.Time     `json:"timestamp,omitempty"`
	Age       time.Duration `json:"age,omitempty"`
	Page      int           `json:"page,omitempty"`
	Movies    int           `json:"movies"`
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Expired   int64         `json:"expired"`
}
