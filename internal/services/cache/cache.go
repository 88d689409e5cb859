package cache

import (
	"context"
	"time"
)

// Entry is a signed URL together with the moment its signature stops working.
type Entry struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry should be re-signed at now, margin ahead of expiry.
func (e Entry) Expired(now time.Time, margin time.Duration) bool {
	return !now.Add(margin).Before(e.ExpiresAt)
}

// URLCache maps a blob locator to its current signed URL.
type URLCache interface {
	Name() string
	Get(ctx context.Context, locator string) (Entry, bool, error)
	Store(ctx context.Context, locator string, entry Entry) error
	Delete(ctx context.Context, locator string) error
	GetStats() LayerStats
}

type LayerStats struct {
	Name    string  `json:"name"`
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// HitRate returns hits as a percentage of all lookups.
func HitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
