package models

import "time"

// URLRecord is the value stored in the key-value backend, keyed by its own
// ShortCode. The JSON tags are the persisted wire shape; timestamps are
// RFC 3339.
type URLRecord struct {
	// OriginalURL is the normalized absolute URL the short code points to.
	OriginalURL string `json:"originalUrl"`
	// ShortCode is the record's key. Never mutated after creation.
	ShortCode string `json:"shortCode"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`
	// ExpiresAt, when set, marks the record expired once in the past. The
	// record is not purged; expiry is evaluated lazily on access.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	// ClickCount is incremented on each successful redirect.
	ClickCount int64 `json:"clickCount"`
	// LastAccessed is set on each successful redirect.
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// Expired reports whether the record is past its expiry at the given time.
// Records without ExpiresAt never expire.
func (r *URLRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
