package cards

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// LabelHoldTTL is how long a committed label wins over polled labels
const LabelHoldTTL = 5 * time.Second

// LabelHolds remembers labels the user just committed so that polls which
// were already in flight cannot briefly put the old name back.
type LabelHolds struct {
	cache *ttlcache.Cache[string, string]
}

// NewLabelHolds creates a hold set. A zero ttl uses LabelHoldTTL.
func NewLabelHolds(ttl time.Duration) *LabelHolds {
	if ttl <= 0 {
		ttl = LabelHoldTTL
	}
	return &LabelHolds{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Hold registers the label expected for a light
func (h *LabelHolds) Hold(lightID, label string) {
	h.cache.Set(lightID, label, ttlcache.DefaultTTL)
}

// ShouldIgnore reports whether an incoming label must not be applied.
// A label that differs from the held one is a stale echo. A matching label
// confirms the rename and releases the hold.
func (h *LabelHolds) ShouldIgnore(lightID, incoming string) bool {
	item := h.cache.Get(lightID)
	if item == nil {
		return false
	}
	if item.IsExpired() {
		h.cache.Delete(lightID)
		return false
	}

	// The card already shows the held label either way
	if item.Value() == incoming {
		h.cache.Delete(lightID)
	}
	return true
}

// Held reports whether a light currently has a label hold
func (h *LabelHolds) Held(lightID string) bool {
	item := h.cache.Get(lightID)
	return item != nil && !item.IsExpired()
}

// Release drops a hold without waiting for confirmation
func (h *LabelHolds) Release(lightID string) {
	h.cache.Delete(lightID)
}

// Cleanup removes expired holds
func (h *LabelHolds) Cleanup() {
	h.cache.DeleteExpired()
}

// Len returns the number of holds, including expired ones not yet cleaned up
func (h *LabelHolds) Len() int {
	return h.cache.Len()
}
