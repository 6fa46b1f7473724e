package zones

import (
	"slices"
	"sync"

	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
)

// Recent is a most-recently-used list of zone ids.
type Recent struct {
	items []string
	limit int
	mu    sync.Mutex
}

// NewRecent returns an empty list that holds at most limit zones.
// A non-positive limit uses the default of 5.
func NewRecent(limit int) *Recent {
	if limit <= 0 {
		limit = constants.MaxRecentTimezones
	}
	return &Recent{limit: limit}
}

// Add moves zone to the front, evicting the oldest entry past the limit.
func (r *Recent) Add(zone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = slices.DeleteFunc(r.items, func(z string) bool { return z == zone })
	r.items = slices.Insert(r.items, 0, zone)
	if len(r.items) > r.limit {
		r.items = r.items[:r.limit]
	}
}

// List returns the zones, most recent first.
func (r *Recent) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Clear empties the list.
func (r *Recent) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
