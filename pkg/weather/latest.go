package weather

import (
	"context"
	"sync"
)

// Ticket identifies one weather request.
type Ticket struct {
	Zone string
	seq  uint64
}

// Latest holds the weather for the most recently requested zone. Responses to
// requests that were superseded while in flight are dropped.
type Latest struct {
	current *Data
	seq     uint64
	mu      sync.Mutex
}

// Begin registers a request for zone, superseding all earlier tickets.
func (l *Latest) Begin(zone string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return Ticket{Zone: zone, seq: l.seq}
}

// Apply stores d if t is still the newest ticket and reports whether it did.
// A nil d clears the current weather.
func (l *Latest) Apply(t Ticket, d *Data) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.seq != l.seq {
		return false
	}
	l.current = d
	return true
}

// Current returns the last applied weather, or nil.
func (l *Latest) Current() *Data {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Refresh fetches zone's weather through c and applies it. It reports false
// without error when a newer Refresh started in the meantime, whether or not
// this fetch failed. A failed fetch that is still the newest clears Current.
func (l *Latest) Refresh(ctx context.Context, c *Client, zone string) (*Data, bool, error) {
	t := l.Begin(zone)
	d, err := c.Current(ctx, zone)
	if err != nil {
		if !l.Apply(t, nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !l.Apply(t, d) {
		return nil, false, nil
	}
	return d, true, nil
}
