package clock

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/google/uuid"
)

// ErrClockNotFound is returned when removing a clock id that is not on the board.
var ErrClockNotFound = errors.New("clock not found")

// Item is one clock on the board.
type Item struct {
	ID    string `json:"id"`
	Zone  string `json:"zone"`
	Label string `json:"label"`
}

// Board is an ordered set of world clocks.
type Board struct {
	items []Item
	mu    sync.RWMutex
}

// NewBoard returns a board seeded with the caller's zone, UTC, New York and London.
func NewBoard(localZone string) *Board {
	b := &Board{}
	if tzconvert.IsValidZone(localZone) {
		b.items = append(b.items, Item{ID: uuid.NewString(), Zone: localZone, Label: "Local Time"})
	}
	b.items = append(b.items,
		Item{ID: uuid.NewString(), Zone: "UTC", Label: "UTC"},
		Item{ID: uuid.NewString(), Zone: "America/New_York", Label: "New York"},
		Item{ID: uuid.NewString(), Zone: "Europe/London", Label: "London"},
	)
	return b
}

// Add appends a clock for zone. An empty label is derived from the zone.
func (b *Board) Add(zone, label string) (Item, error) {
	if _, err := tzconvert.LoadZone(zone); err != nil {
		return Item{}, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = LabelFor(zone)
	}
	item := Item{ID: uuid.NewString(), Zone: zone, Label: label}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, item)
	return item, nil
}

// Remove deletes the clock with the given id.
func (b *Board) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, item := range b.items {
		if item.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return ErrClockNotFound
}

// Items returns a copy of the clocks in display order.
func (b *Board) Items() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Snapshot describes every clock at the same instant.
func (b *Board) Snapshot(now time.Time) []Description {
	items := b.Items()
	out := make([]Description, 0, len(items))
	for _, item := range items {
		d, err := Describe(item.Zone, now)
		if err != nil {
			// Zones are validated on Add, so this only trips on a stale tzdata.
			continue
		}
		d.Label = item.Label
		out = append(out, *d)
	}
	return out
}
