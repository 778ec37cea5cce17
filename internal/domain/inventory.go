package domain

import "time"

// SlotCount is the fixed size of the dashboard grid
const SlotCount = 48

// Inventory represents the full grid: a fixed-length ordered array where
// each position is either nil or a PlacedItem whose Slot field equals its
// index. An item ID appears in at most one slot.
type Inventory struct {
	Slots [SlotCount]*PlacedItem
}

// Snapshot is the remote document shape persisted per user.
// Saves are idempotent full-snapshot overwrites, not deltas.
type Snapshot struct {
	InventorySlots [SlotCount]*PlacedItem `json:"inventory_slots"`
	LastUpdated    time.Time              `json:"last_updated"`
	Version        int64                  `json:"version"`
}

// Snapshot produces a deep copy of the grid suitable for persistence.
func (inv *Inventory) Snapshot() Snapshot {
	var snap Snapshot
	for i, p := range inv.Slots {
		if p == nil {
			continue
		}
		cp := *p
		snap.InventorySlots[i] = &cp
	}
	return snap
}

// Count returns the number of occupied slots
func (inv *Inventory) Count() int {
	n := 0
	for _, p := range inv.Slots {
		if p != nil {
			n++
		}
	}
	return n
}

// ValidSlot reports whether i addresses a grid position
func ValidSlot(i int) bool {
	return i >= 0 && i < SlotCount
}
