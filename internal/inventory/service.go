package inventory

import (
	"fmt"
	"sync"

	"github.com/slotdeck/server/internal/domain"
)

// ChangeListener is notified after every committed grid mutation with a
// fresh snapshot. The sync controller registers here to schedule saves.
type ChangeListener func(snapshot domain.Snapshot)

// Service defines the interface for grid operations
type Service interface {
	// Mutations
	Place(item domain.Item, slot int) error
	Remove(slot int) error
	Swap(fromSlot, toSlot int) error
	Reset()
	Clear()
	Hydrate(snapshot domain.Snapshot)

	// Drag protocol
	BeginDrag(fromSlot int) error
	DragOver(slot int) error
	Drop(toSlot int) error
	CancelDrag()
	DragState() DragState

	// Queries
	Snapshot() domain.Snapshot
	UsedSlots() []domain.PlacedItem
	EmptySlots() []int
	FindSlotOf(itemID string) int
	Count() int

	SetChangeListener(fn ChangeListener)
}

// DragState describes the in-flight drag, if any. DragOverSlot is a UI
// hint only and never affects committed state.
type DragState struct {
	Dragging     bool `json:"dragging"`
	FromSlot     int  `json:"from_slot"`
	DragOverSlot int  `json:"drag_over_slot"`
}

// service implements the Service interface. A mutex guards the grid since
// HTTP handlers can hit it concurrently; each operation is atomic from the
// caller's perspective.
type service struct {
	mu       sync.Mutex
	grid     domain.Inventory
	defaults domain.Inventory
	drag     DragState
	listener ChangeListener
}

// NewService creates a grid service seeded with the default placement.
func NewService(defaults domain.Inventory) Service {
	s := &service{defaults: defaults}
	s.grid = cloneInventory(defaults)
	s.drag = DragState{FromSlot: -1, DragOverSlot: -1}
	return s
}

// SetChangeListener registers the listener notified on committed mutations.
func (s *service) SetChangeListener(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
}

// Place puts item into slot, overwriting any current occupant. The item's
// previous slot, if any, is vacated so an id never occupies two slots.
func (s *service) Place(it domain.Item, slot int) error {
	if !domain.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, slot)
	}

	s.mu.Lock()
	if prev := s.findSlotLocked(it.ID); prev != -1 && prev != slot {
		s.grid.Slots[prev] = nil
	}
	s.grid.Slots[slot] = &domain.PlacedItem{Item: it, Slot: slot}
	snap, fn := s.commitLocked()
	s.mu.Unlock()

	notify(fn, snap)
	return nil
}

// Remove empties slot. Removing an already-empty slot is a no-op.
func (s *service) Remove(slot int) error {
	if !domain.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, slot)
	}

	s.mu.Lock()
	if s.grid.Slots[slot] == nil {
		s.mu.Unlock()
		return nil
	}
	s.grid.Slots[slot] = nil
	snap, fn := s.commitLocked()
	s.mu.Unlock()

	notify(fn, snap)
	return nil
}

// Swap exchanges the contents of two slots. When one side is empty this
// degenerates to a move. Swapping a slot with itself is a no-op.
func (s *service) Swap(fromSlot, toSlot int) error {
	if !domain.ValidSlot(fromSlot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, fromSlot)
	}
	if !domain.ValidSlot(toSlot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, toSlot)
	}
	if fromSlot == toSlot {
		return nil
	}

	s.mu.Lock()
	a, b := s.grid.Slots[fromSlot], s.grid.Slots[toSlot]
	if a == nil && b == nil {
		s.mu.Unlock()
		return nil
	}
	s.grid.Slots[fromSlot], s.grid.Slots[toSlot] = b, a
	if s.grid.Slots[fromSlot] != nil {
		s.grid.Slots[fromSlot].Slot = fromSlot
	}
	if s.grid.Slots[toSlot] != nil {
		s.grid.Slots[toSlot].Slot = toSlot
	}
	snap, fn := s.commitLocked()
	s.mu.Unlock()

	notify(fn, snap)
	return nil
}

// Reset restores the default catalog placement.
func (s *service) Reset() {
	s.mu.Lock()
	s.grid = cloneInventory(s.defaults)
	snap, fn := s.commitLocked()
	s.mu.Unlock()

	notify(fn, snap)
}

// Clear empties every slot.
func (s *service) Clear() {
	s.mu.Lock()
	s.grid = domain.Inventory{}
	snap, fn := s.commitLocked()
	s.mu.Unlock()

	notify(fn, snap)
}

// Hydrate replaces the grid with a persisted snapshot, normalizing Slot
// fields to their indices. Does not notify the change listener: hydration
// reflects remote state, not a local edit.
func (s *service) Hydrate(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid = domain.Inventory{}
	for i, p := range snapshot.InventorySlots {
		if p == nil {
			continue
		}
		cp := *p
		cp.Slot = i
		s.grid.Slots[i] = &cp
	}
}

// Snapshot returns a deep copy of the current grid.
func (s *service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot()
}

// UsedSlots returns copies of all occupied slot records in slot order.
func (s *service) UsedSlots() []domain.PlacedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var used []domain.PlacedItem
	for _, p := range s.grid.Slots {
		if p != nil {
			used = append(used, *p)
		}
	}
	return used
}

// EmptySlots returns the indices of all vacant slots.
func (s *service) EmptySlots() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var empty []int
	for i, p := range s.grid.Slots {
		if p == nil {
			empty = append(empty, i)
		}
	}
	return empty
}

// FindSlotOf returns the slot holding itemID, or -1 when absent.
func (s *service) FindSlotOf(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSlotLocked(itemID)
}

// Count returns the number of occupied slots.
func (s *service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Count()
}

func (s *service) findSlotLocked(itemID string) int {
	for i, p := range s.grid.Slots {
		if p != nil && p.ID == itemID {
			return i
		}
	}
	return -1
}

// commitLocked captures the snapshot and listener while the lock is held.
// The notification itself runs outside the lock.
func (s *service) commitLocked() (domain.Snapshot, ChangeListener) {
	return s.grid.Snapshot(), s.listener
}

func notify(fn ChangeListener, snap domain.Snapshot) {
	if fn != nil {
		fn(snap)
	}
}

func cloneInventory(inv domain.Inventory) domain.Inventory {
	var out domain.Inventory
	for i, p := range inv.Slots {
		if p == nil {
			continue
		}
		cp := *p
		out.Slots[i] = &cp
	}
	return out
}
