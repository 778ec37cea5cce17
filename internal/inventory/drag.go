package inventory

import (
	"fmt"

	"github.com/slotdeck/server/internal/domain"
)

// Drag protocol: Idle -> Dragging(fromSlot) -> Idle. A drop commits a
// swap; a cancel commits nothing. DragOver updates only the UI hint.

// BeginDrag starts dragging from fromSlot. Starting a new drag while one
// is active fails; the caller must drop or cancel first.
func (s *service) BeginDrag(fromSlot int) error {
	if !domain.ValidSlot(fromSlot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, fromSlot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag.Dragging {
		return domain.ErrDragActive
	}
	s.drag = DragState{Dragging: true, FromSlot: fromSlot, DragOverSlot: -1}
	return nil
}

// DragOver records the slot currently hovered. Purely a hint; committed
// state is untouched until Drop.
func (s *service) DragOver(slot int) error {
	if !domain.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, slot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.drag.Dragging {
		return domain.ErrNoDrag
	}
	s.drag.DragOverSlot = slot
	return nil
}

// Drop ends the drag, swapping the origin and target slots. Dropping onto
// the origin slot is a no-op.
func (s *service) Drop(toSlot int) error {
	if !domain.ValidSlot(toSlot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, toSlot)
	}

	s.mu.Lock()
	if !s.drag.Dragging {
		s.mu.Unlock()
		return domain.ErrNoDrag
	}
	from := s.drag.FromSlot
	s.drag = DragState{FromSlot: -1, DragOverSlot: -1}
	s.mu.Unlock()

	return s.Swap(from, toSlot)
}

// CancelDrag abandons the drag without mutating the grid.
func (s *service) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = DragState{FromSlot: -1, DragOverSlot: -1}
}

// DragState returns the current drag state.
func (s *service) DragState() DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag
}
