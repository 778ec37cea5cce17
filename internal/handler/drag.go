package handler

import (
	"net/http"

	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
)

type DragStartRequest struct {
	FromSlot int `json:"from_slot" validate:"gte=0"`
}

// HandleDragStart begins a drag from an occupied slot
func HandleDragStart(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req DragStartRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Drag start"); err != nil {
			return
		}

		if err := svc.BeginDrag(req.FromSlot); err != nil {
			log.Warn("Drag start rejected", "error", err, "from", req.FromSlot)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, svc.DragState())
	}
}

type DragOverRequest struct {
	Slot int `json:"slot" validate:"gte=0"`
}

// HandleDragOver updates the hover hint for the active drag
func HandleDragOver(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req DragOverRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Drag over"); err != nil {
			return
		}

		if err := svc.DragOver(req.Slot); err != nil {
			log.Warn("Drag over rejected", "error", err, "slot", req.Slot)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, svc.DragState())
	}
}

type DropRequest struct {
	ToSlot int `json:"to_slot" validate:"gte=0"`
}

// DropResponse pairs the cleared drag state with the resulting grid
type DropResponse struct {
	Drag inventory.DragState `json:"drag"`
	Grid interface{}         `json:"grid"`
}

// HandleDrop commits the active drag as a swap into the target slot
func HandleDrop(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req DropRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Drop"); err != nil {
			return
		}

		if err := svc.Drop(req.ToSlot); err != nil {
			log.Warn("Drop rejected", "error", err, "to", req.ToSlot)
			respondServiceError(w, err)
			return
		}

		metrics.InventorySwaps.Inc()
		log.Info("Drop committed", "to", req.ToSlot)
		respondJSON(w, http.StatusOK, DropResponse{
			Drag: svc.DragState(),
			Grid: svc.Snapshot(),
		})
	}
}

// HandleDragCancel abandons the active drag without touching the grid.
// Cancelling with no drag active is a no-op.
func HandleDragCancel(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CancelDrag()
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgDragCancelled})
	}
}

// HandleGetDragState returns the in-flight drag, if any
func HandleGetDragState(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.DragState())
	}
}
