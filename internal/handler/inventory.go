package handler

import (
	"net/http"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/item"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
)

// InventoryResponse is the full grid view returned by GET /inventory
type InventoryResponse struct {
	Slots      [domain.SlotCount]*domain.PlacedItem `json:"slots"`
	UsedSlots  int                                  `json:"used_slots"`
	EmptySlots int                                  `json:"empty_slots"`
}

// HandleGetInventory returns the current grid contents
func HandleGetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		used := 0
		for _, p := range snap.InventorySlots {
			if p != nil {
				used++
			}
		}

		respondJSON(w, http.StatusOK, InventoryResponse{
			Slots:      snap.InventorySlots,
			UsedSlots:  used,
			EmptySlots: domain.SlotCount - used,
		})
	}
}

type PlaceItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
	Slot   int    `json:"slot" validate:"gte=0"`
}

// HandlePlaceItem puts a catalog item into a slot, overwriting any occupant
func HandlePlaceItem(svc inventory.Service, catalog *item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req PlaceItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Place item"); err != nil {
			return
		}

		it, err := catalog.Get(req.ItemID)
		if err != nil {
			log.Warn("Unknown item in place request", "item_id", req.ItemID)
			respondServiceError(w, err)
			return
		}

		if err := svc.Place(it, req.Slot); err != nil {
			log.Warn("Place item failed", "error", err, "item_id", req.ItemID, "slot", req.Slot)
			respondServiceError(w, err)
			return
		}

		log.Info("Item placed", "item_id", req.ItemID, "slot", req.Slot)
		respondJSON(w, http.StatusOK, svc.Snapshot())
	}
}

type RemoveSlotRequest struct {
	Slot int `json:"slot" validate:"gte=0"`
}

// HandleRemoveSlot empties a slot. Removing an empty slot is a no-op.
func HandleRemoveSlot(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RemoveSlotRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Remove slot"); err != nil {
			return
		}

		if err := svc.Remove(req.Slot); err != nil {
			log.Warn("Remove slot failed", "error", err, "slot", req.Slot)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, svc.Snapshot())
	}
}

type SwapRequest struct {
	FromSlot int `json:"from_slot" validate:"gte=0"`
	ToSlot   int `json:"to_slot" validate:"gte=0"`
}

// HandleSwap exchanges the contents of two slots
func HandleSwap(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SwapRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Swap slots"); err != nil {
			return
		}

		if err := svc.Swap(req.FromSlot, req.ToSlot); err != nil {
			log.Warn("Swap failed", "error", err, "from", req.FromSlot, "to", req.ToSlot)
			respondServiceError(w, err)
			return
		}

		metrics.InventorySwaps.Inc()
		log.Info("Slots swapped", "from", req.FromSlot, "to", req.ToSlot)
		respondJSON(w, http.StatusOK, svc.Snapshot())
	}
}

// HandleResetInventory restores the default catalog placement
func HandleResetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		svc.Reset()

		log.Info("Inventory reset to defaults")
		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgInventoryReset,
			Data:    svc.Snapshot(),
		})
	}
}

// HandleClearInventory empties every slot
func HandleClearInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		svc.Clear()

		log.Info("Inventory cleared")
		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgInventoryCleared,
			Data:    svc.Snapshot(),
		})
	}
}

// HandleGetItems returns the full item catalog
func HandleGetItems(catalog *item.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: catalog.All()})
	}
}
