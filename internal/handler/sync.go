package handler

import (
	"net/http"

	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/syncer"
)

// HandleGetSyncState returns the sync controller's current status
func HandleGetSyncState(ctrl *syncer.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, ctrl.State())
	}
}

// HandleSaveNow forces an immediate snapshot write, bypassing the debounce
func HandleSaveNow(ctrl *syncer.Controller, inv inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := ctrl.SaveNow(r.Context(), inv.Snapshot()); err != nil {
			log.Warn("Manual save failed", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Manual save completed")
		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgSnapshotSaved,
			Data:    ctrl.State(),
		})
	}
}

type SetOnlineRequest struct {
	Online bool `json:"online"`
}

// HandleSetOnline flips the connectivity flag. Coming back online with
// unsaved changes triggers a save.
func HandleSetOnline(ctrl *syncer.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetOnlineRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set online"); err != nil {
			return
		}

		ctrl.SetOnline(r.Context(), req.Online)

		log.Info("Connectivity updated", "online", req.Online)
		respondJSON(w, http.StatusOK, ctrl.State())
	}
}

type SetAutoSaveRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleSetAutoSave toggles the debounced auto-save
func HandleSetAutoSave(ctrl *syncer.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetAutoSaveRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set auto-save"); err != nil {
			return
		}

		ctrl.SetAutoSave(req.Enabled)

		log.Info("Auto-save updated", "enabled", req.Enabled)
		respondJSON(w, http.StatusOK, ctrl.State())
	}
}

// HandleClearSyncError dismisses the last failure message without
// touching the dirty flag
func HandleClearSyncError(ctrl *syncer.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl.ClearError()
		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgSyncErrorCleared,
			Data:    ctrl.State(),
		})
	}
}
