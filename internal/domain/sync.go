package domain

import "time"

// SyncState describes the reconciliation status between the in-memory grid
// and its remote snapshot. Transient; never persisted.
type SyncState struct {
	IsSyncing         bool       `json:"is_syncing"`
	LastSavedAt       *time.Time `json:"last_saved_at,omitempty"`
	HasUnsavedChanges bool       `json:"has_unsaved_changes"`
	IsOnline          bool       `json:"is_online"`
	SyncError         string     `json:"sync_error,omitempty"`
	Version           int64      `json:"version"`
}
