package repository

import (
	"context"

	"github.com/slotdeck/server/internal/domain"
)

// Snapshot defines the interface for the remote per-user grid document.
// Each successful Put increments the document's version counter; the new
// version is returned to the caller for observability.
type Snapshot interface {
	// GetSnapshot returns domain.ErrSnapshotNotFound when uid has no document.
	GetSnapshot(ctx context.Context, uid string) (*domain.Snapshot, error)
	PutSnapshot(ctx context.Context, uid string, snapshot domain.Snapshot) (int64, error)
	DeleteSnapshot(ctx context.Context, uid string) error
}
