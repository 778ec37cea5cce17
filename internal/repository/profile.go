package repository

import (
	"context"

	"github.com/slotdeck/server/internal/domain"
)

// Profile defines the interface for profile persistence
type Profile interface {
	// GetProfile returns domain.ErrProfileNotFound when uid has no profile.
	GetProfile(ctx context.Context, uid string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile domain.Profile) error
	// MergeProfile applies only the non-nil fields of update.
	MergeProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error
}
