package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotdeck/server/internal/domain"
)

// ProfileRepository implements the profile repository for PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile retrieves the gameplay profile for uid
func (r *ProfileRepository) GetProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	query := `SELECT uid, level, xp, created_at, last_login FROM user_profiles WHERE uid = $1`

	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&profile.UID,
		&profile.Level,
		&profile.XP,
		&profile.CreatedAt,
		&profile.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProfile, err)
	}
	return &profile, nil
}

// UpsertProfile writes the full profile row
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		INSERT INTO user_profiles (uid, level, xp, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE
		SET level = EXCLUDED.level, xp = EXCLUDED.xp, last_login = EXCLUDED.last_login
	`
	_, err := r.db.Exec(ctx, query, profile.UID, profile.Level, profile.XP, profile.CreatedAt, profile.LastLogin)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertProfile, err)
	}
	return nil
}

// MergeProfile applies only the non-nil fields of update to the stored
// row. COALESCE keeps the stored value for absent fields.
func (r *ProfileRepository) MergeProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	query := `
		UPDATE user_profiles
		SET level = COALESCE($2, level),
		    xp = COALESCE($3, xp),
		    last_login = COALESCE($4, last_login)
		WHERE uid = $1
	`
	tag, err := r.db.Exec(ctx, query, uid, update.Level, update.XP, update.LastLogin)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMergeProfile, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
