package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotdeck/server/internal/domain"
)

// SnapshotRepository implements the snapshot repository for PostgreSQL.
// The grid document is stored as a single JSONB column per user; the
// version counter lives beside it and increments on every write.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetSnapshot retrieves the grid document for uid
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, uid string) (*domain.Snapshot, error) {
	query := `SELECT document, version FROM inventory_snapshots WHERE uid = $1`

	var raw []byte
	var version int64
	err := r.db.QueryRow(ctx, query, uid).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSnapshot, err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSnapshot, err)
	}
	snapshot.Version = version
	return &snapshot, nil
}

// PutSnapshot upserts the grid document and returns the new version.
// The counter is maintained server-side so concurrent writers still
// observe a strictly increasing sequence.
func (r *SnapshotRepository) PutSnapshot(ctx context.Context, uid string, snapshot domain.Snapshot) (int64, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPutSnapshot, err)
	}

	query := `
		INSERT INTO inventory_snapshots (uid, document, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (uid) DO UPDATE
		SET document = EXCLUDED.document,
		    version = inventory_snapshots.version + 1,
		    updated_at = NOW()
		RETURNING version
	`
	var version int64
	if err := r.db.QueryRow(ctx, query, uid, raw).Scan(&version); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPutSnapshot, err)
	}
	return version, nil
}

// DeleteSnapshot removes the grid document for uid. Idempotent.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, uid string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM inventory_snapshots WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteSnapshot, err)
	}
	return nil
}
