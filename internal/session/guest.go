package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/localstore"
	"github.com/slotdeck/server/internal/logger"
)

// Local storage keys for guest-mode state. The guest manager is the only
// writer of these keys.
const (
	guestModeFlagKey  = "guest-mode-flag"
	guestRecordKey    = "guest-user-record"
	sessionTokenKey   = "session-token"
	guestModeFlagTrue = "true"
)

// guestRecord is the persisted local shape of a guest session.
type guestRecord struct {
	UID         string        `json:"uid"`
	Email       string        `json:"email"`
	DisplayName string        `json:"displayName"`
	PhotoURL    string        `json:"photoURL"`
	Level       int           `json:"level"`
	XP          int           `json:"xp"`
	Metadata    guestMetadata `json:"metadata"`
}

type guestMetadata struct {
	CreationTime   time.Time `json:"creationTime"`
	LastSignInTime time.Time `json:"lastSignInTime"`
}

// GuestManager creates, persists and clears the local-only guest identity
// and profile.
type GuestManager struct {
	store *localstore.Store
	now   func() time.Time
}

// NewGuestManager creates a guest manager over the given local store.
func NewGuestManager(store *localstore.Store) *GuestManager {
	return &GuestManager{store: store, now: time.Now}
}

// CreateGuestSession generates a fresh guest identity with a default
// profile and persists it. Calling it again without clearing overwrites
// the previous guest.
func (m *GuestManager) CreateGuestSession() (domain.Identity, domain.Profile, error) {
	now := m.now()
	uid := fmt.Sprintf("%s%d-%s", domain.GuestUIDPrefix, now.UnixMilli(), uuid.NewString()[:8])

	record := guestRecord{
		UID:         uid,
		DisplayName: "Guest",
		Level:       1,
		XP:          0,
		Metadata:    guestMetadata{CreationTime: now, LastSignInTime: now},
	}

	if err := m.persist(record); err != nil {
		return domain.Identity{}, domain.Profile{}, err
	}

	return record.identity(), record.profile(), nil
}

// CheckGuestMode reads the persisted guest state. A missing flag means no
// guest session. A set flag with a corrupted or missing record is
// recovered by clearing local state; the failure never reaches the
// caller.
func (m *GuestManager) CheckGuestMode() (domain.Identity, domain.Profile, bool) {
	if flag, ok := m.store.Get(guestModeFlagKey); !ok || flag != guestModeFlagTrue {
		return domain.Identity{}, domain.Profile{}, false
	}

	raw, ok := m.store.Get(guestRecordKey)
	if !ok {
		m.clear()
		return domain.Identity{}, domain.Profile{}, false
	}

	var record guestRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil || record.UID == "" {
		logger.Warn("Corrupted guest record, clearing local state", "error", err)
		m.clear()
		return domain.Identity{}, domain.Profile{}, false
	}

	return record.identity(), record.profile(), true
}

// UpdateGuestData merges partial profile fields into the persisted guest
// record. When only XP is supplied the level is recomputed from it.
func (m *GuestManager) UpdateGuestData(update domain.ProfileUpdate) error {
	raw, ok := m.store.Get(guestRecordKey)
	if !ok {
		return domain.ErrNotGuest
	}

	var record guestRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		m.clear()
		return domain.ErrNotGuest
	}

	if update.XP != nil {
		record.XP = *update.XP
		record.Level = domain.LevelForXP(record.XP)
	}
	if update.Level != nil {
		record.Level = *update.Level
	}
	if update.DisplayName != nil {
		record.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		record.PhotoURL = *update.PhotoURL
	}
	record.Metadata.LastSignInTime = m.now()

	return m.persist(record)
}

// ClearGuestData removes both guest keys. Idempotent.
func (m *GuestManager) ClearGuestData() error {
	return m.store.Delete(guestModeFlagKey, guestRecordKey)
}

func (m *GuestManager) clear() {
	if err := m.ClearGuestData(); err != nil {
		logger.Warn("Failed to clear guest data", "error", err)
	}
}

func (m *GuestManager) persist(record guestRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode guest record: %w", err)
	}
	if err := m.store.Set(guestRecordKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist guest record: %w", err)
	}
	if err := m.store.Set(guestModeFlagKey, guestModeFlagTrue); err != nil {
		return fmt.Errorf("failed to persist guest flag: %w", err)
	}
	return nil
}

func (r guestRecord) identity() domain.Identity {
	return domain.Identity{
		UID:          r.UID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PhotoURL:     r.PhotoURL,
		IsGuest:      true,
		CreatedAt:    r.Metadata.CreationTime,
		LastSignInAt: r.Metadata.LastSignInTime,
	}
}

func (r guestRecord) profile() domain.Profile {
	return domain.Profile{
		UID:       r.UID,
		Level:     r.Level,
		XP:        r.XP,
		CreatedAt: r.Metadata.CreationTime,
		LastLogin: r.Metadata.LastSignInTime,
	}
}
