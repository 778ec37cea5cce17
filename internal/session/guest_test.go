package session

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/localstore"
)

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)
	return store
}

func TestGuestManager_CreateGuestSession(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)

	identity, profile, err := m.CreateGuestSession()
	require.NoError(t, err)

	assert.True(t, identity.IsGuest)
	assert.True(t, strings.HasPrefix(identity.UID, domain.GuestUIDPrefix))
	assert.Equal(t, "Guest", identity.DisplayName)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 0, profile.XP)

	flag, ok := store.Get(guestModeFlagKey)
	require.True(t, ok)
	assert.Equal(t, guestModeFlagTrue, flag)

	raw, ok := store.Get(guestRecordKey)
	require.True(t, ok)
	var record guestRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	assert.Equal(t, identity.UID, record.UID)
}

func TestGuestManager_CheckGuestMode_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)

	created, _, err := m.CreateGuestSession()
	require.NoError(t, err)

	xp := 150
	require.NoError(t, m.UpdateGuestData(domain.ProfileUpdate{XP: &xp}))

	identity, profile, ok := m.CheckGuestMode()
	require.True(t, ok)
	assert.Equal(t, created.UID, identity.UID)
	assert.Equal(t, 150, profile.XP)
	assert.Equal(t, domain.LevelForXP(150), profile.Level)
}

func TestGuestManager_CheckGuestMode_NoSession(t *testing.T) {
	m := NewGuestManager(newTestStore(t))

	_, _, ok := m.CheckGuestMode()
	assert.False(t, ok)
}

func TestGuestManager_CheckGuestMode_CorruptedRecord(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)

	require.NoError(t, store.Set(guestModeFlagKey, guestModeFlagTrue))
	require.NoError(t, store.Set(guestRecordKey, "{not json"))

	_, _, ok := m.CheckGuestMode()
	assert.False(t, ok)

	// corrupted state is cleared, not left behind
	_, flagExists := store.Get(guestModeFlagKey)
	assert.False(t, flagExists)
	_, recordExists := store.Get(guestRecordKey)
	assert.False(t, recordExists)
}

func TestGuestManager_CheckGuestMode_FlagWithoutRecord(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)

	require.NoError(t, store.Set(guestModeFlagKey, guestModeFlagTrue))

	_, _, ok := m.CheckGuestMode()
	assert.False(t, ok)
	_, flagExists := store.Get(guestModeFlagKey)
	assert.False(t, flagExists)
}

func TestGuestManager_UpdateGuestData(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)
	_, _, err := m.CreateGuestSession()
	require.NoError(t, err)

	t.Run("xp update recomputes level", func(t *testing.T) {
		xp := 450
		require.NoError(t, m.UpdateGuestData(domain.ProfileUpdate{XP: &xp}))

		_, profile, ok := m.CheckGuestMode()
		require.True(t, ok)
		assert.Equal(t, 450, profile.XP)
		assert.Equal(t, 3, profile.Level)
	})

	t.Run("explicit level wins over recomputation", func(t *testing.T) {
		xp, level := 0, 5
		require.NoError(t, m.UpdateGuestData(domain.ProfileUpdate{XP: &xp, Level: &level}))

		_, profile, ok := m.CheckGuestMode()
		require.True(t, ok)
		assert.Equal(t, 5, profile.Level)
	})

	t.Run("without session", func(t *testing.T) {
		require.NoError(t, m.ClearGuestData())
		xp := 10
		err := m.UpdateGuestData(domain.ProfileUpdate{XP: &xp})
		assert.ErrorIs(t, err, domain.ErrNotGuest)
	})
}

func TestGuestManager_ClearGuestData_Idempotent(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)
	_, _, err := m.CreateGuestSession()
	require.NoError(t, err)

	require.NoError(t, m.ClearGuestData())
	require.NoError(t, m.ClearGuestData())

	_, _, ok := m.CheckGuestMode()
	assert.False(t, ok)
}

func TestGuestManager_UIDsAreUnique(t *testing.T) {
	store := newTestStore(t)
	m := NewGuestManager(store)
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	a, _, err := m.CreateGuestSession()
	require.NoError(t, err)
	b, _, err := m.CreateGuestSession()
	require.NoError(t, err)

	// same millisecond timestamp, still distinct thanks to the random suffix
	assert.NotEqual(t, a.UID, b.UID)
}
