package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/syncer"
)

// memorySnapshotRepo is a minimal in-memory repository.Snapshot for
// exercising handlers end to end.
type memorySnapshotRepo struct {
	stored  map[string]domain.Snapshot
	version int64
	failErr error
}

func newMemorySnapshotRepo() *memorySnapshotRepo {
	return &memorySnapshotRepo{stored: make(map[string]domain.Snapshot)}
}

func (r *memorySnapshotRepo) GetSnapshot(ctx context.Context, uid string) (*domain.Snapshot, error) {
	snap, ok := r.stored[uid]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return &snap, nil
}

func (r *memorySnapshotRepo) PutSnapshot(ctx context.Context, uid string, snapshot domain.Snapshot) (int64, error) {
	if r.failErr != nil {
		return 0, r.failErr
	}
	r.version++
	r.stored[uid] = snapshot
	return r.version, nil
}

func (r *memorySnapshotRepo) DeleteSnapshot(ctx context.Context, uid string) error {
	delete(r.stored, uid)
	return nil
}

func newSyncFixture(t *testing.T) (*syncer.Controller, *memorySnapshotRepo) {
	t.Helper()
	repo := newMemorySnapshotRepo()
	ctrl := syncer.New(repo, event.NewMemoryBus(), 10*time.Millisecond)

	_, err := ctrl.Load(context.Background(), "uid-1")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	return ctrl, repo
}

func TestHandleGetSyncState(t *testing.T) {
	ctrl, _ := newSyncFixture(t)

	req := httptest.NewRequest("GET", "/sync", nil)
	w := httptest.NewRecorder()
	HandleGetSyncState(ctrl).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var state domain.SyncState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.True(t, state.IsOnline)
	assert.False(t, state.HasUnsavedChanges)
}

func TestHandleSaveNow(t *testing.T) {
	ctrl, repo := newSyncFixture(t)
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleSaveNow(ctrl, svc), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), MsgSnapshotSaved)
	assert.Len(t, repo.stored, 1)
}

func TestHandleSaveNow_Unbound(t *testing.T) {
	repo := newMemorySnapshotRepo()
	ctrl := syncer.New(repo, event.NewMemoryBus(), 10*time.Millisecond)
	svc, _ := newInventoryFixture()

	w := postJSON(t, HandleSaveNow(ctrl, svc), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgNotBoundError)
}

func TestHandleSetOnline(t *testing.T) {
	ctrl, _ := newSyncFixture(t)

	w := postJSON(t, HandleSetOnline(ctrl), SetOnlineRequest{Online: false})
	require.Equal(t, http.StatusOK, w.Code)

	var state domain.SyncState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.False(t, state.IsOnline)
}

func TestHandleSetAutoSave(t *testing.T) {
	ctrl, _ := newSyncFixture(t)

	w := postJSON(t, HandleSetAutoSave(ctrl), SetAutoSaveRequest{Enabled: false})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleClearSyncError(t *testing.T) {
	ctrl, repo := newSyncFixture(t)
	svc, _ := newInventoryFixture()

	repo.failErr = assert.AnError
	w := postJSON(t, HandleSaveNow(ctrl, svc), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, ctrl.State().SyncError)

	w = postJSON(t, HandleClearSyncError(ctrl), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ctrl.State().SyncError)
}
