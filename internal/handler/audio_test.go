package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/audio"
	"github.com/slotdeck/server/internal/event"
)

func newAudioSession() *audio.Session {
	return audio.NewSession(event.NewMemoryBus())
}

func TestHandleGetAudioState(t *testing.T) {
	s := newAudioSession()

	req := httptest.NewRequest("GET", "/audio", nil)
	w := httptest.NewRecorder()
	HandleGetAudioState(s).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AudioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.State.Playing)
	assert.Equal(t, audio.DefaultVolume, resp.State.Volume)
	assert.NotEmpty(t, resp.Tracks)
}

func TestHandlePlayPause(t *testing.T) {
	s := newAudioSession()

	w := postJSON(t, HandlePlayAudio(s), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.State().Playing)

	w = postJSON(t, HandlePauseAudio(s), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.State().Playing)
}

func TestHandleSetVolume(t *testing.T) {
	s := newAudioSession()

	w := postJSON(t, HandleSetVolume(s), SetVolumeRequest{Volume: 0.8})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.8, s.State().Volume)

	w = postJSON(t, HandleSetVolume(s), SetVolumeRequest{Volume: 1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInvalidVolumeError)
}

func TestHandleSetTrack(t *testing.T) {
	s := newAudioSession()
	tracks := audio.Tracks()
	require.True(t, len(tracks) > 1)

	w := postJSON(t, HandleSetTrack(s), SetTrackRequest{TrackID: tracks[1].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tracks[1].ID, s.State().TrackID)

	w = postJSON(t, HandleSetTrack(s), SetTrackRequest{TrackID: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgUnknownTrackError)
}
