package handler

import (
	"net/http"

	"github.com/slotdeck/server/internal/audio"
	"github.com/slotdeck/server/internal/logger"
)

// AudioResponse pairs the playback state with the track catalog
type AudioResponse struct {
	State  audio.State   `json:"state"`
	Tracks []audio.Track `json:"tracks"`
}

// HandleGetAudioState returns playback state and the available tracks
func HandleGetAudioState(s *audio.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, AudioResponse{
			State:  s.State(),
			Tracks: audio.Tracks(),
		})
	}
}

// HandlePlayAudio starts playback of the current track
func HandlePlayAudio(s *audio.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Play(r.Context()))
	}
}

// HandlePauseAudio pauses playback
func HandlePauseAudio(s *audio.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Pause(r.Context()))
	}
}

type SetVolumeRequest struct {
	Volume float64 `json:"volume"`
}

// HandleSetVolume updates the playback volume. Range checking lives in
// the audio session.
func HandleSetVolume(s *audio.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetVolumeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set volume"); err != nil {
			return
		}

		state, err := s.SetVolume(r.Context(), req.Volume)
		if err != nil {
			log.Warn("Volume rejected", "volume", req.Volume)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, state)
	}
}

type SetTrackRequest struct {
	TrackID string `json:"track_id" validate:"required,trackid"`
}

// HandleSetTrack switches the active track, keeping playback running
func HandleSetTrack(s *audio.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetTrackRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set track"); err != nil {
			return
		}

		state, err := s.SetTrack(r.Context(), req.TrackID)
		if err != nil {
			log.Warn("Track rejected", "track_id", req.TrackID)
			respondServiceError(w, err)
			return
		}

		log.Info("Track switched", "track_id", req.TrackID)
		respondJSON(w, http.StatusOK, state)
	}
}
