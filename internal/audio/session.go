// Package audio owns the ambient playback state machine. It holds no
// codec or streaming concerns: components consult State and subscribe to
// state-change events on the bus.
package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/logger"
)

// Track is one ambient track available for playback.
type Track struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultVolume applies when a session starts.
const DefaultVolume = 0.5

// tracks is the built-in ambient catalog.
var tracks = []Track{
	{ID: "lofi-beats", Name: "Lofi Beats"},
	{ID: "rainfall", Name: "Rainfall"},
	{ID: "cafe-ambience", Name: "Cafe Ambience"},
	{ID: "white-noise", Name: "White Noise"},
	{ID: "forest-morning", Name: "Forest Morning"},
}

// State is a point-in-time copy of the playback state.
type State struct {
	TrackID string  `json:"track_id"`
	Playing bool    `json:"playing"`
	Volume  float64 `json:"volume"`
}

// Session is the explicitly owned playback state holder. All mutations
// publish audio.state_changed on the bus.
type Session struct {
	mu    sync.Mutex
	state State
	bus   event.Bus
}

// NewSession creates a paused session on the first catalog track.
func NewSession(bus event.Bus) *Session {
	return &Session{
		state: State{TrackID: tracks[0].ID, Volume: DefaultVolume},
		bus:   bus,
	}
}

// Tracks returns the ambient track catalog.
func Tracks() []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

// Play starts playback of the current track. Playing while already
// playing is a no-op and publishes nothing.
func (s *Session) Play(ctx context.Context) State {
	s.mu.Lock()
	if s.state.Playing {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.state.Playing = true
	state := s.state
	s.mu.Unlock()

	s.publish(ctx, state)
	return state
}

// Pause stops playback. Pausing while paused is a no-op.
func (s *Session) Pause(ctx context.Context) State {
	s.mu.Lock()
	if !s.state.Playing {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.state.Playing = false
	state := s.state
	s.mu.Unlock()

	s.publish(ctx, state)
	return state
}

// SetVolume adjusts playback volume. Valid range is 0 through 1
// inclusive.
func (s *Session) SetVolume(ctx context.Context, volume float64) (State, error) {
	if volume < 0 || volume > 1 {
		return State{}, fmt.Errorf("%w: %v", domain.ErrInvalidVolume, volume)
	}

	s.mu.Lock()
	s.state.Volume = volume
	state := s.state
	s.mu.Unlock()

	s.publish(ctx, state)
	return state, nil
}

// SetTrack switches to a catalog track. Playback state carries over:
// switching tracks while playing keeps playing.
func (s *Session) SetTrack(ctx context.Context, trackID string) (State, error) {
	if !knownTrack(trackID) {
		return State{}, fmt.Errorf("%w: %s", domain.ErrUnknownTrack, trackID)
	}

	s.mu.Lock()
	s.state.TrackID = trackID
	state := s.state
	s.mu.Unlock()

	s.publish(ctx, state)
	return state, nil
}

// State returns a copy of the current playback state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func knownTrack(id string) bool {
	for _, t := range tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) publish(ctx context.Context, state State) {
	if s.bus == nil {
		return
	}
	e := event.New(event.AudioStateChanged, event.AudioStatePayloadV1{
		TrackID:   state.TrackID,
		Playing:   state.Playing,
		Volume:    state.Volume,
		Timestamp: event.Now(),
	})
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish audio event", "error", err)
	}
}
