// Package syncer debounces grid mutations into remote snapshot writes.
// The controller owns the sync state machine: dirty tracking, a single
// in-flight write, offline suspension and error surfacing.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
	"github.com/slotdeck/server/internal/repository"
)

// DefaultDebounce is the autosave quiet period. Every ScheduleSave call
// restarts it; the write happens only after the grid has been stable for
// the full period.
const DefaultDebounce = 2000 * time.Millisecond

// ErrNotBound is returned when a save is requested before Load bound a
// user to the controller.
var ErrNotBound = errors.New("syncer: no user bound")

// Controller coordinates snapshot persistence for the bound user.
//
// Discipline: at most one write is in flight at any time. A save
// requested while a write is running sets a pending flag; the latest
// snapshot is written again once the current write completes. A failed
// write records the error and leaves the dirty flag set; there is no
// automatic retry or backoff.
type Controller struct {
	mu    sync.Mutex
	repo  repository.Snapshot
	bus   event.Bus
	clock Clock

	debounce time.Duration

	uid      string
	state    domain.SyncState
	latest   *domain.Snapshot
	seq      uint64 // bumped on every latest update
	timer    Timer
	timerGen uint64
	autoSave bool
	inFlight bool
	pending  bool
}

// New creates a controller over the given snapshot store. The controller
// starts online with autosave enabled and no bound user; Load binds one.
func New(repo repository.Snapshot, bus event.Bus, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		repo:     repo,
		bus:      bus,
		clock:    realClock{},
		debounce: debounce,
		autoSave: true,
		state:    domain.SyncState{IsOnline: true},
	}
}

// Load binds the controller to uid and hydrates the remote document.
// domain.ErrSnapshotNotFound passes through for callers that fall back to
// a default grid.
func (c *Controller) Load(ctx context.Context, uid string) (*domain.Snapshot, error) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.uid = uid
	c.latest = nil
	c.state.HasUnsavedChanges = false
	c.state.SyncError = ""
	c.mu.Unlock()

	snap, err := c.repo.GetSnapshot(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	c.mu.Lock()
	c.state.Version = snap.Version
	c.mu.Unlock()

	logger.FromContext(ctx).Info("Loaded remote snapshot", "uid", uid, "version", snap.Version)
	return snap, nil
}

// Reset unbinds the user and clears all sync state except connectivity.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	online := c.state.IsOnline
	c.uid = ""
	c.latest = nil
	c.pending = false
	c.state = domain.SyncState{IsOnline: online}
}

// ScheduleSave records the snapshot as the latest dirty state and
// restarts the debounce window. Consecutive calls within the window
// coalesce into a single write of the last snapshot. While offline or
// with autosave disabled only the dirty flag is tracked.
func (c *Controller) ScheduleSave(snapshot domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = &snapshot
	c.seq++
	c.state.HasUnsavedChanges = true

	if c.uid == "" || !c.autoSave || !c.state.IsOnline {
		return
	}
	c.armTimerLocked()
}

// SaveNow cancels any pending debounce and writes the snapshot
// immediately. The write outcome is returned to the caller.
func (c *Controller) SaveNow(ctx context.Context, snapshot domain.Snapshot) error {
	c.mu.Lock()
	c.stopTimerLocked()
	c.latest = &snapshot
	c.seq++
	c.state.HasUnsavedChanges = true
	if c.uid == "" {
		c.mu.Unlock()
		return ErrNotBound
	}
	c.mu.Unlock()

	return c.flush(ctx)
}

// SetOnline updates connectivity. Going offline suspends the pending
// timer without dropping the dirty flag; coming back online with unsaved
// changes triggers a single immediate save.
func (c *Controller) SetOnline(ctx context.Context, online bool) {
	c.mu.Lock()
	c.state.IsOnline = online
	if !online {
		c.stopTimerLocked()
		c.mu.Unlock()
		return
	}
	retry := c.state.HasUnsavedChanges && c.autoSave && c.uid != "" && c.latest != nil
	c.mu.Unlock()

	if retry {
		if err := c.flush(ctx); err != nil {
			logger.FromContext(ctx).Warn("Reconnect save failed", "error", err)
		}
	}
}

// SetAutoSave toggles the debounce machinery. Disabling stops a pending
// timer; enabling with unsaved changes re-arms it.
func (c *Controller) SetAutoSave(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.autoSave = enabled
	if !enabled {
		c.stopTimerLocked()
		return
	}
	if c.state.HasUnsavedChanges && c.state.IsOnline && c.uid != "" && c.latest != nil {
		c.armTimerLocked()
	}
}

// State returns a copy of the current sync state.
func (c *Controller) State() domain.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ClearError dismisses the last sync error. The dirty flag is untouched.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SyncError = ""
}

func (c *Controller) armTimerLocked() {
	c.stopTimerLocked()
	c.timerGen++
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.fire(gen) })
}

func (c *Controller) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	if err := c.flush(context.Background()); err != nil {
		logger.Warn("Autosave failed", "error", err)
	}
}

// flush performs the actual write. If a write is already running it only
// marks the pending flag; the running flush re-saves the latest snapshot
// after a successful completion.
func (c *Controller) flush(ctx context.Context) error {
	c.mu.Lock()
	if c.uid == "" || c.latest == nil {
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.pending = true
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	c.state.IsSyncing = true
	c.mu.Unlock()

	var lastErr error
	for {
		c.mu.Lock()
		uid := c.uid
		snap := *c.latest
		seq := c.seq
		c.pending = false
		c.mu.Unlock()

		version, err := c.repo.PutSnapshot(ctx, uid, snap)
		lastErr = err

		c.mu.Lock()
		if err != nil {
			c.state.SyncError = err.Error()
			c.mu.Unlock()
			metrics.SnapshotSaveFailures.Inc()
			c.publish(ctx, event.New(event.SnapshotSaveFailed, event.SnapshotSaveFailedPayloadV1{
				UID:       uid,
				Error:     err.Error(),
				Timestamp: event.Now(),
			}))
		} else {
			now := c.clock.Now()
			c.state.LastSavedAt = &now
			c.state.Version = version
			c.state.SyncError = ""
			if c.seq == seq {
				c.state.HasUnsavedChanges = false
			}
			c.mu.Unlock()
			metrics.SnapshotSaves.Inc()
			c.publish(ctx, event.New(event.SnapshotSaved, event.SnapshotSavedPayloadV1{
				UID:       uid,
				Version:   version,
				Timestamp: event.Now(),
			}))
		}

		c.mu.Lock()
		if err == nil && c.pending {
			c.mu.Unlock()
			continue
		}
		c.pending = false
		c.inFlight = false
		c.state.IsSyncing = false
		c.mu.Unlock()
		return lastErr
	}
}

func (c *Controller) publish(ctx context.Context, e event.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish sync event", "error", err, "type", e.Type)
	}
}
