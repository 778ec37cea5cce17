package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/slotdeck/server/internal/audio"
	"github.com/slotdeck/server/internal/auth"
	"github.com/slotdeck/server/internal/config"
	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/features"
	"github.com/slotdeck/server/internal/inventory"
	"github.com/slotdeck/server/internal/item"
	"github.com/slotdeck/server/internal/localstore"
	"github.com/slotdeck/server/internal/session"
	"github.com/slotdeck/server/internal/syncer"
)

// Services holds the application service layer.
type Services struct {
	Store     *localstore.Store
	Gateway   auth.Gateway
	Session   session.Service
	Inventory inventory.Service
	Syncer    *syncer.Controller
	Audio     *audio.Session
	Catalog   *item.Catalog
	Features  *features.Loader
}

// InitializeServices builds the full service graph: storage, auth
// gateway, session, inventory, sync controller and audio session, and
// wires the cross-service connections between them.
func InitializeServices(cfg *config.Config, repos *Repositories, bus event.Bus) (*Services, error) {
	catalog, err := item.LoadCatalog(cfg.ItemsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	slog.Info(LogMsgCatalogLoaded, "path", cfg.ItemsConfigPath, "items", catalog.Len())

	if err := os.MkdirAll(filepath.Dir(cfg.GuestStorePath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenLocalStore, err)
	}
	store, err := localstore.Open(cfg.GuestStorePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenLocalStore, err)
	}
	slog.Info(LogMsgLocalStoreOpened, "path", cfg.GuestStorePath)

	gateway := auth.NewService(repos.Account, repos.Profile, auth.NewTokenService(cfg.JWTSecret), bus)
	guests := session.NewGuestManager(store)
	sessionSvc := session.NewService(gateway, guests, store, bus)

	invSvc := inventory.NewService(catalog.DefaultPlacement())
	ctrl := syncer.New(repos.Snapshot, bus, cfg.AutosaveDebounce)

	// Every committed grid mutation schedules a debounced save.
	invSvc.SetChangeListener(ctrl.ScheduleSave)

	svcs := &Services{
		Store:     store,
		Gateway:   gateway,
		Session:   sessionSvc,
		Inventory: invSvc,
		Syncer:    ctrl,
		Audio:     audio.NewSession(bus),
		Catalog:   catalog,
		Features:  features.NewLoader(cfg.InfoConfigDir),
	}

	// Identity changes drive the sync binding: a registered sign-in
	// loads that user's snapshot into the grid, a sign-out or switch
	// to guest mode unbinds the controller.
	bus.Subscribe(event.IdentityChanged, svcs.onIdentityChanged)

	return svcs, nil
}

// ResolveStartupSession hydrates the session from persisted state and,
// for a resolved registered session, pulls the remote grid.
func (s *Services) ResolveStartupSession(ctx context.Context) {
	if err := s.Session.Resolve(ctx); err != nil {
		slog.Warn(LogMsgSessionResolved, "error", err)
		return
	}
	slog.Info(LogMsgSessionResolved, "state", s.Session.State())
}

func (s *Services) onIdentityChanged(ctx context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.IdentityChangedPayloadV1)
	if !ok {
		return nil
	}

	if payload.UID == "" || payload.IsGuest {
		s.Syncer.Reset()
		return nil
	}

	snapshot, err := s.Syncer.Load(ctx, payload.UID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			// First sign-in for this account: keep the current grid and
			// let the next edit create the document.
			return nil
		}
		slog.Warn("Snapshot load failed", "uid", payload.UID, "error", err)
		return err
	}

	s.Inventory.Hydrate(*snapshot)
	return nil
}
