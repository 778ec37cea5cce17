// Package session holds the in-memory model of the current actor: either
// a locally persisted guest or a registered identity resolved through the
// auth gateway. The two modes are mutually exclusive at any instant.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/slotdeck/server/internal/auth"
	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/localstore"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
)

// State is the session lifecycle state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateGuestActive     State = "guest"
	StateRegisteredActive State = "registered"
)

// Service defines the interface for session operations
type Service interface {
	// Resolve performs the startup resolution: a persisted registered
	// session takes precedence; guest state is consulted only when no
	// registered session exists.
	Resolve(ctx context.Context) error

	State() State
	Current() (*domain.Identity, *domain.Profile)

	CreateGuestSession(ctx context.Context) (*domain.Identity, *domain.Profile, error)

	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, displayName string) error
	LoginWithProvider(ctx context.Context, assertion auth.ProviderAssertion) error
	ConvertGuestToUser(ctx context.Context, email, password, displayName string) error
	ResetPassword(ctx context.Context, email string) error
	Logout(ctx context.Context) error

	AddXP(ctx context.Context, amount int) (*domain.Profile, error)
}

// ValidationError is raised for bad user input before any network or
// storage call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return domain.ErrMsgInvalidInput
}

// service implements the Service interface
type service struct {
	mu       sync.Mutex
	state    State
	identity *domain.Identity
	profile  *domain.Profile

	gateway  auth.Gateway
	guests   *GuestManager
	store    *localstore.Store
	bus      event.Bus
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates the session service. It registers itself as an
// identity observer on the gateway so external login/logout is adopted.
func NewService(gateway auth.Gateway, guests *GuestManager, store *localstore.Store, bus event.Bus) Service {
	s := &service{
		state:    StateUnauthenticated,
		gateway:  gateway,
		guests:   guests,
		store:    store,
		bus:      bus,
		validate: validator.New(),
		now:      time.Now,
	}
	gateway.ObserveIdentityChanges(s.onIdentityChanged)
	return s
}

// Resolve hydrates the session at startup.
func (s *service) Resolve(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	log := logger.FromContext(ctx)

	// Registered session first: a stored token that still verifies wins
	// over any guest state.
	if token, ok := s.store.Get(sessionTokenKey); ok {
		uid, err := s.gateway.VerifyToken(token)
		if err == nil {
			profile, err := s.gateway.LoadProfile(ctx, uid)
			if err != nil {
				s.setState(StateUnauthenticated, nil, nil)
				return fmt.Errorf("failed to load profile for stored session: %w", err)
			}
			identity := &domain.Identity{UID: uid, IsGuest: false, LastSignInAt: s.now()}
			s.setState(StateRegisteredActive, identity, profile)
			log.Info("Resolved registered session", "uid", uid)
			return nil
		}
		log.Warn("Stored session token rejected, discarding", "error", err)
		if err := s.store.Delete(sessionTokenKey); err != nil {
			log.Warn("Failed to discard stale token", "error", err)
		}
	}

	if identity, profile, ok := s.guests.CheckGuestMode(); ok {
		s.setState(StateGuestActive, &identity, &profile)
		log.Info("Resolved guest session", "uid", identity.UID)
		return nil
	}

	s.setState(StateUnauthenticated, nil, nil)
	return nil
}

// State returns the current lifecycle state.
func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns copies of the active identity and profile, or nils when
// unauthenticated.
func (s *service) Current() (*domain.Identity, *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil, nil
	}
	id := *s.identity
	p := *s.profile
	return &id, &p
}

// CreateGuestSession activates guest mode, overwriting any previous guest.
func (s *service) CreateGuestSession(ctx context.Context) (*domain.Identity, *domain.Profile, error) {
	s.mu.Lock()
	if s.state == StateRegisteredActive {
		s.mu.Unlock()
		return nil, nil, domain.ErrSessionConflict
	}
	s.mu.Unlock()

	identity, profile, err := s.guests.CreateGuestSession()
	if err != nil {
		return nil, nil, err
	}

	s.setState(StateGuestActive, &identity, &profile)
	metrics.GuestSessionsCreated.Inc()
	s.publish(ctx, event.New(event.IdentityChanged, event.IdentityChangedPayloadV1{
		UID:       identity.UID,
		IsGuest:   true,
		Timestamp: event.Now(),
	}))

	id, p := identity, profile
	return &id, &p, nil
}

// Login authenticates against the gateway and adopts the session.
func (s *service) Login(ctx context.Context, email, password string) error {
	if err := s.validateCredentials(credentials{Email: email, Password: password}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.restoreAfterAuthFailure()
		return err
	}

	return s.adoptRegistered(ctx, res, true)
}

// Register creates a fresh account. Existing guest state is untouched;
// conversion is the explicit path for carrying guest progress over.
func (s *service) Register(ctx context.Context, email, password, displayName string) error {
	if err := s.validateCredentials(credentials{Email: email, Password: password, DisplayName: displayName, NeedName: true}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	res, err := s.gateway.Register(ctx, email, password, displayName)
	if err != nil {
		s.restoreAfterAuthFailure()
		return err
	}

	return s.adoptRegistered(ctx, res, true)
}

// LoginWithProvider adopts a federated sign-in.
func (s *service) LoginWithProvider(ctx context.Context, assertion auth.ProviderAssertion) error {
	res, err := s.gateway.LoginWithProvider(ctx, assertion)
	if err != nil {
		return err
	}
	return s.adoptRegistered(ctx, res, true)
}

// ResetPassword forwards to the gateway.
func (s *service) ResetPassword(ctx context.Context, email string) error {
	return s.gateway.ResetPassword(ctx, email)
}

// Logout tears the session down: gateway logout for registered sessions,
// local clearing for guests. Either way the model returns to
// Unauthenticated.
func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	var uid string
	if s.identity != nil {
		uid = s.identity.UID
	}
	s.mu.Unlock()

	switch state {
	case StateRegisteredActive:
		if err := s.store.Delete(sessionTokenKey); err != nil {
			return fmt.Errorf("failed to drop session token: %w", err)
		}
		if err := s.gateway.Logout(ctx, uid); err != nil {
			return err
		}
	case StateGuestActive:
		if err := s.guests.ClearGuestData(); err != nil {
			return err
		}
	}

	s.setState(StateUnauthenticated, nil, nil)
	s.publish(ctx, event.New(event.IdentityChanged, event.IdentityChangedPayloadV1{Timestamp: event.Now()}))
	return nil
}

// AddXP awards gameplay XP to the active profile. Level is recomputed and
// never decreases. Guest progress persists locally; registered progress
// is written through the gateway.
func (s *service) AddXP(ctx context.Context, amount int) (*domain.Profile, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative xp amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotGuest
	}
	prevLevel := s.profile.Level
	s.profile.XP += amount
	if level := domain.LevelForXP(s.profile.XP); level > s.profile.Level {
		s.profile.Level = level
	}
	profile := *s.profile
	isGuest := s.identity.IsGuest
	s.mu.Unlock()

	if isGuest {
		if err := s.guests.UpdateGuestData(domain.ProfileUpdate{XP: &profile.XP, Level: &profile.Level}); err != nil {
			return nil, err
		}
	} else {
		update := domain.ProfileUpdate{XP: &profile.XP, Level: &profile.Level}
		if err := s.gateway.SaveProfile(ctx, profile.UID, update); err != nil {
			return nil, err
		}
	}

	metrics.XPAwarded.Add(float64(amount))
	s.publish(ctx, event.New(event.XPAwarded, event.XPAwardedPayloadV1{
		UID:       profile.UID,
		Amount:    amount,
		TotalXP:   profile.XP,
		Level:     profile.Level,
		Timestamp: event.Now(),
	}))
	if profile.Level > prevLevel {
		s.publish(ctx, event.New(event.LevelUp, event.XPAwardedPayloadV1{
			UID:       profile.UID,
			TotalXP:   profile.XP,
			Level:     profile.Level,
			Timestamp: event.Now(),
		}))
	}

	return &profile, nil
}

// onIdentityChanged adopts session changes announced by the gateway.
func (s *service) onIdentityChanged(identity *domain.Identity) {
	if identity == nil {
		s.mu.Lock()
		// Only an externally observed sign-out of a registered session
		// resets the model; guest sessions are not gateway-backed.
		if s.state == StateRegisteredActive {
			s.state = StateUnauthenticated
			s.identity = nil
			s.profile = nil
		}
		s.mu.Unlock()
	}
}

type credentials struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	DisplayName string
	NeedName    bool   `validate:"-"`
}

// validateCredentials enforces input shape before any gateway call.
func (s *service) validateCredentials(c credentials) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range verrs {
				switch e.Field() {
				case "Email":
					fields["email"] = domain.ErrMsgInvalidEmail
				case "Password":
					fields["password"] = "password must be at least 6 characters"
				}
			}
		} else {
			fields["input"] = domain.ErrMsgInvalidInput
		}
	}
	if c.NeedName && len(c.DisplayName) < 2 {
		fields["display_name"] = "display name must be at least 2 characters"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *service) adoptRegistered(ctx context.Context, res *auth.Result, persistToken bool) error {
	if persistToken {
		if err := s.store.Set(sessionTokenKey, res.Token); err != nil {
			logger.FromContext(ctx).Warn("Failed to persist session token", "error", err)
		}
	}

	identity := res.Identity
	profile := res.Profile
	s.setState(StateRegisteredActive, &identity, &profile)
	return nil
}

func (s *service) restoreAfterAuthFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		if s.identity.IsGuest {
			s.state = StateGuestActive
		} else {
			s.state = StateRegisteredActive
		}
	} else {
		s.state = StateUnauthenticated
	}
}

func (s *service) setState(state State, identity *domain.Identity, profile *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.identity = identity
	s.profile = profile
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish session event", "error", err, "type", e.Type)
	}
}
