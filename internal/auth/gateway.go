// Package auth implements the remote identity gateway: credential
// accounts, federated sign-in, profile documents and session tokens.
// Callers depend only on the Gateway interface; the concrete service here
// is the Postgres-backed adapter.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
	"github.com/slotdeck/server/internal/repository"
)

const (
	minPasswordLen = 6

	// Failed login attempts per email within the tracking window before
	// the gateway answers with ErrTooManyRequests.
	maxFailedAttempts    = 5
	failedAttemptsWindow = 15 * time.Minute
)

// Result is the outcome of a successful login or registration.
type Result struct {
	Identity domain.Identity `json:"identity"`
	Profile  domain.Profile  `json:"profile"`
	Token    string          `json:"token"`
}

// ProviderAssertion is a pre-verified federated sign-in assertion. Wire
// protocol details of the upstream provider are out of scope; by the time
// an assertion reaches the gateway it has been verified.
type ProviderAssertion struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// IdentityObserver is invoked with the current identity whenever the
// gateway's session state changes; nil signals sign-out. This is the sole
// channel by which the session layer learns of external login/logout.
type IdentityObserver func(identity *domain.Identity)

// Gateway defines the interface the session layer depends on.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*Result, error)
	Register(ctx context.Context, email, password, displayName string) (*Result, error)
	LoginWithProvider(ctx context.Context, assertion ProviderAssertion) (*Result, error)
	Logout(ctx context.Context, uid string) error
	ResetPassword(ctx context.Context, email string) error
	VerifyToken(token string) (string, error)

	ObserveIdentityChanges(fn IdentityObserver)

	// LoadProfile returns the stored profile, creating and persisting a
	// default one (level 1, xp 0) when uid has none.
	LoadProfile(ctx context.Context, uid string) (*domain.Profile, error)
	// SaveProfile merge-writes the non-nil fields of update.
	SaveProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error
}

// service implements Gateway on Postgres repositories with JWT session
// tokens and an expirable LRU profile cache.
type service struct {
	accounts repository.Account
	profiles repository.Profile
	tokens   *TokenService
	bus      event.Bus

	cache    *profileCache
	attempts *attemptTracker

	observerMu sync.RWMutex
	observers  []IdentityObserver

	now func() time.Time
}

// NewService creates the Postgres-backed gateway.
func NewService(accounts repository.Account, profiles repository.Profile, tokens *TokenService, bus event.Bus) Gateway {
	return &service{
		accounts: accounts,
		profiles: profiles,
		tokens:   tokens,
		bus:      bus,
		cache:    newProfileCache(defaultCacheSize, defaultCacheTTL),
		attempts: newAttemptTracker(maxFailedAttempts, failedAttemptsWindow),
		now:      time.Now,
	}
}

// Login authenticates an email/password pair.
func (s *service) Login(ctx context.Context, email, password string) (*Result, error) {
	log := logger.FromContext(ctx)
	email = normalizeEmail(email)

	if s.attempts.Blocked(email) {
		metrics.AuthAttempts.WithLabelValues("login", "throttled").Inc()
		return nil, domain.ErrTooManyRequests
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.attempts.Record(email)
			metrics.AuthAttempts.WithLabelValues("login", "not_found").Inc()
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if account.Disabled {
		return nil, domain.ErrUserDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.attempts.Record(email)
		metrics.AuthAttempts.WithLabelValues("login", "wrong_password").Inc()
		return nil, domain.ErrWrongPassword
	}

	s.attempts.Clear(email)
	return s.openSession(ctx, log, account, "login")
}

// Register creates a new account. A profile is only created on first
// LoadProfile, so re-registration of a uid that somehow kept a profile
// loads the existing one rather than resetting progress.
func (s *service) Register(ctx context.Context, email, password, displayName string) (*Result, error) {
	log := logger.FromContext(ctx)
	email = normalizeEmail(email)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastSignInAt: now,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			metrics.AuthAttempts.WithLabelValues("register", "email_in_use").Inc()
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.openSession(ctx, log, account, "register")
}

// LoginWithProvider signs in with a verified federated assertion,
// creating the account on first use.
func (s *service) LoginWithProvider(ctx context.Context, assertion ProviderAssertion) (*Result, error) {
	log := logger.FromContext(ctx)

	if assertion.Provider == "" || assertion.Subject == "" {
		return nil, MapProviderError("auth/popup-closed-by-user", "")
	}

	account, err := s.accounts.GetAccountBySubject(ctx, assertion.Provider, assertion.Subject)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up federated account: %w", err)
	}

	if account == nil {
		now := s.now()
		account = &domain.Account{
			UID:          uuid.NewString(),
			Email:        normalizeEmail(assertion.Email),
			DisplayName:  assertion.DisplayName,
			PhotoURL:     assertion.PhotoURL,
			Provider:     assertion.Provider,
			Subject:      assertion.Subject,
			CreatedAt:    now,
			LastSignInAt: now,
		}
		if err := s.accounts.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create federated account: %w", err)
		}
	}

	if account.Disabled {
		return nil, domain.ErrUserDisabled
	}

	return s.openSession(ctx, log, account, "provider")
}

// Logout tears down the session for uid and notifies observers.
func (s *service) Logout(ctx context.Context, uid string) error {
	s.cache.Invalidate(uid)
	s.notifyObservers(nil)
	s.publishIdentity(ctx, "", false)
	return nil
}

// ResetPassword queues a reset for the given address. Delivery is an
// external concern; unknown addresses still resolve so the endpoint does
// not leak which emails are registered.
func (s *service) ResetPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)
	email = normalizeEmail(email)

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidEmail
	}

	_, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	log.Info("Password reset requested", "known_account", err == nil)
	return nil
}

// VerifyToken validates a session token and returns its uid.
func (s *service) VerifyToken(token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UID, nil
}

// ObserveIdentityChanges registers an observer for session changes.
func (s *service) ObserveIdentityChanges(fn IdentityObserver) {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	s.observers = append(s.observers, fn)
}

// LoadProfile fetches the profile for uid, creating the default on first
// access. Cached reads serve repeat lookups.
func (s *service) LoadProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	if p, ok := s.cache.Get(uid); ok {
		return p, nil
	}

	profile, err := s.profiles.GetProfile(ctx, uid)
	if errors.Is(err, domain.ErrProfileNotFound) {
		fresh := domain.NewProfile(uid, s.now())
		if err := s.profiles.UpsertProfile(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
		profile = &fresh
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s.cache.Set(uid, profile)
	return profile, nil
}

// SaveProfile merge-writes update and invalidates the cache entry.
func (s *service) SaveProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	if err := s.profiles.MergeProfile(ctx, uid, update); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.cache.Invalidate(uid)
	return nil
}

// openSession finalizes a successful authentication: records the sign-in,
// loads the profile, mints a token and notifies observers.
func (s *service) openSession(ctx context.Context, log *slog.Logger, account *domain.Account, flow string) (*Result, error) {
	now := s.now()
	if err := s.accounts.RecordSignIn(ctx, account.UID, now); err != nil {
		log.Warn("Failed to record sign-in time", "error", err, "uid", account.UID)
	}
	account.LastSignInAt = now

	profile, err := s.LoadProfile(ctx, account.UID)
	if err != nil {
		return nil, err
	}

	lastLogin := now
	if err := s.SaveProfile(ctx, account.UID, domain.ProfileUpdate{LastLogin: &lastLogin}); err != nil {
		log.Warn("Failed to update last login", "error", err, "uid", account.UID)
	}
	profile.LastLogin = lastLogin

	token, err := s.tokens.Sign(account.UID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	identity := account.Identity()
	s.notifyObservers(&identity)
	s.publishIdentity(ctx, identity.UID, false)
	metrics.AuthAttempts.WithLabelValues(flow, "success").Inc()

	return &Result{Identity: identity, Profile: *profile, Token: token}, nil
}

func (s *service) notifyObservers(identity *domain.Identity) {
	s.observerMu.RLock()
	observers := make([]IdentityObserver, len(s.observers))
	copy(observers, s.observers)
	s.observerMu.RUnlock()

	for _, fn := range observers {
		fn(identity)
	}
}

func (s *service) publishIdentity(ctx context.Context, uid string, isGuest bool) {
	if s.bus == nil {
		return
	}
	e := event.New(event.IdentityChanged, event.IdentityChangedPayloadV1{
		UID:       uid,
		IsGuest:   isGuest,
		Timestamp: event.Now(),
	})
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish identity change", "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
