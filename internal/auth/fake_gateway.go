package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slotdeck/server/internal/domain"
)

// FakeGateway is a stateful in-memory implementation of Gateway for
// testing. It records call counts so tests can assert that validation
// failures never reach the gateway.
type FakeGateway struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account // keyed by email
	profiles  map[string]*domain.Profile // keyed by uid
	observers []IdentityObserver
	nextUID   int

	// Calls counts every gateway method invocation by name.
	Calls map[string]int

	// FailWith, when set, makes every mutating call fail with the error.
	FailWith error
}

// NewFakeGateway creates an empty fake gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		accounts: make(map[string]*domain.Account),
		profiles: make(map[string]*domain.Profile),
		Calls:    make(map[string]int),
	}
}

// TotalCalls returns the number of gateway invocations across all methods.
func (f *FakeGateway) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.Calls {
		total += n
	}
	return total
}

func (f *FakeGateway) record(method string) {
	f.Calls[method]++
}

func (f *FakeGateway) Login(ctx context.Context, email, password string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	account, ok := f.accounts[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if account.PasswordHash != password { // fake stores passwords verbatim
		return nil, domain.ErrWrongPassword
	}
	return f.resultLocked(account)
}

func (f *FakeGateway) Register(ctx context.Context, email, password, displayName string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")

	if f.FailWith != nil {
		return nil, f.FailWith
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrWeakPassword
	}
	if _, ok := f.accounts[email]; ok {
		return nil, domain.ErrEmailInUse
	}

	f.nextUID++
	now := time.Now()
	account := &domain.Account{
		UID:          fmt.Sprintf("uid-%d", f.nextUID),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: password,
		CreatedAt:    now,
		LastSignInAt: now,
	}
	f.accounts[email] = account
	return f.resultLocked(account)
}

func (f *FakeGateway) LoginWithProvider(ctx context.Context, assertion ProviderAssertion) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LoginWithProvider")

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	account, ok := f.accounts[assertion.Email]
	if !ok {
		f.nextUID++
		now := time.Now()
		account = &domain.Account{
			UID:          fmt.Sprintf("uid-%d", f.nextUID),
			Email:        assertion.Email,
			DisplayName:  assertion.DisplayName,
			PhotoURL:     assertion.PhotoURL,
			Provider:     assertion.Provider,
			Subject:      assertion.Subject,
			CreatedAt:    now,
			LastSignInAt: now,
		}
		f.accounts[assertion.Email] = account
	}
	return f.resultLocked(account)
}

func (f *FakeGateway) Logout(ctx context.Context, uid string) error {
	f.mu.Lock()
	observers := append([]IdentityObserver(nil), f.observers...)
	f.record("Logout")
	f.mu.Unlock()

	for _, fn := range observers {
		fn(nil)
	}
	return nil
}

func (f *FakeGateway) ResetPassword(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResetPassword")
	return f.FailWith
}

func (f *FakeGateway) VerifyToken(token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VerifyToken")

	for _, a := range f.accounts {
		if "token-"+a.UID == token {
			return a.UID, nil
		}
	}
	return "", fmt.Errorf("invalid token")
}

func (f *FakeGateway) ObserveIdentityChanges(fn IdentityObserver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

func (f *FakeGateway) LoadProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LoadProfile")

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	if p, ok := f.profiles[uid]; ok {
		cp := *p
		return &cp, nil
	}
	fresh := domain.NewProfile(uid, time.Now())
	f.profiles[uid] = &fresh
	cp := fresh
	return &cp, nil
}

func (f *FakeGateway) SaveProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveProfile")

	if f.FailWith != nil {
		return f.FailWith
	}

	p, ok := f.profiles[uid]
	if !ok {
		fresh := domain.NewProfile(uid, time.Now())
		p = &fresh
		f.profiles[uid] = p
	}
	if update.Level != nil {
		p.Level = *update.Level
	}
	if update.XP != nil {
		p.XP = *update.XP
	}
	if update.LastLogin != nil {
		p.LastLogin = *update.LastLogin
	}
	return nil
}

// Profile returns the stored profile for uid, for test assertions.
func (f *FakeGateway) Profile(uid string) (*domain.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[uid]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (f *FakeGateway) resultLocked(account *domain.Account) (*Result, error) {
	p, ok := f.profiles[account.UID]
	if !ok {
		fresh := domain.NewProfile(account.UID, time.Now())
		p = &fresh
		f.profiles[account.UID] = p
	}

	identity := account.Identity()
	for _, fn := range f.observers {
		fn(&identity)
	}

	return &Result{Identity: identity, Profile: *p, Token: "token-" + account.UID}, nil
}
