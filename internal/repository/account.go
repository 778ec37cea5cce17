package repository

import (
	"context"
	"time"

	"github.com/slotdeck/server/internal/domain"
)

// Account defines the interface for credential persistence
type Account interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByUID(ctx context.Context, uid string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccountBySubject(ctx context.Context, provider, subject string) (*domain.Account, error)
	RecordSignIn(ctx context.Context, uid string, at time.Time) error
}
