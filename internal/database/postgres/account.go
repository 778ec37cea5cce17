package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotdeck/server/internal/domain"
)

// AccountRepository implements the account repository for PostgreSQL
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `uid, email, display_name, photo_url, password_hash, provider, subject, disabled, created_at, last_sign_in_at`

// CreateAccount inserts a new account. A duplicate email maps to
// domain.ErrEmailInUse.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO user_accounts (uid, email, display_name, photo_url, password_hash, provider, subject, disabled, created_at, last_sign_in_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		account.UID,
		account.Email,
		account.DisplayName,
		account.PhotoURL,
		account.PasswordHash,
		account.Provider,
		account.Subject,
		account.Disabled,
		account.CreatedAt,
		account.LastSignInAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			return domain.ErrEmailInUse
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAccount, err)
	}
	return nil
}

// GetAccountByUID retrieves an account by its uid
func (r *AccountRepository) GetAccountByUID(ctx context.Context, uid string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE uid = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, uid))
}

// GetAccountByEmail retrieves an account by its email
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// GetAccountBySubject retrieves an account by its federated provider subject
func (r *AccountRepository) GetAccountBySubject(ctx context.Context, provider, subject string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE provider = $1 AND subject = $2`
	return r.scanAccount(r.db.QueryRow(ctx, query, provider, subject))
}

// RecordSignIn stamps the account's last sign-in time
func (r *AccountRepository) RecordSignIn(ctx context.Context, uid string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE user_accounts SET last_sign_in_at = $1 WHERE uid = $2`, at, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRecordSignIn, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.UID,
		&account.Email,
		&account.DisplayName,
		&account.PhotoURL,
		&account.PasswordHash,
		&account.Provider,
		&account.Subject,
		&account.Disabled,
		&account.CreatedAt,
		&account.LastSignInAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAccount, err)
	}
	return &account, nil
}
