package domain

import "time"

// Account is a registered credential record owned by the auth gateway.
// Passwords are stored as salted digests, never in clear.
type Account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// Identity derives the session identity for the account.
func (a *Account) Identity() Identity {
	return Identity{
		UID:          a.UID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PhotoURL:     a.PhotoURL,
		IsGuest:      false,
		CreatedAt:    a.CreatedAt,
		LastSignInAt: a.LastSignInAt,
	}
}
