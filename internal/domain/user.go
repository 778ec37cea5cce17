package domain

import (
	"math"
	"time"
)

// Identity represents the current actor: either a locally generated guest
// or a registered account issued by the auth gateway. The two are mutually
// exclusive at any instant.
type Identity struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	IsGuest      bool      `json:"is_guest"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// GuestUIDPrefix marks locally generated uids. The gateway never issues
// uids with this prefix, so guest and registered uids cannot collide.
const GuestUIDPrefix = "guest-"

// Profile holds the gamification progress attached to an identity.
type Profile struct {
	UID       string    `json:"uid"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// LevelForXP returns the level for a given XP total. Level is monotonic
// non-decreasing in XP and never below 1.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// XPForLevel returns the minimum XP total required to reach level.
// Inverse of LevelForXP, used for progress displays.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * 100
}

// NewProfile returns the default profile for a fresh identity.
func NewProfile(uid string, now time.Time) Profile {
	return Profile{
		UID:       uid,
		Level:     1,
		XP:        0,
		CreatedAt: now,
		LastLogin: now,
	}
}

// ProfileUpdate carries partial profile fields for merge-writes.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Level       *int       `json:"level,omitempty"`
	XP          *int       `json:"xp,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}
