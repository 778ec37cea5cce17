package session

import (
	"context"
	"fmt"

	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/metrics"
)

// ConvertGuestToUser promotes the active guest session into a registered
// account, preserving level and XP. The steps are strictly sequenced:
//
//  1. validate credentials (no network or storage call on failure)
//  2. register with the gateway (failure leaves guest state untouched)
//  3. write the preserved profile for the new uid
//  4. clear guest local state
//  5. transition to RegisteredActive
//
// The guest uid is abandoned and never reused.
func (s *service) ConvertGuestToUser(ctx context.Context, email, password, displayName string) error {
	log := logger.FromContext(ctx)

	if err := s.validateCredentials(credentials{Email: email, Password: password, DisplayName: displayName, NeedName: true}); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != StateGuestActive || s.identity == nil {
		s.mu.Unlock()
		return domain.ErrNotGuest
	}
	guestUID := s.identity.UID
	preserved := *s.profile
	s.mu.Unlock()

	res, err := s.gateway.Register(ctx, email, password, displayName)
	if err != nil {
		// No partial conversion: the guest session stays as it was.
		return err
	}

	update := domain.ProfileUpdate{Level: &preserved.Level, XP: &preserved.XP}
	if err := s.gateway.SaveProfile(ctx, res.Identity.UID, update); err != nil {
		return fmt.Errorf("failed to carry over guest progress: %w", err)
	}
	res.Profile.Level = preserved.Level
	res.Profile.XP = preserved.XP

	if err := s.guests.ClearGuestData(); err != nil {
		// The account exists and holds the progress; a lingering local
		// record is recovered on the next startup resolution.
		log.Warn("Failed to clear guest data after conversion", "error", err)
	}

	if err := s.adoptRegistered(ctx, res, true); err != nil {
		return err
	}

	metrics.GuestConversions.Inc()
	s.publish(ctx, event.New(event.GuestConverted, event.GuestConvertedPayloadV1{
		GuestUID:  guestUID,
		UID:       res.Identity.UID,
		Level:     preserved.Level,
		XP:        preserved.XP,
		Timestamp: event.Now(),
	}))

	log.Info("Guest converted to registered account",
		"guest_uid", guestUID,
		"uid", res.Identity.UID,
		"level", preserved.Level,
		"xp", preserved.XP)

	return nil
}
