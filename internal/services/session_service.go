package services

import (
	"fmt"
	"time"

	"github.com/taskboardhq/taskboard-api/internal/events"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

// SessionService announces session starts and ends. There is no session
// storage here; the caller owns authentication, this just feeds the fan-out
// engine and keeps last-login bookkeeping.
type SessionService struct {
	users repository.UserRepository
	bus   *events.Bus
	now   func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(users repository.UserRepository, bus *events.Bus) *SessionService {
	return &SessionService{
		users: users,
		bus:   bus,
		now:   time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to pin timestamps.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Start records a session start for the identity and emits SessionStarted.
func (s *SessionService) Start(identity models.Identity) error {
	user, err := s.users.FindByID(identity.ID)
	if err == nil {
		now := s.now()
		user.LastLogin = &now
		if err := s.users.Replace(user); err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}
	}

	s.bus.Publish(events.SessionStarted{User: identity})
	return nil
}

// End records a session end for the identity and emits SessionEnded.
func (s *SessionService) End(identity models.Identity) error {
	s.bus.Publish(events.SessionEnded{User: identity})
	return nil
}
