// Package notification stores per-user notification preferences and
// dispatches push messages for team events.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubhub/clients/push"
	"clubhub/clients/store"
	"clubhub/services/club"
	"clubhub/services/event"

	"github.com/rs/zerolog/log"
)

type Service interface {
	// GetSettings returns the user's settings for a club, falling back to
	// the everything-on defaults when nothing has been saved.
	GetSettings(ctx context.Context, userID, clubID string) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) (*Settings, error)
	// EffectiveFor resolves the settings that apply to one team, applying
	// the team override on top of the defaults.
	EffectiveFor(ctx context.Context, userID, clubID, teamID string) (*Effective, error)
	// NotifyEvent pushes a message about ev to every team member whose
	// effective settings allow the given kind. Delivery failures are
	// logged per recipient and do not stop the fan-out.
	NotifyEvent(ctx context.Context, ev *event.Event, kind string) error
}

// Sender delivers a single push message.
type Sender interface {
	Send(ctx context.Context, msg push.Message) error
}

const Collection = "notificationSettings"

type service struct {
	db          store.Store
	clubService club.Service
	sender      Sender
}

var _ Service = (*service)(nil)

func NewService(db store.Store, clubService club.Service, sender Sender) Service {
	return &service{db: db, clubService: clubService, sender: sender}
}

func settingsID(userID, clubID string) string {
	return userID + "_" + clubID
}

func (s *service) GetSettings(ctx context.Context, userID, clubID string) (*Settings, error) {
	doc, err := s.db.Get(ctx, Collection, settingsID(userID, clubID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			defaults := DefaultSettings(userID, clubID)
			return &defaults, nil
		}
		return nil, err
	}
	settings := Settings{}
	if err := doc.DataTo(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *service) SaveSettings(ctx context.Context, settings Settings) (*Settings, error) {
	if settings.UserID == "" || settings.ClubID == "" {
		return nil, errors.New("userId and clubId are required")
	}
	settings.ID = settingsID(settings.UserID, settings.ClubID)
	settings.UpdatedAt = time.Now()
	if err := s.db.Set(ctx, Collection, settings.ID, settings); err != nil {
		return nil, fmt.Errorf("failed to save notification settings: %w", err)
	}
	return &settings, nil
}

func (s *service) EffectiveFor(ctx context.Context, userID, clubID, teamID string) (*Effective, error) {
	settings, err := s.GetSettings(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	return resolve(settings, teamID), nil
}

func resolve(settings *Settings, teamID string) *Effective {
	effective := &Effective{Channels: settings.Defaults}
	override, ok := settings.Teams[teamID]
	if !ok {
		return effective
	}
	effective.Muted = override.Muted
	if override.Channels != nil {
		effective.Channels = *override.Channels
	}
	return effective
}

func (s *service) NotifyEvent(ctx context.Context, ev *event.Event, kind string) error {
	if s.sender == nil {
		return nil
	}
	c, err := s.clubService.GetClub(ctx, ev.ClubID)
	if err != nil {
		return err
	}
	team, err := s.clubService.FindTeam(c, ev.TeamID)
	if err != nil {
		return err
	}

	title, body := messageFor(ev, kind)
	for _, userID := range team.Roster().ToSlice() {
		settings, err := s.GetSettings(ctx, userID, ev.ClubID)
		if err != nil {
			log.Warn().Err(err).Str("userId", userID).Msg("failed to load notification settings")
			continue
		}
		effective := resolve(settings, ev.TeamID)
		if effective.Muted || !effective.Channels.Push.Enabled(kind) {
			continue
		}
		msg := push.Message{
			UserID: userID,
			Title:  title,
			Body:   body,
			Data: map[string]string{
				"eventId": ev.ID,
				"teamId":  ev.TeamID,
				"kind":    kind,
			},
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("userId", userID).Msg("push delivery failed")
		}
	}
	return nil
}

func messageFor(ev *event.Event, kind string) (title, body string) {
	switch kind {
	case KindEventCreated:
		return "New event", fmt.Sprintf("%s on %s", ev.Title, ev.Day)
	case KindEventUpdated:
		return "Event updated", fmt.Sprintf("%s on %s was changed", ev.Title, ev.Day)
	case KindEventCancelled:
		return "Event cancelled", fmt.Sprintf("%s on %s was cancelled", ev.Title, ev.Day)
	case KindEventReminder:
		return "Upcoming event", fmt.Sprintf("%s starts soon", ev.Title)
	case KindAttendanceSaved:
		return "Attendance recorded", fmt.Sprintf("Attendance for %s was saved", ev.Title)
	}
	return ev.Title, ev.Day
}
