package notification

import "time"

// Event kinds a member can toggle per channel.
const (
	KindEventCreated    = "eventCreated"
	KindEventUpdated    = "eventUpdated"
	KindEventCancelled  = "eventCancelled"
	KindEventReminder   = "eventReminder"
	KindAttendanceSaved = "attendanceSaved"
)

type EventToggles struct {
	EventCreated    bool `json:"eventCreated" firestore:"eventCreated"`
	EventUpdated    bool `json:"eventUpdated" firestore:"eventUpdated"`
	EventCancelled  bool `json:"eventCancelled" firestore:"eventCancelled"`
	EventReminder   bool `json:"eventReminder" firestore:"eventReminder"`
	AttendanceSaved bool `json:"attendanceSaved" firestore:"attendanceSaved"`
}

func (t EventToggles) Enabled(kind string) bool {
	switch kind {
	case KindEventCreated:
		return t.EventCreated
	case KindEventUpdated:
		return t.EventUpdated
	case KindEventCancelled:
		return t.EventCancelled
	case KindEventReminder:
		return t.EventReminder
	case KindAttendanceSaved:
		return t.AttendanceSaved
	}
	return false
}

type ChannelSettings struct {
	Email EventToggles `json:"email" firestore:"email"`
	Push  EventToggles `json:"push" firestore:"push"`
}

// TeamOverride adjusts a single team. A nil Channels inherits the user's
// defaults; Muted silences the team entirely.
type TeamOverride struct {
	Muted    bool             `json:"muted" firestore:"muted"`
	Channels *ChannelSettings `json:"channels,omitempty" firestore:"channels,omitempty"`
}

// Settings is one user's notification preferences within a club.
type Settings struct {
	ID        string                  `json:"id" firestore:"id"`
	UserID    string                  `json:"userId" firestore:"userId"`
	ClubID    string                  `json:"clubId" firestore:"clubId"`
	Defaults  ChannelSettings         `json:"defaults" firestore:"defaults"`
	Teams     map[string]TeamOverride `json:"teams,omitempty" firestore:"teams,omitempty"`
	UpdatedAt time.Time               `json:"updatedAt" firestore:"updatedAt"`
}

// Effective is the resolved per-team view of a user's settings.
type Effective struct {
	Muted    bool            `json:"muted"`
	Channels ChannelSettings `json:"channels"`
}

func allOn() EventToggles {
	return EventToggles{
		EventCreated:    true,
		EventUpdated:    true,
		EventCancelled:  true,
		EventReminder:   true,
		AttendanceSaved: true,
	}
}

// DefaultSettings is what a user gets before saving anything: everything on.
func DefaultSettings(userID, clubID string) Settings {
	return Settings{
		UserID: userID,
		ClubID: clubID,
		Defaults: ChannelSettings{
			Email: allOn(),
			Push:  allOn(),
		},
	}
}
