package attendance

import "time"

const (
	TypeTraining   = "training"
	TypeGame       = "game"
	TypeTournament = "tournament"
	TypeCustom     = "custom"
)

// Record is one roster member's entry in a session.
type Record struct {
	UserID         string            `json:"userId" firestore:"userId"`
	Name           string            `json:"name" firestore:"name"`
	Present        bool              `json:"present" firestore:"present"`
	Comment        string            `json:"comment,omitempty" firestore:"comment,omitempty"`
	CustomStatuses map[string]string `json:"customStatuses,omitempty" firestore:"customStatuses,omitempty"`
}

type Statistics struct {
	Total   int `json:"total" firestore:"total"`
	Present int `json:"present" firestore:"present"`
	Absent  int `json:"absent" firestore:"absent"`
	// Percentage is present/total rounded to one decimal, 0 for an empty roster.
	Percentage float64 `json:"percentage" firestore:"percentage"`
}

// CrossCheck tallies recorded presence against the linked event's RSVP
// responses. The eight buckets partition everyone who appears in either the
// attendance roster or the response map.
type CrossCheck struct {
	EventID          string `json:"eventId" firestore:"eventId"`
	ConfirmedCame    int    `json:"confirmedCame" firestore:"confirmedCame"`
	ConfirmedMissed  int    `json:"confirmedMissed" firestore:"confirmedMissed"`
	DeclinedCame     int    `json:"declinedCame" firestore:"declinedCame"`
	DeclinedMissed   int    `json:"declinedMissed" firestore:"declinedMissed"`
	TentativeCame    int    `json:"tentativeCame" firestore:"tentativeCame"`
	TentativeMissed  int    `json:"tentativeMissed" firestore:"tentativeMissed"`
	NoResponseCame   int    `json:"noResponseCame" firestore:"noResponseCame"`
	NoResponseMissed int    `json:"noResponseMissed" firestore:"noResponseMissed"`
}

func (c CrossCheck) Sum() int {
	return c.ConfirmedCame + c.ConfirmedMissed +
		c.DeclinedCame + c.DeclinedMissed +
		c.TentativeCame + c.TentativeMissed +
		c.NoResponseCame + c.NoResponseMissed
}

// EditEntry is one append-only edit-history row.
type EditEntry struct {
	EditorID    string    `json:"editorId" firestore:"editorId"`
	EditorName  string    `json:"editorName" firestore:"editorName"`
	At          time.Time `json:"at" firestore:"at"`
	Description string    `json:"description" firestore:"description"`
}

type Session struct {
	ID     string `json:"id" firestore:"id"`
	TeamID string `json:"teamId" firestore:"teamId"`
	ClubID string `json:"clubId" firestore:"clubId"`
	// Day is the calendar day in YYYY-MM-DD form.
	Day        string `json:"day" firestore:"day"`
	Type       string `json:"type" firestore:"type"`
	CustomType string `json:"customType,omitempty" firestore:"customType,omitempty"`
	// SessionName disambiguates multiple sessions on the same team+day.
	SessionName string      `json:"sessionName" firestore:"sessionName"`
	EventID     string      `json:"eventId,omitempty" firestore:"eventId,omitempty"`
	EventTitle  string      `json:"eventTitle,omitempty" firestore:"eventTitle,omitempty"`
	Records     []Record    `json:"records" firestore:"records"`
	Statistics  Statistics  `json:"statistics" firestore:"statistics"`
	CrossCheck  *CrossCheck `json:"crossCheck,omitempty" firestore:"crossCheck,omitempty"`
	EditHistory []EditEntry `json:"editHistory" firestore:"editHistory"`
	CreatedAt   time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// Editor identifies who performed a save, for the edit history.
type Editor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InitResult is the starting state for taking attendance on a team+day.
type InitResult struct {
	// Session is a prepared, unsaved session covering the team roster.
	Session Session `json:"session"`
	// Existing lists sessions already recorded for the team+day.
	Existing []Session `json:"existing"`
	// Events lists the team's scheduled events for the day.
	Events []EventRef `json:"events"`
	// SuggestedName is a name proposal when disambiguation will be needed.
	SuggestedName string `json:"suggestedName,omitempty"`
}

type EventRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MemberStat is one member's aggregate attendance across sessions.
type MemberStat struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

type TeamStats struct {
	TeamID      string       `json:"teamId"`
	Sessions    int          `json:"sessions"`
	Members     []MemberStat `json:"members"`
	OverallRate float64      `json:"overallRate"`
}
