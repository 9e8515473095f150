// Package event stores scheduled team events and their RSVP responses.
package event

import (
	"context"
	"errors"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/utils"
)

const (
	ResponseConfirmed = "confirmed"
	ResponseDeclined  = "declined"
	ResponseTentative = "tentative"
)

type Event struct {
	ID     string `json:"id" firestore:"id"`
	TeamID string `json:"teamId" firestore:"teamId"`
	ClubID string `json:"clubId" firestore:"clubId"`
	Title  string `json:"title" firestore:"title"`
	// Day is the calendar day in YYYY-MM-DD form, used for lookups.
	Day      string `json:"day" firestore:"day"`
	StartsAt time.Time `json:"startsAt" firestore:"startsAt"`
	// Responses maps user id to one of the RSVP response values.
	Responses map[string]string `json:"responses" firestore:"responses"`
	CreatedAt time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

type Service interface {
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	// GetTeamEvents returns the team's events scheduled on the given day.
	GetTeamEvents(ctx context.Context, teamID, day string) ([]Event, error)
	CreateEvent(ctx context.Context, e *Event) (*Event, error)
	// Respond records a user's RSVP on the event.
	Respond(ctx context.Context, eventID, userID, response string) error
}

const Collection = "events"

type service struct {
	db store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{db: db}
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	doc, err := s.db.Get(ctx, Collection, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.ErrEventNotFound
		}
		return nil, err
	}
	e := Event{}
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *service) GetTeamEvents(ctx context.Context, teamID, day string) ([]Event, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "teamId", Op: "==", Value: teamID},
			{Path: "day", Op: "==", Value: day},
		},
	})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[Event](docs)
}

func (s *service) CreateEvent(ctx context.Context, e *Event) (*Event, error) {
	if e == nil {
		return nil, errors.New("event is nil")
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Day == "" && !e.StartsAt.IsZero() {
		e.Day = e.StartsAt.Format("2006-01-02")
	}
	if e.Responses == nil {
		e.Responses = map[string]string{}
	}
	if e.ID == "" {
		e.ID = s.db.NewID(Collection)
	}
	if err := s.db.Set(ctx, Collection, e.ID, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Respond(ctx context.Context, eventID, userID, response string) error {
	switch response {
	case ResponseConfirmed, ResponseDeclined, ResponseTentative:
	default:
		return apperr.ErrInvalidResponse
	}
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	e.Responses[userID] = response
	e.UpdatedAt = time.Now()
	return s.db.Set(ctx, Collection, e.ID, e)
}
