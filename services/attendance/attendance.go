// Package attendance records per-team, per-day attendance sessions and
// reconciles them against scheduled-event RSVPs.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/generator"
	"clubhub/services/club"
	"clubhub/services/event"
	"clubhub/services/user"
	"clubhub/utils"

	"github.com/rs/zerolog/log"
)

type Service interface {
	// InitSession prepares the entry state for a team+day: roster, any
	// existing sessions, the day's events, and RSVP prefill when exactly
	// one event is scheduled.
	InitSession(ctx context.Context, teamID, clubID, day string) (*InitResult, error)
	// CreateSession persists a new session. When the team+day already has
	// a session, a non-empty session name is required.
	CreateSession(ctx context.Context, s Session, editor Editor) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	GetByDate(ctx context.Context, teamID, day string) ([]Session, error)
	// UpdateSession replaces the session's records and metadata, recomputes
	// the derived fields and appends an edit-history entry.
	UpdateSession(ctx context.Context, sessionID string, records []Record, editor Editor, description string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetTeamSessions(ctx context.Context, teamID, fromDay, toDay string) ([]Session, error)
	GetTeamStats(ctx context.Context, teamID string) (*TeamStats, error)
	// ExportTeamReport renders the team's sessions as CSV and uploads the
	// file to the report archive. Returns the object name.
	ExportTeamReport(ctx context.Context, teamID, fromDay, toDay string) (string, error)
}

const Collection = "attendanceSessions"

// ReportUploader stores rendered attendance reports.
type ReportUploader interface {
	Upload(ctx context.Context, objectName string, data []byte) error
}

type service struct {
	db           store.Store
	clubService  club.Service
	userService  user.Service
	eventService event.Service
	uploader     ReportUploader
}

var _ Service = (*service)(nil)

func NewService(db store.Store, clubService club.Service, userService user.Service, eventService event.Service, uploader ReportUploader) Service {
	return &service{
		db:           db,
		clubService:  clubService,
		userService:  userService,
		eventService: eventService,
		uploader:     uploader,
	}
}

func (s *service) InitSession(ctx context.Context, teamID, clubID, day string) (*InitResult, error) {
	c, err := s.clubService.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	team, err := s.clubService.FindTeam(c, teamID)
	if err != nil {
		return nil, err
	}

	rosterIDs := team.Roster().ToSlice()
	members, err := s.userService.GetByIDs(ctx, rosterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName()
	}
	records := make([]Record, 0, len(rosterIDs))
	for _, id := range rosterIDs {
		records = append(records, Record{UserID: id, Name: names[id]})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	existing, err := s.GetByDate(ctx, teamID, day)
	if err != nil {
		return nil, err
	}

	events, err := s.eventService.GetTeamEvents(ctx, teamID, day)
	if err != nil {
		return nil, err
	}

	session := Session{
		TeamID:  teamID,
		ClubID:  clubID,
		Day:     day,
		Type:    TypeTraining,
		Records: records,
	}
	// A single scheduled event is linked automatically and its RSVPs seed
	// the presence flags.
	if len(events) == 1 {
		ev := events[0]
		session.EventID = ev.ID
		session.EventTitle = ev.Title
		session.Records = prefillFromEvent(&ev, session.Records)
	}
	session.Statistics = computeStatistics(session.Records)

	result := &InitResult{Session: session, Existing: existing}
	for _, ev := range events {
		result.Events = append(result.Events, EventRef{ID: ev.ID, Title: ev.Title})
	}
	if len(existing) > 0 {
		result.SuggestedName = generator.SessionName(session.Type)
	}
	return result, nil
}

func (s *service) CreateSession(ctx context.Context, session Session, editor Editor) (*Session, error) {
	if session.TeamID == "" || session.Day == "" {
		return nil, errors.New("teamId and day are required")
	}
	existing, err := s.GetByDate(ctx, session.TeamID, session.Day)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && strings.TrimSpace(session.SessionName) == "" {
		return nil, apperr.ErrSessionNameRequired
	}

	if err := s.recompute(ctx, &session); err != nil {
		return nil, err
	}

	now := time.Now()
	session.ID = s.db.NewID(Collection)
	session.CreatedAt = now
	session.UpdatedAt = now
	session.EditHistory = append(session.EditHistory, EditEntry{
		EditorID:    editor.ID,
		EditorName:  editor.Name,
		At:          now,
		Description: "Session created",
	})
	if err := s.db.Set(ctx, Collection, session.ID, session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	doc, err := s.db.Get(ctx, Collection, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.ErrSessionNotFound
		}
		return nil, err
	}
	session := Session{}
	if err := doc.DataTo(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *service) GetByDate(ctx context.Context, teamID, day string) ([]Session, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "teamId", Op: "==", Value: teamID},
			{Path: "day", Op: "==", Value: day},
		},
		OrderBy: "createdAt",
	})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[Session](docs)
}

func (s *service) UpdateSession(ctx context.Context, sessionID string, records []Record, editor Editor, description string) (*Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Records = records
	if err := s.recompute(ctx, session); err != nil {
		return nil, err
	}
	now := time.Now()
	session.UpdatedAt = now
	if description == "" {
		description = "Attendance updated"
	}
	session.EditHistory = append(session.EditHistory, EditEntry{
		EditorID:    editor.ID,
		EditorName:  editor.Name,
		At:          now,
		Description: description,
	})
	if err := s.db.Set(ctx, Collection, session.ID, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.Delete(ctx, Collection, sessionID)
}

func (s *service) GetTeamSessions(ctx context.Context, teamID, fromDay, toDay string) ([]Session, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters:    []store.Filter{{Path: "teamId", Op: "==", Value: teamID}},
		OrderBy:    "day",
	})
	if err != nil {
		return nil, err
	}
	sessions, err := utils.DocsTo[Session](docs)
	if err != nil {
		return nil, err
	}
	if fromDay == "" && toDay == "" {
		return sessions, nil
	}
	filtered := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if fromDay != "" && session.Day < fromDay {
			continue
		}
		if toDay != "" && session.Day > toDay {
			continue
		}
		filtered = append(filtered, session)
	}
	return filtered, nil
}

func (s *service) GetTeamStats(ctx context.Context, teamID string) (*TeamStats, error) {
	sessions, err := s.GetTeamSessions(ctx, teamID, "", "")
	if err != nil {
		return nil, err
	}

	type tally struct {
		name    string
		present int
		total   int
	}
	tallies := map[string]*tally{}
	order := make([]string, 0)
	for _, session := range sessions {
		for _, r := range session.Records {
			entry, ok := tallies[r.UserID]
			if !ok {
				entry = &tally{name: r.Name}
				tallies[r.UserID] = entry
				order = append(order, r.UserID)
			}
			entry.total++
			if r.Present {
				entry.present++
			}
		}
	}
	sort.Strings(order)

	stats := &TeamStats{TeamID: teamID, Sessions: len(sessions)}
	sumRates := 0.0
	for _, userID := range order {
		entry := tallies[userID]
		rate := 0.0
		if entry.total > 0 {
			rate = roundRate(float64(entry.present) / float64(entry.total) * 100)
		}
		sumRates += rate
		stats.Members = append(stats.Members, MemberStat{
			UserID:  userID,
			Name:    entry.name,
			Present: entry.present,
			Total:   entry.total,
			Rate:    rate,
		})
	}
	if len(stats.Members) > 0 {
		stats.OverallRate = roundRate(sumRates / float64(len(stats.Members)))
	}
	return stats, nil
}

// recompute refreshes the derived statistics and, when an event is linked,
// the cross-check tally.
func (s *service) recompute(ctx context.Context, session *Session) error {
	session.Statistics = computeStatistics(session.Records)
	if session.EventID == "" {
		session.CrossCheck = nil
		return nil
	}
	ev, err := s.eventService.GetEvent(ctx, session.EventID)
	if err != nil {
		if errors.Is(err, apperr.ErrEventNotFound) {
			log.Warn().Str("eventId", session.EventID).Msg("linked event is gone; dropping cross-check")
			session.CrossCheck = nil
			return nil
		}
		return err
	}
	session.CrossCheck = computeCrossCheck(ev, session.Records)
	return nil
}

func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}
