package attendance

import (
	"context"
	"testing"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/services/club"
	"clubhub/services/event"
	"clubhub/services/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *store.MemStore
	users    user.Service
	clubs    club.Service
	events   event.Service
	uploader *fakeUploader
	svc      Service
}

type fakeUploader struct {
	objects map[string][]byte
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, objectName string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[objectName] = data
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := store.NewMemStore()
	users := user.NewService(db, nil)
	clubs := club.NewService(db)
	events := event.NewService(db)
	uploader := &fakeUploader{}
	return &fixture{
		db:       db,
		users:    users,
		clubs:    clubs,
		events:   events,
		uploader: uploader,
		svc:      NewService(db, clubs, users, events, uploader),
	}
}

func (f *fixture) seedTeam(t *testing.T, memberIDs ...string) (clubID, teamID string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range memberIDs {
		_, err := f.users.CreateUser(ctx, &user.User{
			ID:        id,
			FirstName: "Player",
			LastName:  id,
		})
		require.NoError(t, err)
	}
	c, err := f.clubs.CreateClub(ctx, &club.Club{
		Name:  "FC Test",
		Teams: []club.Team{{ID: "team-1", Name: "U12", Members: memberIDs}},
	})
	require.NoError(t, err)
	return c.ID, "team-1"
}

func TestComputeStatistics(t *testing.T) {
	records := []Record{
		{UserID: "a", Present: true},
		{UserID: "b", Present: true},
		{UserID: "c"},
	}
	stats := computeStatistics(records)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Present)
	assert.Equal(t, 1, stats.Absent)
	assert.Equal(t, 66.7, stats.Percentage)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := computeStatistics(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.Percentage)
}

func TestCrossCheckPartitionsEveryone(t *testing.T) {
	ev := &event.Event{
		ID: "ev-1",
		Responses: map[string]string{
			"a": event.ResponseConfirmed,
			"b": event.ResponseConfirmed,
			"c": event.ResponseDeclined,
			"d": event.ResponseTentative,
			"e": event.ResponseDeclined, // responded but never on the roster
		},
	}
	records := []Record{
		{UserID: "a", Present: true},
		{UserID: "b"},
		{UserID: "c", Present: true},
		{UserID: "d"},
		{UserID: "f", Present: true}, // on the roster, no response
	}
	check := computeCrossCheck(ev, records)
	require.NotNil(t, check)
	assert.Equal(t, 1, check.ConfirmedCame)
	assert.Equal(t, 1, check.ConfirmedMissed)
	assert.Equal(t, 1, check.DeclinedCame)
	assert.Equal(t, 1, check.DeclinedMissed)
	assert.Equal(t, 1, check.TentativeMissed)
	assert.Equal(t, 1, check.NoResponseCame)
	// every recorded or responding member lands in exactly one bucket
	assert.Equal(t, 6, check.Sum())
}

func TestPrefillFromEvent(t *testing.T) {
	ev := &event.Event{
		ID: "ev-1",
		Responses: map[string]string{
			"a": event.ResponseConfirmed,
			"b": event.ResponseDeclined,
			"c": event.ResponseTentative,
		},
	}
	records := prefillFromEvent(ev, []Record{
		{UserID: "a"}, {UserID: "b"}, {UserID: "c"}, {UserID: "d"},
	})
	assert.True(t, records[0].Present)
	assert.False(t, records[1].Present)
	assert.Equal(t, "RSVP: declined", records[1].Comment)
	assert.Equal(t, "RSVP: tentative", records[2].Comment)
	assert.False(t, records[3].Present)
	assert.Empty(t, records[3].Comment)
}

func TestInitSessionBuildsRosterAndPrefills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1", "u2", "u3")

	ev, err := f.events.CreateEvent(ctx, &event.Event{
		TeamID: teamID,
		ClubID: clubID,
		Title:  "Morning training",
		Day:    "2026-09-01",
	})
	require.NoError(t, err)
	require.NoError(t, f.events.Respond(ctx, ev.ID, "u1", event.ResponseConfirmed))

	result, err := f.svc.InitSession(ctx, teamID, clubID, "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, result.Session.Records, 3)
	assert.Equal(t, ev.ID, result.Session.EventID)
	assert.Equal(t, "Morning training", result.Session.EventTitle)
	assert.Empty(t, result.Existing)
	assert.Empty(t, result.SuggestedName)
	require.Len(t, result.Events, 1)

	var u1 *Record
	for i := range result.Session.Records {
		if result.Session.Records[i].UserID == "u1" {
			u1 = &result.Session.Records[i]
		}
	}
	require.NotNil(t, u1)
	assert.True(t, u1.Present)
	assert.Equal(t, 1, result.Session.Statistics.Present)
}

func TestInitSessionSuggestsNameWhenDayTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1")

	_, err := f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-09-01", Type: TypeTraining,
	}, Editor{ID: "coach", Name: "Coach"})
	require.NoError(t, err)

	result, err := f.svc.InitSession(ctx, teamID, clubID, "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, result.Existing, 1)
	assert.NotEmpty(t, result.SuggestedName)
}

func TestCreateSessionRequiresNameForSecondSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1")
	editor := Editor{ID: "coach", Name: "Coach"}

	first, err := f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-09-01", Type: TypeTraining,
	}, editor)
	require.NoError(t, err)
	require.Len(t, first.EditHistory, 1)

	_, err = f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-09-01", Type: TypeGame,
	}, editor)
	assert.ErrorIs(t, err, apperr.ErrSessionNameRequired)

	_, err = f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-09-01", Type: TypeGame,
		SessionName: "Cup match",
	}, editor)
	require.NoError(t, err)

	sessions, err := f.svc.GetByDate(ctx, teamID, "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestUpdateSessionRecomputesAndAppendsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1", "u2")

	created, err := f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-09-01", Type: TypeTraining,
		Records: []Record{{UserID: "u1"}, {UserID: "u2"}},
	}, Editor{ID: "coach", Name: "Coach"})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Statistics.Present)

	updated, err := f.svc.UpdateSession(ctx, created.ID, []Record{
		{UserID: "u1", Present: true},
		{UserID: "u2", Present: true},
	}, Editor{ID: "assist", Name: "Assistant"}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Statistics.Present)
	assert.Equal(t, 100.0, updated.Statistics.Percentage)
	require.Len(t, updated.EditHistory, 2)
	assert.Equal(t, "assist", updated.EditHistory[1].EditorID)

	stored, err := f.svc.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Statistics.Present)
}

func TestGetSessionNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrSessionNotFound)
}

func TestGetTeamSessionsRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1")
	editor := Editor{ID: "coach", Name: "Coach"}

	for _, day := range []string{"2026-08-20", "2026-08-25", "2026-09-01"} {
		_, err := f.svc.CreateSession(ctx, Session{
			TeamID: teamID, ClubID: clubID, Day: day, Type: TypeTraining,
		}, editor)
		require.NoError(t, err)
	}

	sessions, err := f.svc.GetTeamSessions(ctx, teamID, "2026-08-21", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2026-08-25", sessions[0].Day)

	all, err := f.svc.GetTeamSessions(ctx, teamID, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetTeamStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1", "u2")
	editor := Editor{ID: "coach", Name: "Coach"}

	_, err := f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-08-20", Type: TypeTraining,
		Records: []Record{
			{UserID: "u1", Name: "Player u1", Present: true},
			{UserID: "u2", Name: "Player u2", Present: true},
		},
	}, editor)
	require.NoError(t, err)
	_, err = f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-08-27", Type: TypeTraining,
		Records: []Record{
			{UserID: "u1", Name: "Player u1", Present: true},
			{UserID: "u2", Name: "Player u2"},
		},
	}, editor)
	require.NoError(t, err)

	stats, err := f.svc.GetTeamStats(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sessions)
	require.Len(t, stats.Members, 2)
	assert.Equal(t, 100.0, stats.Members[0].Rate)
	assert.Equal(t, 50.0, stats.Members[1].Rate)
	assert.Equal(t, 75.0, stats.OverallRate)
}

func TestExportTeamReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID, teamID := f.seedTeam(t, "u1")

	_, err := f.svc.CreateSession(ctx, Session{
		TeamID: teamID, ClubID: clubID, Day: "2026-08-20", Type: TypeTraining,
		Records: []Record{{UserID: "u1", Name: "Player u1", Present: true}},
	}, Editor{ID: "coach", Name: "Coach"})
	require.NoError(t, err)

	objectName, err := f.svc.ExportTeamReport(ctx, teamID, "", "")
	require.NoError(t, err)
	require.Contains(t, f.uploader.objects, objectName)

	body := string(f.uploader.objects[objectName])
	assert.Contains(t, body, "day,session,type,present,total,percentage")
	assert.Contains(t, body, "2026-08-20")
	assert.Contains(t, body, "Player u1,1,1,100.0")
}
