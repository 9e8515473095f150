// Package club manages clubs and their embedded team rosters. Team arrays
// live inside the club document, so every roster mutation rewrites the club;
// last write wins, matching the consistency model of the hosted store.
package club

import (
	"context"
	"errors"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/set"
	"clubhub/utils"

	"github.com/rs/zerolog/log"
)

type Service interface {
	GetClub(ctx context.Context, clubID string) (*Club, error)
	GetClubs(ctx context.Context, clubIDs []string) ([]Club, error)
	CreateClub(ctx context.Context, c *Club) (*Club, error)
	FindTeam(c *Club, teamID string) (*Team, error)
	// IsTeamParticipant reports whether userID appears in the team's
	// members, trainers or assistants.
	IsTeamParticipant(t *Team, userID string) bool
	AddTeamMember(ctx context.Context, clubID, teamID, userID string) error
	RemoveTeamMember(ctx context.Context, clubID, teamID, userID string) error
	// RemoveUserEverywhere strips the user from club and team membership
	// lists across the given clubs. Returns the ids of clubs it touched.
	RemoveUserEverywhere(ctx context.Context, userID string, clubIDs []string) ([]string, error)
	// SharedTeams returns the ids of teams, across the given clubs, whose
	// roster contains both users.
	SharedTeams(ctx context.Context, userA, userB string, clubIDs []string) ([]string, error)
}

const Collection = "clubs"

type service struct {
	db store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{db: db}
}

func (s *service) GetClub(ctx context.Context, clubID string) (*Club, error) {
	doc, err := s.db.Get(ctx, Collection, clubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.ErrClubNotFound
		}
		return nil, err
	}
	c := Club{}
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *service) GetClubs(ctx context.Context, clubIDs []string) ([]Club, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters:    []store.Filter{{Path: "id", Op: "in", Value: clubIDs}},
	})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[Club](docs)
}

func (s *service) CreateClub(ctx context.Context, c *Club) (*Club, error) {
	if c == nil {
		return nil, errors.New("club is nil")
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ID == "" {
		c.ID = s.db.NewID(Collection)
	}
	if err := s.db.Set(ctx, Collection, c.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) FindTeam(c *Club, teamID string) (*Team, error) {
	if c == nil {
		return nil, apperr.ErrClubNotFound
	}
	for i := range c.Teams {
		if c.Teams[i].ID == teamID {
			return &c.Teams[i], nil
		}
	}
	return nil, apperr.ErrTeamNotFound
}

func (s *service) IsTeamParticipant(t *Team, userID string) bool {
	if t == nil {
		return false
	}
	return t.Roster().Contains(userID)
}

func (s *service) AddTeamMember(ctx context.Context, clubID, teamID, userID string) error {
	c, err := s.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	t, err := s.FindTeam(c, teamID)
	if err != nil {
		return err
	}
	if t.Roster().Contains(userID) {
		return nil
	}
	t.Members = append(t.Members, userID)
	if !set.FromSlice(c.Members).Contains(userID) {
		c.Members = append(c.Members, userID)
	}
	c.UpdatedAt = time.Now()
	return s.db.Set(ctx, Collection, c.ID, c)
}

func (s *service) RemoveTeamMember(ctx context.Context, clubID, teamID, userID string) error {
	c, err := s.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	t, err := s.FindTeam(c, teamID)
	if err != nil {
		return err
	}
	t.Members = remove(t.Members, userID)
	t.Trainers = remove(t.Trainers, userID)
	t.Assistants = remove(t.Assistants, userID)
	c.UpdatedAt = time.Now()
	return s.db.Set(ctx, Collection, c.ID, c)
}

func (s *service) RemoveUserEverywhere(ctx context.Context, userID string, clubIDs []string) ([]string, error) {
	clubs, err := s.GetClubs(ctx, clubIDs)
	if err != nil {
		return nil, err
	}
	touched := make([]string, 0)
	for i := range clubs {
		c := &clubs[i]
		changed := contains(c.Members, userID) || contains(c.Trainers, userID) || contains(c.Assistants, userID)
		c.Members = remove(c.Members, userID)
		c.Trainers = remove(c.Trainers, userID)
		c.Assistants = remove(c.Assistants, userID)
		for j := range c.Teams {
			t := &c.Teams[j]
			if t.Roster().Contains(userID) {
				changed = true
			}
			t.Members = remove(t.Members, userID)
			t.Trainers = remove(t.Trainers, userID)
			t.Assistants = remove(t.Assistants, userID)
		}
		if !changed {
			continue
		}
		c.UpdatedAt = time.Now()
		if err := s.db.Set(ctx, Collection, c.ID, c); err != nil {
			// Keep sweeping the remaining clubs; a stale roster entry is
			// repaired by the reconciliation pass.
			log.Warn().Err(err).Str("clubId", c.ID).Msg("failed to remove user from club")
			continue
		}
		touched = append(touched, c.ID)
	}
	return touched, nil
}

func (s *service) SharedTeams(ctx context.Context, userA, userB string, clubIDs []string) ([]string, error) {
	clubs, err := s.GetClubs(ctx, clubIDs)
	if err != nil {
		return nil, err
	}
	shared := make([]string, 0)
	for _, c := range clubs {
		for _, t := range c.Teams {
			roster := t.Roster()
			if roster.Contains(userA) && roster.Contains(userB) {
				shared = append(shared, t.ID)
			}
		}
	}
	return shared, nil
}

func remove(items []string, target string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			result = append(result, item)
		}
	}
	return result
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
