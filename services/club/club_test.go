package club

import (
	"context"
	"testing"

	"clubhub/apperr"
	"clubhub/clients/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClub(t *testing.T, ctx context.Context, svc Service) *Club {
	t.Helper()
	c, err := svc.CreateClub(ctx, &Club{
		ID:   "club-1",
		Name: "Riverside SC",
		Teams: []Team{
			{ID: "team-a", Name: "U12 A", Members: []string{"child-1"}, Trainers: []string{"parent-1"}},
			{ID: "team-b", Name: "U12 B", Members: []string{"parent-2"}},
		},
	})
	require.NoError(t, err)
	return c
}

func TestSharedTeams(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemStore())
	seedClub(t, ctx, svc)

	t.Run("trainer and member share a team", func(t *testing.T) {
		shared, err := svc.SharedTeams(ctx, "child-1", "parent-1", []string{"club-1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"team-a"}, shared)
	})

	t.Run("no overlap", func(t *testing.T) {
		shared, err := svc.SharedTeams(ctx, "child-1", "parent-2", []string{"club-1"})
		require.NoError(t, err)
		assert.Empty(t, shared)
	})
}

func TestAddTeamMember(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemStore())
	seedClub(t, ctx, svc)

	require.NoError(t, svc.AddTeamMember(ctx, "club-1", "team-b", "child-1"))
	// Adding again is a no-op.
	require.NoError(t, svc.AddTeamMember(ctx, "club-1", "team-b", "child-1"))

	c, err := svc.GetClub(ctx, "club-1")
	require.NoError(t, err)
	team, err := svc.FindTeam(c, "team-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"parent-2", "child-1"}, team.Members)
	assert.Contains(t, c.Members, "child-1")
}

func TestFindTeamMissing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemStore())
	c := seedClub(t, ctx, svc)

	_, err := svc.FindTeam(c, "team-z")
	assert.ErrorIs(t, err, apperr.ErrTeamNotFound)
}

func TestRemoveUserEverywhere(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemStore())
	seedClub(t, ctx, svc)

	touched, err := svc.RemoveUserEverywhere(ctx, "child-1", []string{"club-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"club-1"}, touched)

	c, err := svc.GetClub(ctx, "club-1")
	require.NoError(t, err)
	team, err := svc.FindTeam(c, "team-a")
	require.NoError(t, err)
	assert.Empty(t, team.Members)
}
