package parentchild

import (
	"context"
	"testing"

	"clubhub/apperr"
	"clubhub/services/club"
	"clubhub/services/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChildAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-parent caller", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, user.User{ID: "trainer-1", Email: "t@example.com", Role: user.RoleTrainer})

		_, err := f.svc.CreateChildAccount(ctx, "trainer-1", NewChild{FirstName: "Kim"})
		assert.ErrorIs(t, err, apperr.ErrUserNotParent)
	})

	t.Run("subaccount is active immediately", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")

		result, err := f.svc.CreateChildAccount(ctx, "parent-1", NewChild{FirstName: "Kim", LastName: "Larsen"})
		require.NoError(t, err)
		require.NotEmpty(t, result.ChildID)

		child := f.getUser(t, result.ChildID)
		assert.Equal(t, user.AccountSubaccount, child.AccountType)
		assert.True(t, child.IsSubAccount)
		assert.Equal(t, "parent-1", child.ManagedByParentID)
		assert.Equal(t, []string{"parent-1"}, child.ParentIDs)
		assert.Equal(t, "p1@example.com", child.Email, "subaccount shares the parent's email")

		parent := f.getUser(t, "parent-1")
		assert.Contains(t, parent.ChildIDs, result.ChildID)

		rels, err := f.svc.(*service).relationshipsBetween(ctx, "parent-1", result.ChildID)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, TypeSubaccount, rels[0].RelationshipType)
		assert.Equal(t, StatusActive, rels[0].Status)
		assert.True(t, rels[0].ParentApproved)
		assert.True(t, rels[0].ChildApproved)
	})

	t.Run("auto-approves teams the parent participates in", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")
		f.seedClub(t, club.Club{
			ID: "club-1",
			Teams: []club.Team{
				{ID: "team-1", Trainers: []string{"parent-1"}},
				{ID: "team-2"},
			},
		})

		result, err := f.svc.CreateChildAccount(ctx, "parent-1", NewChild{
			FirstName: "Kim",
			ClubSelections: []ClubSelection{
				{ClubID: "club-1", TeamIDs: []string{"team-1", "team-2"}},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.AutoApproved, 1)
		assert.Equal(t, "team-1", result.AutoApproved[0].TeamID)
		require.Len(t, result.JoinRequests, 1)

		child := f.getUser(t, result.ChildID)
		assert.Contains(t, child.TeamIDs, "team-1")
		assert.NotContains(t, child.TeamIDs, "team-2")

		c, err := f.clubs.GetClub(ctx, "club-1")
		require.NoError(t, err)
		team, err := f.clubs.FindTeam(c, "team-1")
		require.NoError(t, err)
		assert.Contains(t, team.Members, result.ChildID)
	})
}

func TestDeleteChildAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("owner hard-deletes subaccount", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")
		f.seedClub(t, club.Club{ID: "club-1", Teams: []club.Team{{ID: "team-1", Trainers: []string{"parent-1"}}}})

		created, err := f.svc.CreateChildAccount(ctx, "parent-1", NewChild{
			FirstName:      "Kim",
			ClubSelections: []ClubSelection{{ClubID: "club-1", TeamIDs: []string{"team-1"}}},
		})
		require.NoError(t, err)

		result, err := f.svc.DeleteChildAccount(ctx, "parent-1", created.ChildID)
		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.False(t, result.Unlinked)

		_, err = f.users.GetUser(ctx, created.ChildID)
		assert.ErrorIs(t, err, user.NotFound)

		parent := f.getUser(t, "parent-1")
		assert.NotContains(t, parent.ChildIDs, created.ChildID)

		c, err := f.clubs.GetClub(ctx, "club-1")
		require.NoError(t, err)
		team, err := f.clubs.FindTeam(c, "team-1")
		require.NoError(t, err)
		assert.NotContains(t, team.Members, created.ChildID)

		rels, err := f.svc.(*service).relationshipsBetween(ctx, "parent-1", created.ChildID)
		require.NoError(t, err)
		assert.Empty(t, rels)
	})

	t.Run("non-owning co-parent only unlinks", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")
		f.seedParent(t, "parent-2", "p2@example.com")
		f.seedUser(t, user.User{
			ID:                "child-1",
			Email:             "p1@example.com",
			Role:              user.RoleUser,
			AccountType:       user.AccountSubaccount,
			IsSubAccount:      true,
			ManagedByParentID: "parent-1",
			ParentIDs:         []string{"parent-1", "parent-2"},
		})

		result, err := f.svc.DeleteChildAccount(ctx, "parent-2", "child-1")
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.True(t, result.Unlinked)

		child := f.getUser(t, "child-1")
		assert.Equal(t, []string{"parent-1"}, child.ParentIDs)
		// Still a subaccount: only the controlling owner may hard-delete.
		assert.Equal(t, user.AccountSubaccount, child.AccountType)
	})

	t.Run("unlinking the last parent makes the child independent", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")
		f.seedUser(t, user.User{
			ID:          "child-1",
			Email:       "c1@example.com",
			Role:        user.RoleUser,
			AccountType: user.AccountLinked,
			ParentIDs:   []string{"parent-1"},
		})

		result, err := f.svc.DeleteChildAccount(ctx, "parent-1", "child-1")
		require.NoError(t, err)
		assert.True(t, result.Unlinked)

		child := f.getUser(t, "child-1")
		assert.Empty(t, child.ParentIDs)
		assert.Equal(t, user.AccountIndependent, child.AccountType)
	})

	t.Run("missing child", func(t *testing.T) {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")

		_, err := f.svc.DeleteChildAccount(ctx, "parent-1", "nope")
		assert.ErrorIs(t, err, apperr.ErrChildNotFound)
	})
}

func TestAssignChildToTeam(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, trainers []string) *fixture {
		f := newFixture(t)
		f.seedParent(t, "parent-1", "p1@example.com")
		f.seedUser(t, user.User{
			ID:                "child-1",
			Email:             "p1@example.com",
			Role:              user.RoleUser,
			AccountType:       user.AccountSubaccount,
			IsSubAccount:      true,
			ManagedByParentID: "parent-1",
			ParentIDs:         []string{"parent-1"},
		})
		f.seedClub(t, club.Club{ID: "club-1", Teams: []club.Team{{ID: "team-1", Trainers: trainers}}})
		return f
	}

	t.Run("auto-approve by co-membership", func(t *testing.T) {
		f := seed(t, []string{"parent-1"})

		result, err := f.svc.AssignChildToTeam(ctx, "child-1", "club-1", "team-1", "parent-1")
		require.NoError(t, err)
		assert.True(t, result.AutoApproved)
		assert.False(t, result.NeedsApproval)

		child := f.getUser(t, "child-1")
		assert.Contains(t, child.TeamIDs, "team-1")
		assert.Contains(t, child.ClubIDs, "club-1")
	})

	t.Run("needs approval when parent is not on the team", func(t *testing.T) {
		f := seed(t, nil)

		result, err := f.svc.AssignChildToTeam(ctx, "child-1", "club-1", "team-1", "parent-1")
		require.NoError(t, err)
		assert.True(t, result.NeedsApproval)
		require.NotEmpty(t, result.RequestID)

		// Team membership unchanged.
		c, err := f.clubs.GetClub(ctx, "club-1")
		require.NoError(t, err)
		team, err := f.clubs.FindTeam(c, "team-1")
		require.NoError(t, err)
		assert.Empty(t, team.Members)
	})

	t.Run("second assignment reports alreadyMember without writes", func(t *testing.T) {
		f := seed(t, []string{"parent-1"})

		_, err := f.svc.AssignChildToTeam(ctx, "child-1", "club-1", "team-1", "parent-1")
		require.NoError(t, err)

		before, err := f.clubs.GetClub(ctx, "club-1")
		require.NoError(t, err)

		result, err := f.svc.AssignChildToTeam(ctx, "child-1", "club-1", "team-1", "parent-1")
		require.NoError(t, err)
		assert.True(t, result.AlreadyMember)

		after, err := f.clubs.GetClub(ctx, "club-1")
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})

	t.Run("only the managing parent may assign", func(t *testing.T) {
		f := seed(t, []string{"parent-1"})
		f.seedParent(t, "parent-2", "p2@example.com")

		_, err := f.svc.AssignChildToTeam(ctx, "child-1", "club-1", "team-1", "parent-2")
		assert.ErrorIs(t, err, apperr.ErrNotAuthorized)
	})
}

func TestUpdateChildProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedParent(t, "parent-1", "p1@example.com")
	f.seedUser(t, user.User{
		ID:        "child-1",
		Email:     "c1@example.com",
		Role:      user.RoleUser,
		ParentIDs: []string{"parent-1"},
		FirstName: "Kim",
	})

	name := "Kimberly"
	require.NoError(t, f.svc.UpdateChildProfile(ctx, "parent-1", "child-1", ProfileUpdate{FirstName: &name}))
	assert.Equal(t, "Kimberly", f.getUser(t, "child-1").FirstName)

	err := f.svc.UpdateChildProfile(ctx, "stranger", "child-1", ProfileUpdate{FirstName: &name})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)
}
