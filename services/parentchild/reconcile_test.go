package parentchild

import (
	"context"
	"testing"
	"time"

	"clubhub/services/club"
	"clubhub/services/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedParent(t, "parent-1", "p1@example.com")
	f.seedUser(t, user.User{
		ID:        "child-1",
		Email:     "c@example.com",
		Role:      user.RoleUser,
		ParentIDs: []string{"parent-1", "ghost-parent"},
		ClubIDs:   []string{"club-1"},
	})
	require.NoError(t, f.users.UpdateUser(ctx, "parent-1", map[string]any{
		"childIds": []string{"child-1", "ghost-child"},
	}))
	f.seedClub(t, club.Club{
		ID:    "club-1",
		Teams: []club.Team{{ID: "team-1", Members: []string{"child-1", "ghost-child"}}},
	})

	// Relationship rows: one healthy, one naming a deleted user.
	now := time.Now()
	healthy := Relationship{
		ID: "rel-ok", ParentID: "parent-1", ChildID: "child-1",
		RelationshipType: TypeLinked, Status: StatusActive, CreatedAt: now, UpdatedAt: now,
	}
	orphan := Relationship{
		ID: "rel-orphan", ParentID: "parent-1", ChildID: "ghost-child",
		RelationshipType: TypeSubaccount, Status: StatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Set(ctx, Collection, healthy.ID, healthy))
	require.NoError(t, f.db.Set(ctx, Collection, orphan.ID, orphan))

	report, err := f.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphanedRelationships)
	assert.Equal(t, 1, report.StaleParentRefs)
	assert.Equal(t, 1, report.StaleChildRefs)
	assert.Equal(t, 1, report.RosterRemovals)

	// The healthy relationship survives.
	assert.Equal(t, 1, f.db.Len(Collection))

	childUser := f.getUser(t, "child-1")
	assert.Equal(t, []string{"parent-1"}, childUser.ParentIDs)
	parent := f.getUser(t, "parent-1")
	assert.Equal(t, []string{"child-1"}, parent.ChildIDs)

	c, err := f.clubs.GetClub(ctx, "club-1")
	require.NoError(t, err)
	team, err := f.clubs.FindTeam(c, "team-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"child-1"}, team.Members)
}
