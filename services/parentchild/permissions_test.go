package parentchild

import (
	"context"
	"testing"

	"clubhub/services/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckChildPermissions(t *testing.T) {
	f := newFixture(t)
	controlled := &user.User{ID: "child-1", IsSubAccount: true, AccountType: user.AccountSubaccount}
	free := &user.User{ID: "adult-1", AccountType: user.AccountNormal}

	tests := []struct {
		name   string
		user   *user.User
		action string
		want   bool
	}{
		{"uncontrolled user may do anything", free, ActionDeleteClub, true},
		{"controlled child may respond to events", controlled, ActionRespondToEvents, true},
		{"controlled child may chat", controlled, ActionChat, true},
		{"controlled child may not create events", controlled, ActionCreateEvent, false},
		{"controlled child may not purchase subscriptions", controlled, ActionPurchaseSubscription, false},
		{"controlled child may not change password", controlled, ActionChangePassword, false},
		{"unknown action defaults to denied", controlled, "export_everything", false},
		{"nil user denied", nil, ActionChat, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.svc.CheckChildPermissions(tt.user, tt.action))
		})
	}
}

func TestCheckParentPermission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedParent(t, "parent-1", "p1@example.com")
	f.seedUser(t, user.User{ID: "child-1", Email: "c@example.com", ParentIDs: []string{"parent-1"}})

	ok, err := f.svc.CheckParentPermission(ctx, "parent-1", "child-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CheckParentPermission(ctx, "parent-2", "child-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
