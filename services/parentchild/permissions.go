package parentchild

import (
	"context"

	"clubhub/services/user"
)

// Actions gated for parent-controlled accounts.
const (
	ActionViewEvents           = "view_events"
	ActionRespondToEvents      = "respond_to_events"
	ActionChat                 = "chat"
	ActionViewNotifications    = "view_notifications"
	ActionViewOwnProfile       = "view_own_profile"
	ActionViewTeam             = "view_team"
	ActionViewClub             = "view_club"
	ActionCreateEvent          = "create_event"
	ActionEditEvent            = "edit_event"
	ActionDeleteEvent          = "delete_event"
	ActionManageUsers          = "manage_users"
	ActionPurchaseSubscription = "purchase_subscription"
	ActionChangePassword       = "change_password"
	ActionCreateClub           = "create_club"
	ActionEditClub             = "edit_club"
	ActionDeleteClub           = "delete_club"
)

var deniedActions = map[string]struct{}{
	ActionCreateEvent:          {},
	ActionEditEvent:            {},
	ActionDeleteEvent:          {},
	ActionManageUsers:          {},
	ActionPurchaseSubscription: {},
	ActionChangePassword:       {},
	ActionCreateClub:           {},
	ActionEditClub:             {},
	ActionDeleteClub:           {},
}

var allowedActions = map[string]struct{}{
	ActionViewEvents:        {},
	ActionRespondToEvents:   {},
	ActionChat:              {},
	ActionViewNotifications: {},
	ActionViewOwnProfile:    {},
	ActionViewTeam:          {},
	ActionViewClub:          {},
}

// CheckChildPermissions gates actions for parent-controlled accounts. The
// deny list always wins, and anything outside both lists is denied.
func (s *service) CheckChildPermissions(u *user.User, action string) bool {
	if u == nil {
		return false
	}
	if !u.UnderParentalControl() {
		return true
	}
	if _, denied := deniedActions[action]; denied {
		return false
	}
	if _, allowed := allowedActions[action]; allowed {
		return true
	}
	return false
}

func (s *service) CheckParentPermission(ctx context.Context, parentID, childID string) (bool, error) {
	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return false, err
	}
	return containsStr(child.ParentIDs, parentID), nil
}
