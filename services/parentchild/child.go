package parentchild

import (
	"context"
	"fmt"
	"time"

	"clubhub/apperr"
	"clubhub/services/user"

	"github.com/rs/zerolog/log"
)

func (s *service) CreateChildAccount(ctx context.Context, parentID string, child NewChild) (*CreateChildResult, error) {
	parent, err := s.userService.GetUser(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent: %w", err)
	}
	if parent.Role != user.RoleParent {
		return nil, apperr.ErrUserNotParent
	}

	// The subaccount shares the parent's email; it is not independently
	// authenticated.
	childUser := &user.User{
		Email:             parent.Email,
		FirstName:         child.FirstName,
		LastName:          child.LastName,
		BirthDate:         child.BirthDate,
		Role:              user.RoleUser,
		AccountType:       user.AccountSubaccount,
		IsSubAccount:      true,
		ManagedByParentID: parentID,
		ParentIDs:         []string{parentID},
		ChildIDs:          []string{},
		ClubIDs:           []string{},
		TeamIDs:           []string{},
	}
	childUser, err = s.userService.CreateUser(ctx, childUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create child account: %w", err)
	}

	result := &CreateChildResult{
		ChildID:      childUser.ID,
		AutoApproved: []TeamAssignment{},
		JoinRequests: []string{},
	}

	warnings, err := runSteps(ctx, []step{
		critical("update parent childIds", func(ctx context.Context) error {
			return s.userService.UpdateUser(ctx, parentID, map[string]any{
				"childIds": append(parent.ChildIDs, childUser.ID),
			})
		}),
		// The same actor controls both sides, so the relationship activates
		// immediately with both approvals set.
		critical("create relationship", func(ctx context.Context) error {
			now := time.Now()
			rel := Relationship{
				ID:               s.db.NewID(Collection),
				ParentID:         parentID,
				ChildID:          childUser.ID,
				RelationshipType: TypeSubaccount,
				Status:           StatusActive,
				ParentApproved:   true,
				ChildApproved:    true,
				AllParentIDs:     []string{parentID},
				SharedTeams:      []string{},
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			return s.db.Set(ctx, Collection, rel.ID, rel)
		}),
	})
	result.Warnings = warnings
	if err != nil {
		// The child user document is not rolled back; the reconciliation
		// sweep picks up any dangling references.
		return result, err
	}

	for _, selection := range child.ClubSelections {
		c, err := s.clubService.GetClub(ctx, selection.ClubID)
		if err != nil {
			log.Warn().Err(err).Str("clubId", selection.ClubID).Msg("skipping club selection")
			result.Warnings = append(result.Warnings, fmt.Sprintf("club %s: %v", selection.ClubID, err))
			continue
		}
		childUser.ClubIDs = append(childUser.ClubIDs, c.ID)
		for _, teamID := range selection.TeamIDs {
			team, err := s.clubService.FindTeam(c, teamID)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("team %s: %v", teamID, err))
				continue
			}
			if s.clubService.IsTeamParticipant(team, parentID) {
				if err := s.clubService.AddTeamMember(ctx, c.ID, teamID, childUser.ID); err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("add to team %s: %v", teamID, err))
					continue
				}
				childUser.TeamIDs = append(childUser.TeamIDs, teamID)
				result.AutoApproved = append(result.AutoApproved, TeamAssignment{ClubID: c.ID, TeamID: teamID})
			} else {
				req, err := s.requestService.CreateJoinRequest(ctx, childUser.ID, c.ID, teamID, parentID)
				if err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("join request for team %s: %v", teamID, err))
					continue
				}
				result.JoinRequests = append(result.JoinRequests, req.ID)
			}
		}
	}
	if len(child.ClubSelections) > 0 {
		err := s.userService.UpdateUser(ctx, childUser.ID, map[string]any{
			"clubIds": childUser.ClubIDs,
			"teamIds": childUser.TeamIDs,
		})
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("update child memberships: %v", err))
		}
	}

	return result, nil
}

// DeleteChildAccount removes childID from the calling parent. Only the
// controlling owner of a subaccount may hard-delete it; any other linked
// parent, co-parent included, merely unlinks their own reference.
func (s *service) DeleteChildAccount(ctx context.Context, parentID, childID string) (*DeleteChildResult, error) {
	parent, err := s.userService.GetUser(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent: %w", err)
	}
	if err := s.userService.UpdateUser(ctx, parentID, map[string]any{
		"childIds": removeStr(parent.ChildIDs, childID),
	}); err != nil {
		return nil, fmt.Errorf("failed to detach child from parent: %w", err)
	}

	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return nil, apperr.ErrChildNotFound
	}

	result := &DeleteChildResult{}
	if child.IsSubAccount && child.ManagedByParentID == parentID {
		warnings, err := runSteps(ctx, []step{
			bestEffort("remove child from clubs", func(ctx context.Context) error {
				_, err := s.clubService.RemoveUserEverywhere(ctx, childID, child.ClubIDs)
				return err
			}),
			critical("delete child user", func(ctx context.Context) error {
				return s.userService.DeleteUser(ctx, childID)
			}),
			bestEffort("delete relationships", func(ctx context.Context) error {
				return s.deleteRelationships(ctx, parentID, childID)
			}),
		})
		result.Warnings = warnings
		if err != nil {
			return result, err
		}
		result.Deleted = true
		return result, nil
	}

	parentIDs := removeStr(child.ParentIDs, parentID)
	fields := map[string]any{"parentIds": parentIDs}
	if len(parentIDs) == 0 {
		fields["accountType"] = user.AccountIndependent
	}
	warnings, err := runSteps(ctx, []step{
		critical("unlink parent from child", func(ctx context.Context) error {
			return s.userService.UpdateUser(ctx, childID, fields)
		}),
		bestEffort("mark relationships removed", func(ctx context.Context) error {
			return s.markRelationshipsRemoved(ctx, parentID, childID)
		}),
	})
	result.Warnings = warnings
	if err != nil {
		return result, err
	}
	result.Unlinked = true
	return result, nil
}

func (s *service) relationshipsBetween(ctx context.Context, parentID, childID string) ([]Relationship, error) {
	docs, err := s.db.Query(ctx, storeQuery(parentID, childID))
	if err != nil {
		return nil, err
	}
	rels := make([]Relationship, 0, len(docs))
	for _, doc := range docs {
		rel := Relationship{}
		if err := doc.DataTo(&rel); err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

func (s *service) deleteRelationships(ctx context.Context, parentID, childID string) error {
	rels, err := s.relationshipsBetween(ctx, parentID, childID)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if err := s.db.Delete(ctx, Collection, rel.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) markRelationshipsRemoved(ctx context.Context, parentID, childID string) error {
	rels, err := s.relationshipsBetween(ctx, parentID, childID)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		err := s.db.Merge(ctx, Collection, rel.ID, map[string]any{
			"status":    StatusRemoved,
			"updatedAt": time.Now(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) UpdateChildProfile(ctx context.Context, parentID, childID string, update ProfileUpdate) error {
	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return apperr.ErrChildNotFound
	}
	if !containsStr(child.ParentIDs, parentID) {
		return apperr.ErrNotAuthorized
	}
	fields := map[string]any{}
	if update.FirstName != nil {
		fields["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["lastName"] = *update.LastName
	}
	if len(fields) == 0 {
		return nil
	}
	return s.userService.UpdateUser(ctx, childID, fields)
}

func (s *service) AssignChildToTeam(ctx context.Context, childID, clubID, teamID, parentID string) (*AssignResult, error) {
	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return nil, apperr.ErrChildNotFound
	}
	if !child.IsSubAccount || child.ManagedByParentID != parentID {
		return nil, apperr.ErrNotAuthorized
	}

	c, err := s.clubService.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	team, err := s.clubService.FindTeam(c, teamID)
	if err != nil {
		return nil, err
	}

	if s.clubService.IsTeamParticipant(team, childID) {
		return &AssignResult{AlreadyMember: true}, nil
	}

	// Auto-approve by co-membership: a parent already on the team vouches
	// for the child, same rule as subaccount creation.
	if s.clubService.IsTeamParticipant(team, parentID) {
		if err := s.clubService.AddTeamMember(ctx, clubID, teamID, childID); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if !containsStr(child.TeamIDs, teamID) {
			fields["teamIds"] = append(child.TeamIDs, teamID)
		}
		if !containsStr(child.ClubIDs, clubID) {
			fields["clubIds"] = append(child.ClubIDs, clubID)
		}
		if len(fields) > 0 {
			if err := s.userService.UpdateUser(ctx, childID, fields); err != nil {
				return nil, err
			}
		}
		return &AssignResult{AutoApproved: true}, nil
	}

	req, err := s.requestService.CreateJoinRequest(ctx, childID, clubID, teamID, parentID)
	if err != nil {
		return nil, err
	}
	return &AssignResult{NeedsApproval: true, RequestID: req.ID}, nil
}
