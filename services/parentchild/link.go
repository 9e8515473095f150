package parentchild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/services/user"

	"github.com/rs/zerolog/log"
)

func storeQuery(parentID, childID string) store.Query {
	return store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "parentId", Op: "==", Value: parentID},
			{Path: "childId", Op: "==", Value: childID},
		},
	}
}

func (s *service) RequestParentChildLink(ctx context.Context, parentID, childEmail string) (*Relationship, error) {
	child, err := s.userService.GetByEmail(ctx, childEmail)
	if err != nil {
		if errors.Is(err, user.NotFound) {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, err
	}
	if containsStr(child.ParentIDs, parentID) {
		return nil, apperr.ErrAlreadyLinked
	}
	if len(child.ParentIDs) >= user.MaxParents {
		return nil, apperr.ErrMaxParentsReached
	}

	now := time.Now()
	rel := Relationship{
		ID:               s.db.NewID(Collection),
		ParentID:         parentID,
		ChildID:          child.ID,
		RelationshipType: TypeLinked,
		Status:           StatusPending,
		// The requester approves their own side implicitly.
		ParentApproved: true,
		ChildApproved:  false,
		AllParentIDs:   child.ParentIDs,
		SharedTeams:    []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.Set(ctx, Collection, rel.ID, rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

func (s *service) ApproveParentChildLink(ctx context.Context, relationshipID, approvingUserID string) (*Relationship, error) {
	rel, err := s.getRelationship(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	if rel.Status == StatusDeclined || rel.Status == StatusRemoved {
		return nil, apperr.ErrRelationshipNotFound
	}

	if rel.RelationshipType == TypeAdditionalParent {
		return s.approveAdditionalParent(ctx, rel, approvingUserID)
	}
	return s.approveLinked(ctx, rel, approvingUserID)
}

func (s *service) approveLinked(ctx context.Context, rel *Relationship, approvingUserID string) (*Relationship, error) {
	switch approvingUserID {
	case rel.ParentID:
		rel.ParentApproved = true
	case rel.ChildID:
		rel.ChildApproved = true
	default:
		return nil, apperr.ErrInvalidUser
	}

	// Active only once both sides approved.
	if rel.ParentApproved && rel.ChildApproved {
		rel.Status = StatusActive
	}
	rel.UpdatedAt = time.Now()
	if err := s.db.Set(ctx, Collection, rel.ID, rel); err != nil {
		return nil, err
	}

	if rel.Status == StatusActive {
		if err := s.writeCrossReferences(ctx, rel, user.AccountLinked); err != nil {
			return nil, err
		}
	}
	return rel, nil
}

func (s *service) approveAdditionalParent(ctx context.Context, rel *Relationship, approvingUserID string) (*Relationship, error) {
	// Only the invited parent may approve.
	if approvingUserID != rel.ParentID {
		return nil, apperr.ErrInvalidUser
	}
	rel.NewParentApproved = true
	rel.Status = StatusActive
	rel.UpdatedAt = time.Now()
	if err := s.db.Set(ctx, Collection, rel.ID, rel); err != nil {
		return nil, err
	}
	if err := s.writeCrossReferences(ctx, rel, ""); err != nil {
		return nil, err
	}
	return rel, nil
}

// writeCrossReferences records the activated relationship on both user
// documents. A non-empty accountType also flips the child's account type.
func (s *service) writeCrossReferences(ctx context.Context, rel *Relationship, accountType string) error {
	child, err := s.userService.GetUser(ctx, rel.ChildID)
	if err != nil {
		return fmt.Errorf("failed to fetch child: %w", err)
	}
	parent, err := s.userService.GetUser(ctx, rel.ParentID)
	if err != nil {
		return fmt.Errorf("failed to fetch parent: %w", err)
	}

	if !containsStr(child.ParentIDs, rel.ParentID) {
		fields := map[string]any{"parentIds": append(child.ParentIDs, rel.ParentID)}
		if accountType != "" {
			fields["accountType"] = accountType
		}
		if err := s.userService.UpdateUser(ctx, child.ID, fields); err != nil {
			return err
		}
	} else if accountType != "" && child.AccountType != accountType {
		if err := s.userService.UpdateUser(ctx, child.ID, map[string]any{"accountType": accountType}); err != nil {
			return err
		}
	}

	if !containsStr(parent.ChildIDs, rel.ChildID) {
		return s.userService.UpdateUser(ctx, parent.ID, map[string]any{
			"childIds": append(parent.ChildIDs, rel.ChildID),
		})
	}
	return nil
}

func (s *service) DeclineParentChildLink(ctx context.Context, relationshipID string) error {
	rel, err := s.getRelationship(ctx, relationshipID)
	if err != nil {
		return err
	}
	return s.db.Merge(ctx, Collection, rel.ID, map[string]any{
		"status":    StatusDeclined,
		"updatedAt": time.Now(),
	})
}

func (s *service) RequestAdditionalParentLink(ctx context.Context, requestingParentID, childID, newParentID string) (*Relationship, error) {
	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return nil, apperr.ErrChildNotFound
	}
	if !containsStr(child.ParentIDs, requestingParentID) {
		return nil, apperr.ErrNotAuthorized
	}
	if len(child.ParentIDs) >= user.MaxParents {
		return nil, apperr.ErrMaxParentsReached
	}
	if containsStr(child.ParentIDs, newParentID) {
		return nil, apperr.ErrAlreadyLinked
	}

	newParent, err := s.userService.GetUser(ctx, newParentID)
	if err != nil {
		return nil, apperr.ErrAccountNotFound
	}
	if newParent.Role != user.RoleParent {
		return nil, apperr.ErrUserNotParent
	}

	shared, err := s.clubService.SharedTeams(ctx, childID, newParentID, child.ClubIDs)
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 {
		return nil, apperr.ErrNoSharedTeams
	}

	// Best-effort duplicate check: restrictive security rules can deny this
	// query for a requesting parent; in that case proceed as if no duplicate
	// exists. Any other failure aborts.
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "parentId", Op: "==", Value: newParentID},
			{Path: "childId", Op: "==", Value: childID},
			{Path: "status", Op: "==", Value: StatusPending},
		},
		Limit: 1,
	})
	if err != nil {
		if !errors.Is(err, store.ErrPermissionDenied) {
			return nil, err
		}
		log.Warn().Str("childId", childID).Msg("duplicate-request check denied; proceeding")
	} else if len(docs) > 0 {
		return nil, apperr.ErrRequestExists
	}

	now := time.Now()
	rel := Relationship{
		ID:                       s.db.NewID(Collection),
		ParentID:                 newParentID,
		ChildID:                  childID,
		RelationshipType:         TypeAdditionalParent,
		Status:                   StatusPending,
		RequestingParentID:       requestingParentID,
		RequestingParentApproved: true,
		NewParentApproved:        false,
		AllParentIDs:             child.ParentIDs,
		SharedTeams:              shared,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := s.db.Set(ctx, Collection, rel.ID, rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

func (s *service) GetParentChildren(ctx context.Context, parentID string) ([]user.User, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "parentId", Op: "==", Value: parentID},
			{Path: "status", Op: "==", Value: StatusActive},
		},
	})
	if err != nil {
		return nil, err
	}
	childIDs := make([]string, 0, len(docs))
	seen := map[string]struct{}{}
	for _, doc := range docs {
		rel := Relationship{}
		if err := doc.DataTo(&rel); err != nil {
			return nil, err
		}
		if _, ok := seen[rel.ChildID]; ok {
			continue
		}
		seen[rel.ChildID] = struct{}{}
		childIDs = append(childIDs, rel.ChildID)
	}
	return s.userService.GetByIDs(ctx, childIDs)
}
