package parentchild

import (
	"context"
	"errors"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/utils"
)

func (s *service) RequestChildSubscription(ctx context.Context, childID, clubID, planID string) (*SubscriptionApproval, error) {
	child, err := s.userService.GetUser(ctx, childID)
	if err != nil {
		return nil, apperr.ErrChildNotFound
	}
	// Purchasing is a denied action for controlled accounts, so the request
	// only makes sense for a child with at least one parent to sign off.
	if len(child.ParentIDs) == 0 {
		return nil, apperr.ErrNotAuthorized
	}

	approval := SubscriptionApproval{
		ID:          s.db.NewID(ApprovalsCollection),
		ChildID:     childID,
		ClubID:      clubID,
		PlanID:      planID,
		ParentIDs:   child.ParentIDs,
		Status:      ApprovalPending,
		RequestedAt: time.Now(),
	}
	if err := s.db.Set(ctx, ApprovalsCollection, approval.ID, approval); err != nil {
		return nil, err
	}
	return &approval, nil
}

func (s *service) ProcessSubscriptionApproval(ctx context.Context, approvalID, parentID string, approve bool, note string) (*SubscriptionApproval, error) {
	doc, err := s.db.Get(ctx, ApprovalsCollection, approvalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.ErrRelationshipNotFound
		}
		return nil, err
	}
	approval := SubscriptionApproval{}
	if err := doc.DataTo(&approval); err != nil {
		return nil, err
	}
	if !containsStr(approval.ParentIDs, parentID) {
		return nil, apperr.ErrNotAuthorized
	}
	if approval.Status != ApprovalPending {
		return nil, apperr.ErrAlreadyProcessed
	}

	now := time.Now()
	approval.Status = ApprovalDeclined
	if approve {
		approval.Status = ApprovalApproved
	}
	approval.Note = note
	approval.ProcessedBy = parentID
	approval.ProcessedAt = &now
	if err := s.db.Set(ctx, ApprovalsCollection, approval.ID, approval); err != nil {
		return nil, err
	}
	return &approval, nil
}

func (s *service) GetParentPendingApprovals(ctx context.Context, parentID string) ([]SubscriptionApproval, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: ApprovalsCollection,
		Filters: []store.Filter{
			{Path: "parentIds", Op: "array-contains", Value: parentID},
			{Path: "status", Op: "==", Value: ApprovalPending},
		},
		OrderBy: "requestedAt",
	})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[SubscriptionApproval](docs)
}
