// Package parentchild implements the parent-child account relationship
// workflows: subaccount creation, mutual-approval linking, additional-parent
// invitations, team assignment, subscription approvals and the permission
// gate applied to parent-controlled accounts.
package parentchild

import (
	"context"
	"errors"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/services/club"
	"clubhub/services/request"
	"clubhub/services/user"
)

type Service interface {
	// CreateChildAccount creates a parent-managed subaccount, immediately
	// active, and applies the requested team assignments.
	CreateChildAccount(ctx context.Context, parentID string, child NewChild) (*CreateChildResult, error)
	// RequestParentChildLink files a pending linked relationship to the
	// account registered under childEmail. The requester's side is approved
	// implicitly.
	RequestParentChildLink(ctx context.Context, parentID, childEmail string) (*Relationship, error)
	// ApproveParentChildLink records the calling side's approval and
	// activates the relationship once its gate is satisfied.
	ApproveParentChildLink(ctx context.Context, relationshipID, approvingUserID string) (*Relationship, error)
	// DeclineParentChildLink marks the relationship declined. Terminal.
	DeclineParentChildLink(ctx context.Context, relationshipID string) error
	// RequestAdditionalParentLink invites another parent onto an existing
	// child, subject to the parent cap and shared-team eligibility.
	RequestAdditionalParentLink(ctx context.Context, requestingParentID, childID, newParentID string) (*Relationship, error)
	// GetParentChildren lists the children of the parent's active
	// relationships.
	GetParentChildren(ctx context.Context, parentID string) ([]user.User, error)
	// DeleteChildAccount hard-deletes a subaccount owned by the caller, or
	// unlinks the caller from any other child.
	DeleteChildAccount(ctx context.Context, parentID, childID string) (*DeleteChildResult, error)
	UpdateChildProfile(ctx context.Context, parentID, childID string, update ProfileUpdate) error
	AssignChildToTeam(ctx context.Context, childID, clubID, teamID, parentID string) (*AssignResult, error)

	RequestChildSubscription(ctx context.Context, childID, clubID, planID string) (*SubscriptionApproval, error)
	ProcessSubscriptionApproval(ctx context.Context, approvalID, parentID string, approve bool, note string) (*SubscriptionApproval, error)
	GetParentPendingApprovals(ctx context.Context, parentID string) ([]SubscriptionApproval, error)

	// CheckChildPermissions gates an action for a parent-controlled account.
	CheckChildPermissions(u *user.User, action string) bool
	// CheckParentPermission reports whether parentID is one of the child's
	// linked parents.
	CheckParentPermission(ctx context.Context, parentID, childID string) (bool, error)

	// Reconcile repairs orphaned relationship rows and stale references
	// left behind by partially failed multi-step mutations.
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

const (
	Collection          = "parentChildRelationships"
	ApprovalsCollection = "subscriptionApprovals"
)

type service struct {
	db             store.Store
	userService    user.Service
	clubService    club.Service
	requestService request.Service
}

var _ Service = (*service)(nil)

func NewService(db store.Store, userService user.Service, clubService club.Service, requestService request.Service) Service {
	return &service{
		db:             db,
		userService:    userService,
		clubService:    clubService,
		requestService: requestService,
	}
}

func (s *service) getRelationship(ctx context.Context, relationshipID string) (*Relationship, error) {
	doc, err := s.db.Get(ctx, Collection, relationshipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.ErrRelationshipNotFound
		}
		return nil, err
	}
	rel := Relationship{}
	if err := doc.DataTo(&rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

func containsStr(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func removeStr(items []string, target string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			result = append(result, item)
		}
	}
	return result
}
