// Package request handles team join requests awaiting trainer approval.
package request

import (
	"context"
	"errors"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/services/club"
	"clubhub/services/user"
	"clubhub/utils"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

type JoinRequest struct {
	ID          string     `json:"id" firestore:"id"`
	ChildID     string     `json:"childId" firestore:"childId"`
	ClubID      string     `json:"clubId" firestore:"clubId"`
	TeamID      string     `json:"teamId" firestore:"teamId"`
	RequestedBy string     `json:"requestedBy" firestore:"requestedBy"`
	Status      string     `json:"status" firestore:"status"`
	ReviewedBy  string     `json:"reviewedBy,omitempty" firestore:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty" firestore:"reviewedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"createdAt"`
}

type Service interface {
	// CreateJoinRequest files a pending request for the child to join the
	// team. Idempotent: an existing pending request for the same child and
	// team is returned instead of creating a duplicate.
	CreateJoinRequest(ctx context.Context, childID, clubID, teamID, requestedBy string) (*JoinRequest, error)
	ListTeamRequests(ctx context.Context, teamID string) ([]JoinRequest, error)
	Approve(ctx context.Context, requestID, reviewerID string) error
	Decline(ctx context.Context, requestID, reviewerID string) error
}

const Collection = "requests"

type service struct {
	db          store.Store
	clubService club.Service
	userService user.Service
}

var _ Service = (*service)(nil)

func NewService(db store.Store, clubService club.Service, userService user.Service) Service {
	return &service{
		db:          db,
		clubService: clubService,
		userService: userService,
	}
}

func (s *service) CreateJoinRequest(ctx context.Context, childID, clubID, teamID, requestedBy string) (*JoinRequest, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "childId", Op: "==", Value: childID},
			{Path: "teamId", Op: "==", Value: teamID},
			{Path: "status", Op: "==", Value: StatusPending},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		existing := JoinRequest{}
		if err := docs[0].DataTo(&existing); err != nil {
			return nil, err
		}
		return &existing, nil
	}

	req := JoinRequest{
		ID:          s.db.NewID(Collection),
		ChildID:     childID,
		ClubID:      clubID,
		TeamID:      teamID,
		RequestedBy: requestedBy,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Set(ctx, Collection, req.ID, req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *service) ListTeamRequests(ctx context.Context, teamID string) ([]JoinRequest, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "teamId", Op: "==", Value: teamID},
			{Path: "status", Op: "==", Value: StatusPending},
		},
		OrderBy: "createdAt",
	})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[JoinRequest](docs)
}

func (s *service) get(ctx context.Context, requestID string) (*JoinRequest, error) {
	doc, err := s.db.Get(ctx, Collection, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New("REQUEST_NOT_FOUND", "join request does not exist")
		}
		return nil, err
	}
	req := JoinRequest{}
	if err := doc.DataTo(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *service) Approve(ctx context.Context, requestID, reviewerID string) error {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return apperr.ErrAlreadyProcessed
	}
	if err := s.clubService.AddTeamMember(ctx, req.ClubID, req.TeamID, req.ChildID); err != nil {
		return err
	}
	child, err := s.userService.GetUser(ctx, req.ChildID)
	if err == nil {
		fields := map[string]any{}
		if !containsStr(child.TeamIDs, req.TeamID) {
			fields["teamIds"] = append(child.TeamIDs, req.TeamID)
		}
		if !containsStr(child.ClubIDs, req.ClubID) {
			fields["clubIds"] = append(child.ClubIDs, req.ClubID)
		}
		if len(fields) > 0 {
			if err := s.userService.UpdateUser(ctx, child.ID, fields); err != nil {
				return err
			}
		}
	}
	now := time.Now()
	return s.db.Merge(ctx, Collection, req.ID, map[string]any{
		"status":     StatusApproved,
		"reviewedBy": reviewerID,
		"reviewedAt": now,
	})
}

func (s *service) Decline(ctx context.Context, requestID, reviewerID string) error {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return apperr.ErrAlreadyProcessed
	}
	now := time.Now()
	return s.db.Merge(ctx, Collection, req.ID, map[string]any{
		"status":     StatusDeclined,
		"reviewedBy": reviewerID,
		"reviewedAt": now,
	})
}

func containsStr(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
