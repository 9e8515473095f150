package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Pong is the liveness check payload.
type Pong struct {
	Ping string `json:"ping"`
}

// ErrorResponse carries a stable machine-readable error code.
type ErrorResponse struct {
	Error string `json:"error"`
}

type RsvpRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Response string `json:"response" binding:"required"`
}

type CreateChildRequest struct {
	ParentID string   `json:"parentId" binding:"required"`
	Child    NewChild `json:"child" binding:"required"`
}

type NewChild struct {
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	BirthDate *openapi_types.Date `json:"birthDate,omitempty"`
	Clubs     []ClubSelection     `json:"clubs,omitempty"`
}

type ClubSelection struct {
	ClubID  string   `json:"clubId"`
	TeamIDs []string `json:"teamIds"`
}

type UpdateChildProfileRequest struct {
	ParentID  string  `json:"parentId" binding:"required"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

type AssignChildRequest struct {
	ParentID string `json:"parentId" binding:"required"`
	ClubID   string `json:"clubId" binding:"required"`
	TeamID   string `json:"teamId" binding:"required"`
}

type AdditionalParentRequest struct {
	RequestingParentID string `json:"requestingParentId" binding:"required"`
	NewParentID        string `json:"newParentId" binding:"required"`
}

type PermissionResponse struct {
	Allowed bool `json:"allowed"`
}

type LinkRequest struct {
	ParentID   string              `json:"parentId" binding:"required"`
	ChildEmail openapi_types.Email `json:"childEmail" binding:"required"`
}

type LinkDecisionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type SubscriptionRequest struct {
	ChildID string `json:"childId" binding:"required"`
	ClubID  string `json:"clubId" binding:"required"`
	PlanID  string `json:"planId" binding:"required"`
}

type ProcessApprovalRequest struct {
	ParentID string `json:"parentId" binding:"required"`
	Approve  *bool  `json:"approve" binding:"required"`
	Note     string `json:"note,omitempty"`
}

type UpdateAttendanceRequest struct {
	Records     []AttendanceRecord `json:"records" binding:"required"`
	EditorID    string             `json:"editorId" binding:"required"`
	EditorName  string             `json:"editorName"`
	Description string             `json:"description,omitempty"`
}

type AttendanceRecord struct {
	UserID         string            `json:"userId"`
	Name           string            `json:"name"`
	Present        bool              `json:"present"`
	Comment        string            `json:"comment,omitempty"`
	CustomStatuses map[string]string `json:"customStatuses,omitempty"`
}

type ExportResponse struct {
	Object string `json:"object"`
}
