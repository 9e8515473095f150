// Package apperr defines the coded errors shared by the workflow services.
// Callers match on the code (errors.Is or CodeOf) to pick the message shown
// to the user; unknown codes map to a generic failure.
package apperr

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches two coded errors by code only, so a wrapped sentinel still
// compares equal under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf returns the code carried by err, or "" when err has none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var (
	ErrUserNotParent        = New("USER_NOT_PARENT", "target user does not have the parent role")
	ErrAccountNotFound      = New("ACCOUNT_NOT_FOUND", "no account matches the given email")
	ErrChildNotFound        = New("CHILD_NOT_FOUND", "child account does not exist")
	ErrRelationshipNotFound = New("RELATIONSHIP_NOT_FOUND", "relationship does not exist")
	ErrAlreadyLinked        = New("ALREADY_LINKED", "parent is already linked to this child")
	ErrMaxParentsReached    = New("MAX_PARENTS_REACHED", "child already has the maximum number of parents")
	ErrNoSharedTeams        = New("NO_SHARED_TEAMS", "candidate parent shares no team with the child")
	ErrNotAuthorized        = New("NOT_AUTHORIZED", "caller is not authorized for this operation")
	ErrInvalidUser          = New("INVALID_USER", "user may not approve this relationship")
	ErrClubNotFound         = New("CLUB_NOT_FOUND", "club does not exist")
	ErrTeamNotFound         = New("TEAM_NOT_FOUND", "team does not exist in this club")
	ErrEventNotFound        = New("EVENT_NOT_FOUND", "event does not exist")
	ErrSessionNotFound      = New("SESSION_NOT_FOUND", "attendance session does not exist")
	ErrSessionNameRequired  = New("SESSION_NAME_REQUIRED", "a session name is required when the day already has a session")
	ErrRequestExists        = New("REQUEST_ALREADY_EXISTS", "a pending request already exists")
	ErrAlreadyProcessed     = New("APPROVAL_ALREADY_PROCESSED", "approval has already been processed")
	ErrInvalidResponse      = New("INVALID_RESPONSE", "unknown RSVP response")
)
