package parentchild

import "time"

const (
	TypeSubaccount       = "subaccount"
	TypeLinked           = "linked"
	TypeAdditionalParent = "additional_parent"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusDeclined = "declined"
	StatusRemoved  = "removed"
)

// Relationship records the association between one parent and one child
// account and its approval state. Declined and removed are terminal.
type Relationship struct {
	ID               string `json:"id" firestore:"id"`
	ParentID         string `json:"parentId" firestore:"parentId"`
	ChildID          string `json:"childId" firestore:"childId"`
	RelationshipType string `json:"relationshipType" firestore:"relationshipType"`
	Status           string `json:"status" firestore:"status"`
	// ParentApproved/ChildApproved gate the linked type; both must be true
	// before the relationship activates.
	ParentApproved bool `json:"parentApproved" firestore:"parentApproved"`
	ChildApproved  bool `json:"childApproved" firestore:"childApproved"`
	// The additional_parent type is requested by an existing parent on
	// behalf of the invited one; only the invited parent's approval gates it.
	RequestingParentID       string `json:"requestingParentId,omitempty" firestore:"requestingParentId,omitempty"`
	RequestingParentApproved bool   `json:"requestingParentApproved" firestore:"requestingParentApproved"`
	NewParentApproved        bool   `json:"newParentApproved" firestore:"newParentApproved"`
	// AllParentIDs is a snapshot of the child's parents at request time.
	AllParentIDs []string  `json:"allParentIds" firestore:"allParentIds"`
	SharedTeams  []string  `json:"sharedTeams" firestore:"sharedTeams"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ClubSelection names the teams a child should join within one club.
type ClubSelection struct {
	ClubID  string   `json:"clubId"`
	TeamIDs []string `json:"teamIds"`
}

type NewChild struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// BirthDate is the calendar day in YYYY-MM-DD form, optional.
	BirthDate      string          `json:"birthDate,omitempty"`
	ClubSelections []ClubSelection `json:"clubSelections"`
}

// TeamAssignment identifies one club/team pair a child was added to.
type TeamAssignment struct {
	ClubID string `json:"clubId"`
	TeamID string `json:"teamId"`
}

type CreateChildResult struct {
	ChildID      string           `json:"childId"`
	AutoApproved []TeamAssignment `json:"autoApproved"`
	JoinRequests []string         `json:"joinRequests"`
	Warnings     []string         `json:"warnings,omitempty"`
}

type DeleteChildResult struct {
	Deleted  bool     `json:"deleted"`
	Unlinked bool     `json:"unlinked"`
	Warnings []string `json:"warnings,omitempty"`
}

type AssignResult struct {
	AutoApproved  bool   `json:"autoApproved"`
	NeedsApproval bool   `json:"needsApproval"`
	AlreadyMember bool   `json:"alreadyMember"`
	RequestID     string `json:"requestId,omitempty"`
}

type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// SubscriptionApproval tracks a child's request to purchase a club
// subscription, pending sign-off by one of the child's parents.
type SubscriptionApproval struct {
	ID          string     `json:"id" firestore:"id"`
	ChildID     string     `json:"childId" firestore:"childId"`
	ClubID      string     `json:"clubId" firestore:"clubId"`
	PlanID      string     `json:"planId" firestore:"planId"`
	ParentIDs   []string   `json:"parentIds" firestore:"parentIds"`
	Status      string     `json:"status" firestore:"status"`
	Note        string     `json:"note,omitempty" firestore:"note,omitempty"`
	ProcessedBy string     `json:"processedBy,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty" firestore:"processedAt,omitempty"`
	RequestedAt time.Time  `json:"requestedAt" firestore:"requestedAt"`
}

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalDeclined = "declined"
)

// ReconcileReport summarizes what the reconciliation sweep repaired.
type ReconcileReport struct {
	OrphanedRelationships int `json:"orphanedRelationships"`
	StaleParentRefs       int `json:"staleParentRefs"`
	StaleChildRefs        int `json:"staleChildRefs"`
	RosterRemovals        int `json:"rosterRemovals"`
}
