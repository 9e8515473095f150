package user

import "time"

const (
	RoleAdmin     = "admin"
	RoleTrainer   = "trainer"
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleParent    = "parent"
)

const (
	AccountNormal      = "normal"
	AccountSubaccount  = "subaccount"
	AccountLinked      = "linked"
	AccountIndependent = "independent"
)

// MaxParents caps how many parent accounts a child may be linked to.
const MaxParents = 3

type User struct {
	ID        string `json:"id" firestore:"id"`
	Email     string `json:"email" firestore:"email"`
	// EmailLower is the lookup key for case-insensitive email matching.
	EmailLower        string    `json:"emailLower" firestore:"emailLower"`
	FirstName         string    `json:"firstName" firestore:"firstName"`
	LastName          string    `json:"lastName" firestore:"lastName"`
	BirthDate         string    `json:"birthDate,omitempty" firestore:"birthDate,omitempty"`
	Role              string    `json:"role" firestore:"role"`
	AccountType       string    `json:"accountType" firestore:"accountType"`
	IsSubAccount      bool      `json:"isSubAccount" firestore:"isSubAccount"`
	ManagedByParentID string    `json:"managedByParentId,omitempty" firestore:"managedByParentId,omitempty"`
	ParentIDs         []string  `json:"parentIds" firestore:"parentIds"`
	ChildIDs          []string  `json:"childIds" firestore:"childIds"`
	ClubIDs           []string  `json:"clubIds" firestore:"clubIds"`
	TeamIDs           []string  `json:"teamIds" firestore:"teamIds"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UnderParentalControl reports whether the child-permission gate applies.
// Subaccounts are parent-controlled; linked accounts authenticate on their own.
func (u User) UnderParentalControl() bool {
	return u.IsSubAccount
}

type SearchResult struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}
