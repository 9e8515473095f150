package club

import (
	"time"

	"clubhub/set"
)

type Team struct {
	ID         string   `json:"id" firestore:"id"`
	Name       string   `json:"name" firestore:"name"`
	Members    []string `json:"members" firestore:"members"`
	Trainers   []string `json:"trainers" firestore:"trainers"`
	Assistants []string `json:"assistants" firestore:"assistants"`
}

// Roster returns the union of members, trainers and assistants.
func (t Team) Roster() *set.Set[string] {
	return set.FromSlices(t.Members, t.Trainers, t.Assistants)
}

type Club struct {
	ID         string    `json:"id" firestore:"id"`
	Name       string    `json:"name" firestore:"name"`
	Members    []string  `json:"members" firestore:"members"`
	Trainers   []string  `json:"trainers" firestore:"trainers"`
	Assistants []string  `json:"assistants" firestore:"assistants"`
	Teams      []Team    `json:"teams" firestore:"teams"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt"`
}
