package generator

import (
	"fmt"
	"math/rand"
	"time"
)

// SessionName generates a suggested attendance-session name, used to
// disambiguate when a team already has a session recorded for the day.
func SessionName(sessionType string) string {
	descriptors := []string{
		"Morning", "Midday", "Afternoon", "Evening", "Late",
		"Early", "Extra", "Second", "Makeup", "Indoor",
		"Outdoor", "Weekend", "Holiday", "Friendly", "Open",
	}

	nouns := map[string][]string{
		"training": {
			"Drills", "Practice", "Conditioning", "Scrimmage", "Warmup",
			"Technique", "Sprints", "Circuit", "Fundamentals", "Session",
		},
		"game": {
			"Match", "Fixture", "Derby", "Cup Tie", "Friendly",
		},
		"tournament": {
			"Round", "Group Stage", "Qualifier", "Bracket", "Final",
		},
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	pool, ok := nouns[sessionType]
	if !ok {
		pool = nouns["training"]
	}
	descriptor := descriptors[r.Intn(len(descriptors))]
	noun := pool[r.Intn(len(pool))]
	return fmt.Sprintf("%s %s", descriptor, noun)
}
