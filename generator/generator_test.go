package generator

import "testing"

func TestSessionName(t *testing.T) {
	for _, sessionType := range []string{"training", "game", "tournament", "custom"} {
		name := SessionName(sessionType)
		if name == "" {
			t.Errorf("SessionName(%q) returned empty string", sessionType)
		}
	}
}
