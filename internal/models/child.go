package models

import "time"

// Game mode values a child can be assigned. An empty PreferredGame means
// the child may play anything.
const (
	GameTyping  = "typing"
	GamePuzzles = "puzzles"
	GameReading = "reading"
)

// Child represents a child profile owned by exactly one therapist.
// Usernames are unique within a therapist's children, not globally.
type Child struct {
	ID             int64     `json:"-"`
	TherapistID    int64     `json:"-"`
	Username       string    `json:"username"`
	JoinedAt       time.Time `json:"joinedAt"`
	CurrentThemes  []string  `json:"currentAssignedThemes"`
	PlayedPuzzles  []string  `json:"playedPuzzles"`
	PreferredGame  string    `json:"preferredGame,omitempty"`
	PreferredStory string    `json:"preferredStory,omitempty"`
}
