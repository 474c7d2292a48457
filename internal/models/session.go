package models

import "time"

// Session is one practice engagement by a child, created at login and
// implicitly closed by the next login. All activity logs inside it are
// append-only; only the analysis cache is ever rewritten, and then only
// through the explicit re-analysis path.
type Session struct {
	SessionID string    `json:"sessionId"`
	ChildID   int64     `json:"-"`
	Date      time.Time `json:"date"`

	// AssignedThemes is a copy of the child's themes at session start;
	// later reassignment must not rewrite history.
	AssignedThemes []string `json:"assignedThemes"`

	// ThemesChanged records every theme transition observed during the
	// session, including transitions to the same theme.
	ThemesChanged []string `json:"themesChanged"`

	EmotionsOfChild []string       `json:"emotionsOfChild"`
	PlayedPuzzles   []PuzzleRecord `json:"playedPuzzles"`

	TypingResults []TypingResult `json:"typingResults"`

	// TypingResultsMap maps target word to the most recent typed input.
	// Auxiliary only; TypingResults is authoritative.
	TypingResultsMap map[string]string `json:"typingResultsMap"`

	TypingAnalysis *TypingAnalysis `json:"typingAnalysis,omitempty"`

	PreferredGame  string `json:"preferredGame,omitempty"`
	PreferredStory string `json:"preferredStory,omitempty"`

	ReadingRecordings []ReadingRecording `json:"readingRecordings"`
}

// PuzzleRecord is one completed picture puzzle within a session.
type PuzzleRecord struct {
	Theme          string    `json:"theme"`
	Level          int       `json:"level"`
	PuzzleID       string    `json:"puzzleId"`
	CompletedAt    time.Time `json:"completedAt"`
	EmotionsDuring []string  `json:"emotionsDuring"`
}

// ReadingRecording is the stored metadata for one recorded read-aloud.
type ReadingRecording struct {
	StoryID    string    `json:"storyId"`
	StoryTitle string    `json:"storyTitle"`
	AudioData  string    `json:"audioData"`
	RecordedAt time.Time `json:"recordedAt"`
}

// SessionRecordings groups one session's read-aloud recordings for the
// therapist's review page.
type SessionRecordings struct {
	SessionID  string             `json:"sessionId"`
	Date       time.Time          `json:"date"`
	Recordings []ReadingRecording `json:"recordings"`
}

// SessionSummary is the therapist-facing listing row for a session.
type SessionSummary struct {
	SessionID   string    `json:"sessionId"`
	Date        time.Time `json:"date"`
	TypingWords int       `json:"typingWords"`
	PuzzlesDone int       `json:"puzzlesDone"`
	HasAnalysis bool      `json:"hasAnalysis"`
}
