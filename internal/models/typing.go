package models

import "time"

// TypingAttempt is one typed response to one target word, as submitted by
// the client. Word and Input are stored verbatim; scoring normalizes them.
type TypingAttempt struct {
	Word    string `json:"word"`
	Input   string `json:"input"`
	Correct bool   `json:"correct"`
}

// TypingResult is a TypingAttempt as persisted in a session's log.
type TypingResult struct {
	Word        string    `json:"word"`
	Input       string    `json:"input"`
	Correct     bool      `json:"correct"`
	CompletedAt time.Time `json:"completedAt"`
}

// Attempt converts a stored result back to the value form the scoring
// functions operate on.
func (r TypingResult) Attempt() TypingAttempt {
	return TypingAttempt{Word: r.Word, Input: r.Input, Correct: r.Correct}
}

// ConfusionPair records one observed letter substitution: the child typed
// Confuses where With was expected.
type ConfusionPair struct {
	Confuses string `json:"confuses"`
	With     string `json:"with"`
}

// Report is the diagnostic output of analyzing a batch of typing attempts.
type Report struct {
	ProblematicLetters []string        `json:"problematicLetters"`
	ConfusionPatterns  []ConfusionPair `json:"confusionPatterns"`
	Strengths          []string        `json:"strengths"`
	OverallAccuracy    int             `json:"overallAccuracy"`
	Recommendations    []string        `json:"recommendations"`
	Severity           string          `json:"severity"`
}

// TypingAnalysis is a Report cached on a session, with the bookkeeping
// captured at analysis time.
type TypingAnalysis struct {
	Report
	AnalyzedAt   time.Time `json:"analyzedAt"`
	TotalWords   int       `json:"totalWords"`
	CorrectWords int       `json:"correctWords"`
}

// ChildTypingStats aggregates attempts across all of a child's sessions.
type ChildTypingStats struct {
	TotalWords      int     `json:"totalWords"`
	CorrectWords    int     `json:"correctWords"`
	OverallAccuracy float64 `json:"overallAccuracy"`
}

// SessionAnalysis pairs a session with its (cached or freshly computed)
// analysis for the child-level aggregate view.
type SessionAnalysis struct {
	SessionID string         `json:"sessionId"`
	Analysis  TypingAnalysis `json:"analysis"`
	Date      time.Time      `json:"date"`
}
