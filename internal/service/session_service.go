package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"joyverse/internal/models"
	"joyverse/internal/sessionid"
	"joyverse/internal/typing"
)

// autoAnalyzeThreshold is the typing-result count at which a session is
// analyzed automatically on save.
const autoAnalyzeThreshold = 10

// SessionStore is the persistence surface the session service needs.
// Implementations must make the append operations atomic per session.
type SessionStore interface {
	Create(s *models.Session) error
	Get(sessionID string) (*models.Session, error)
	ListByChild(childID int64) ([]models.Session, error)
	AppendTypingResults(sessionID string, results []models.TypingResult) (*models.Session, error)
	SetAnalysis(sessionID string, analysis *models.TypingAnalysis, overwrite bool) (bool, error)
	AppendThemeChange(sessionID, theme string) error
	AppendEmotion(sessionID, emotion string) error
	AppendPuzzle(sessionID string, rec models.PuzzleRecord) error
	AppendRecording(sessionID string, rec models.ReadingRecording) error
}

// ChildStore is the child-profile surface the session service needs.
type ChildStore interface {
	GetByID(id int64) (*models.Child, error)
	GetByTherapistAndUsername(therapistID int64, username string) (*models.Child, error)
	AddPlayedPuzzle(childID int64, puzzleID string) error
}

// TherapistDirectory resolves therapist codes during child login.
type TherapistDirectory interface {
	GetByCode(code string) (*models.Therapist, error)
}

// SessionService runs the per-session practice lifecycle: child login,
// adaptive word selection, result capture, analysis and activity logging.
type SessionService struct {
	sessions   SessionStore
	children   ChildStore
	therapists TherapistDirectory
	selector   *typing.Selector

	now func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(sessions SessionStore, children ChildStore, therapists TherapistDirectory, selector *typing.Selector) *SessionService {
	return &SessionService{
		sessions:   sessions,
		children:   children,
		therapists: therapists,
		selector:   selector,
		now:        time.Now,
	}
}

// StartSession logs a child in via therapist code and username and opens a
// fresh session. The child's current themes are copied onto the session so
// later reassignment cannot rewrite history.
func (s *SessionService) StartSession(therapistCode, childUsername string) (*models.Session, *models.Child, error) {
	therapist, err := s.therapists.GetByCode(therapistCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up therapist code: %w", err)
	}
	if therapist == nil {
		return nil, nil, ErrTherapistNotFound
	}

	child, err := s.children.GetByTherapistAndUsername(therapist.ID, childUsername)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up child: %w", err)
	}
	if child == nil {
		return nil, nil, ErrChildNotFound
	}

	themes := make([]string, len(child.CurrentThemes))
	copy(themes, child.CurrentThemes)

	session := &models.Session{
		SessionID:      sessionid.New(),
		ChildID:        child.ID,
		Date:           s.now().UTC(),
		AssignedThemes: themes,
		PreferredGame:  child.PreferredGame,
		PreferredStory: child.PreferredStory,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, nil, err
	}
	return session, child, nil
}

// GetSession retrieves a session by ID.
func (s *SessionService) GetSession(sessionID string) (*models.Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ListChildSessions retrieves all of a child's sessions, newest first.
func (s *SessionService) ListChildSessions(childID int64) ([]models.Session, error) {
	return s.sessions.ListByChild(childID)
}

// NextWord picks the next typing-practice word for a session, biased
// toward the letters the supplied history shows the child missing. The
// client carries the run's history and served words with the request;
// mid-run attempts are not persisted until the batch submit. Words in
// usedWords are not repeated until the bank is exhausted.
func (s *SessionService) NextWord(sessionID string, history []models.TypingAttempt, usedWords []string) (string, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return "", err
	}
	return s.selector.Next(history, usedWords), nil
}

// SubmitTypingBatch appends a batch of typing attempts to the session log.
// A session whose preferred game is set and is not typing rejects the
// submission; the other append operations carry no such guard. Once the
// session holds autoAnalyzeThreshold or more results and has no cached
// analysis, one is computed and cached; a failure there is logged and
// never fails the save. The returned analysis is non-nil only when this
// call computed it.
func (s *SessionService) SubmitTypingBatch(sessionID string, attempts []models.TypingAttempt) (*models.Session, *models.TypingAnalysis, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.PreferredGame != "" && session.PreferredGame != models.GameTyping {
		return nil, nil, ErrWrongGameMode
	}
	if len(attempts) == 0 {
		return session, nil, nil
	}

	now := s.now().UTC()
	results := make([]models.TypingResult, len(attempts))
	for i, a := range attempts {
		results[i] = models.TypingResult{Word: a.Word, Input: a.Input, Correct: a.Correct, CompletedAt: now}
	}

	session, err = s.sessions.AppendTypingResults(sessionID, results)
	if err != nil {
		return nil, nil, err
	}

	if len(session.TypingResults) >= autoAnalyzeThreshold && session.TypingAnalysis == nil {
		analysis, err := typing.BuildAnalysis(session.TypingResults, now)
		if err != nil {
			log.Printf("auto-analysis for session %s failed: %v", sessionID, err)
			return session, nil, nil
		}
		written, err := s.sessions.SetAnalysis(sessionID, analysis, false)
		if err != nil {
			log.Printf("failed to cache analysis for session %s: %v", sessionID, err)
			return session, nil, nil
		}
		if written {
			session.TypingAnalysis = analysis
			return session, analysis, nil
		}
	}

	return session, nil, nil
}

// AnalyzeSession computes and caches a fresh analysis, overwriting any
// cached one.
func (s *SessionService) AnalyzeSession(sessionID string) (*models.TypingAnalysis, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.TypingResults) == 0 {
		return nil, typing.ErrNoResults
	}

	analysis, err := typing.BuildAnalysis(session.TypingResults, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.SetAnalysis(sessionID, analysis, true); err != nil {
		return nil, err
	}
	return analysis, nil
}

// ChildAnalysis aggregates typing performance across all of a child's
// sessions. Sessions with a cached analysis contribute it as stored;
// sessions with results but no cache are analyzed on the fly without
// persisting anything.
func (s *SessionService) ChildAnalysis(childID int64) (*models.ChildTypingStats, []models.SessionAnalysis, error) {
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, nil, err
	}
	if child == nil {
		return nil, nil, ErrChildNotFound
	}

	sessions, err := s.sessions.ListByChild(childID)
	if err != nil {
		return nil, nil, err
	}

	stats := &models.ChildTypingStats{}
	var perSession []models.SessionAnalysis

	for _, session := range sessions {
		for _, r := range session.TypingResults {
			stats.TotalWords++
			if r.Correct {
				stats.CorrectWords++
			}
		}

		if len(session.TypingResults) == 0 {
			continue
		}

		analysis := session.TypingAnalysis
		if analysis == nil {
			analysis, err = typing.BuildAnalysis(session.TypingResults, s.now().UTC())
			if err != nil {
				if errors.Is(err, typing.ErrNoResults) {
					continue
				}
				return nil, nil, err
			}
		}
		perSession = append(perSession, models.SessionAnalysis{
			SessionID: session.SessionID,
			Analysis:  *analysis,
			Date:      session.Date,
		})
	}

	if stats.TotalWords > 0 {
		stats.OverallAccuracy = float64(stats.CorrectWords) / float64(stats.TotalWords) * 100
	}
	return stats, perSession, nil
}

// TrackThemeChange appends a theme transition to the session log. A change
// to the already current theme is still recorded.
func (s *SessionService) TrackThemeChange(sessionID, theme string) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	return s.sessions.AppendThemeChange(sessionID, theme)
}

// TrackEmotion appends one detected emotion label to the session log.
func (s *SessionService) TrackEmotion(sessionID, emotion string) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	return s.sessions.AppendEmotion(sessionID, emotion)
}

// RecordPuzzle logs a completed picture puzzle on the session and adds the
// puzzle to the child's lifetime played list. The game assignment does not
// gate this append.
func (s *SessionService) RecordPuzzle(sessionID string, rec models.PuzzleRecord) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = s.now().UTC()
	}
	if err := s.sessions.AppendPuzzle(sessionID, rec); err != nil {
		return err
	}
	if err := s.children.AddPlayedPuzzle(session.ChildID, rec.PuzzleID); err != nil {
		log.Printf("failed to record played puzzle for child %d: %v", session.ChildID, err)
	}
	return nil
}

// RecordReading logs one read-aloud recording on the session. The game
// assignment does not gate this append.
func (s *SessionService) RecordReading(sessionID string, rec models.ReadingRecording) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = s.now().UTC()
	}
	return s.sessions.AppendRecording(sessionID, rec)
}
