package repository

import (
	"database/sql"
	"fmt"
	"sync"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// SessionRepository handles database operations for therapy sessions.
//
// A session row stores its activity logs as JSON columns. Appends are
// read-modify-write, so every mutation of a given session runs under that
// session's mutex; without it, concurrent appends would drop each other's
// writes.
type SessionRepository struct {
	db *database.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db, locks: make(map[string]*sync.Mutex)}
}

// lock returns the mutex guarding one session's row. Locks are never
// evicted; a session's lock is a few dozen bytes and session counts are
// bounded by actual therapy activity.
func (r *SessionRepository) lock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	return l
}

const sessionColumns = `session_id, child_id, date, assigned_themes, themes_changed, emotions,
	played_puzzles, typing_results, typing_results_map, typing_analysis,
	preferred_game, preferred_story, reading_recordings`

// Create inserts a new session row.
func (r *SessionRepository) Create(s *models.Session) error {
	if s.AssignedThemes == nil {
		s.AssignedThemes = []string{}
	}
	themes, err := encodeJSON(s.AssignedThemes)
	if err != nil {
		return err
	}
	empty, err := encodeJSON([]string{})
	if err != nil {
		return err
	}
	emptyMap, err := encodeJSON(map[string]string{})
	if err != nil {
		return err
	}

	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)`
	_, err = r.db.Exec(query,
		s.SessionID, s.ChildID, s.Date, themes,
		empty, empty, empty, empty, emptyMap,
		s.PreferredGame, s.PreferredStory, empty)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func scanSession(scan func(dest ...interface{}) error) (*models.Session, error) {
	s := &models.Session{}
	var themes, changed, emotions, puzzles, results, resultsMap, analysis, recordings sql.NullString
	err := scan(&s.SessionID, &s.ChildID, &s.Date, &themes, &changed, &emotions,
		&puzzles, &results, &resultsMap, &analysis,
		&s.PreferredGame, &s.PreferredStory, &recordings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	for _, col := range []struct {
		raw sql.NullString
		dst interface{}
	}{
		{themes, &s.AssignedThemes},
		{changed, &s.ThemesChanged},
		{emotions, &s.EmotionsOfChild},
		{puzzles, &s.PlayedPuzzles},
		{results, &s.TypingResults},
		{resultsMap, &s.TypingResultsMap},
		{analysis, &s.TypingAnalysis},
		{recordings, &s.ReadingRecordings},
	} {
		if err := decodeJSON(col.raw, col.dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get retrieves a session by ID, or nil when absent.
func (r *SessionRepository) Get(sessionID string) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE session_id = ?"
	return scanSession(r.db.QueryRow(query, sessionID).Scan)
}

// ListByChild retrieves all of a child's sessions, newest first.
func (r *SessionRepository) ListByChild(childID int64) ([]models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE child_id = ? ORDER BY date DESC"
	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// mutate runs fn against the freshly loaded session under its lock and
// writes back the columns fn touched via the update statement it returns.
func (r *SessionRepository) mutate(sessionID string, fn func(s *models.Session) error, write func(s *models.Session) error) (*models.Session, error) {
	l := r.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	s, err := r.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := write(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AppendTypingResults appends a batch of typing results and refreshes the
// word-to-latest-input map. The updated session is returned so callers can
// decide whether analysis should run.
func (r *SessionRepository) AppendTypingResults(sessionID string, results []models.TypingResult) (*models.Session, error) {
	return r.mutate(sessionID,
		func(s *models.Session) error {
			s.TypingResults = append(s.TypingResults, results...)
			if s.TypingResultsMap == nil {
				s.TypingResultsMap = make(map[string]string)
			}
			for _, res := range results {
				s.TypingResultsMap[res.Word] = res.Input
			}
			return nil
		},
		func(s *models.Session) error {
			encoded, err := encodeJSON(s.TypingResults)
			if err != nil {
				return err
			}
			encodedMap, err := encodeJSON(s.TypingResultsMap)
			if err != nil {
				return err
			}
			query := "UPDATE sessions SET typing_results = ?, typing_results_map = ? WHERE session_id = ?"
			if _, err := r.db.Exec(query, encoded, encodedMap, sessionID); err != nil {
				return fmt.Errorf("failed to append typing results: %w", err)
			}
			return nil
		})
}

// SetAnalysis caches an analysis on the session. When overwrite is false an
// already cached analysis is left untouched and false is returned.
func (r *SessionRepository) SetAnalysis(sessionID string, analysis *models.TypingAnalysis, overwrite bool) (bool, error) {
	written := false
	_, err := r.mutate(sessionID,
		func(s *models.Session) error {
			if s.TypingAnalysis != nil && !overwrite {
				return nil
			}
			s.TypingAnalysis = analysis
			written = true
			return nil
		},
		func(s *models.Session) error {
			if !written {
				return nil
			}
			encoded, err := encodeJSON(s.TypingAnalysis)
			if err != nil {
				return err
			}
			query := "UPDATE sessions SET typing_analysis = ? WHERE session_id = ?"
			if _, err := r.db.Exec(query, encoded, sessionID); err != nil {
				return fmt.Errorf("failed to store analysis: %w", err)
			}
			return nil
		})
	return written, err
}

// AppendThemeChange records a theme transition observed mid-session.
// Transitions to the already current theme are recorded too.
func (r *SessionRepository) AppendThemeChange(sessionID, theme string) error {
	_, err := r.mutate(sessionID,
		func(s *models.Session) error {
			s.ThemesChanged = append(s.ThemesChanged, theme)
			return nil
		},
		r.writeList("themes_changed", sessionID, func(s *models.Session) interface{} { return s.ThemesChanged }))
	return err
}

// AppendEmotion records one detected emotion label.
func (r *SessionRepository) AppendEmotion(sessionID, emotion string) error {
	_, err := r.mutate(sessionID,
		func(s *models.Session) error {
			s.EmotionsOfChild = append(s.EmotionsOfChild, emotion)
			return nil
		},
		r.writeList("emotions", sessionID, func(s *models.Session) interface{} { return s.EmotionsOfChild }))
	return err
}

// AppendPuzzle records one completed picture puzzle.
func (r *SessionRepository) AppendPuzzle(sessionID string, rec models.PuzzleRecord) error {
	_, err := r.mutate(sessionID,
		func(s *models.Session) error {
			s.PlayedPuzzles = append(s.PlayedPuzzles, rec)
			return nil
		},
		r.writeList("played_puzzles", sessionID, func(s *models.Session) interface{} { return s.PlayedPuzzles }))
	return err
}

// AppendRecording records one read-aloud recording.
func (r *SessionRepository) AppendRecording(sessionID string, rec models.ReadingRecording) error {
	_, err := r.mutate(sessionID,
		func(s *models.Session) error {
			s.ReadingRecordings = append(s.ReadingRecordings, rec)
			return nil
		},
		r.writeList("reading_recordings", sessionID, func(s *models.Session) interface{} { return s.ReadingRecordings }))
	return err
}

// writeList builds the write step for a single JSON list column.
func (r *SessionRepository) writeList(column, sessionID string, value func(s *models.Session) interface{}) func(s *models.Session) error {
	return func(s *models.Session) error {
		encoded, err := encodeJSON(value(s))
		if err != nil {
			return err
		}
		query := "UPDATE sessions SET " + column + " = ? WHERE session_id = ?"
		if _, err := r.db.Exec(query, encoded, sessionID); err != nil {
			return fmt.Errorf("failed to update %s: %w", column, err)
		}
		return nil
	}
}
