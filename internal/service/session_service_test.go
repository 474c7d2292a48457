package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"joyverse/internal/models"
	"joyverse/internal/typing"
	"joyverse/internal/wordbank"
)

// fakeStore is an in-memory SessionStore, ChildStore and TherapistDirectory
// used to exercise the service without a database. Appends run under one
// mutex, matching the atomicity the real store guarantees per session.
type fakeStore struct {
	mu         sync.Mutex
	sessions   map[string]*models.Session
	children   map[int64]*models.Child
	therapists map[string]*models.Therapist
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:   make(map[string]*models.Session),
		children:   make(map[int64]*models.Child),
		therapists: make(map[string]*models.Therapist),
	}
}

func cloneSession(s *models.Session) *models.Session {
	c := *s
	c.AssignedThemes = append([]string(nil), s.AssignedThemes...)
	c.ThemesChanged = append([]string(nil), s.ThemesChanged...)
	c.EmotionsOfChild = append([]string(nil), s.EmotionsOfChild...)
	c.PlayedPuzzles = append([]models.PuzzleRecord(nil), s.PlayedPuzzles...)
	c.TypingResults = append([]models.TypingResult(nil), s.TypingResults...)
	c.ReadingRecordings = append([]models.ReadingRecording(nil), s.ReadingRecordings...)
	if s.TypingResultsMap != nil {
		c.TypingResultsMap = make(map[string]string, len(s.TypingResultsMap))
		for k, v := range s.TypingResultsMap {
			c.TypingResultsMap[k] = v
		}
	}
	if s.TypingAnalysis != nil {
		a := *s.TypingAnalysis
		c.TypingAnalysis = &a
	}
	return &c
}

func (f *fakeStore) Create(s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.SessionID] = cloneSession(s)
	return nil
}

func (f *fakeStore) Get(sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (f *fakeStore) ListByChild(childID int64) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.ChildID == childID {
			out = append(out, *cloneSession(s))
		}
	}
	return out, nil
}

func (f *fakeStore) AppendTypingResults(sessionID string, results []models.TypingResult) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	s.TypingResults = append(s.TypingResults, results...)
	if s.TypingResultsMap == nil {
		s.TypingResultsMap = make(map[string]string)
	}
	for _, r := range results {
		s.TypingResultsMap[r.Word] = r.Input
	}
	return cloneSession(s), nil
}

func (f *fakeStore) SetAnalysis(sessionID string, analysis *models.TypingAnalysis, overwrite bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return false, fmt.Errorf("session %s not found", sessionID)
	}
	if s.TypingAnalysis != nil && !overwrite {
		return false, nil
	}
	a := *analysis
	s.TypingAnalysis = &a
	return true, nil
}

func (f *fakeStore) AppendThemeChange(sessionID, theme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID].ThemesChanged = append(f.sessions[sessionID].ThemesChanged, theme)
	return nil
}

func (f *fakeStore) AppendEmotion(sessionID, emotion string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID].EmotionsOfChild = append(f.sessions[sessionID].EmotionsOfChild, emotion)
	return nil
}

func (f *fakeStore) AppendPuzzle(sessionID string, rec models.PuzzleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID].PlayedPuzzles = append(f.sessions[sessionID].PlayedPuzzles, rec)
	return nil
}

func (f *fakeStore) AppendRecording(sessionID string, rec models.ReadingRecording) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID].ReadingRecordings = append(f.sessions[sessionID].ReadingRecordings, rec)
	return nil
}

func (f *fakeStore) GetByID(id int64) (*models.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.children[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	clone.CurrentThemes = append([]string(nil), c.CurrentThemes...)
	clone.PlayedPuzzles = append([]string(nil), c.PlayedPuzzles...)
	return &clone, nil
}

func (f *fakeStore) GetByTherapistAndUsername(therapistID int64, username string) (*models.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.children {
		if c.TherapistID == therapistID && c.Username == username {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) AddPlayedPuzzle(childID int64, puzzleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.children[childID]
	if !ok {
		return fmt.Errorf("child %d not found", childID)
	}
	for _, p := range c.PlayedPuzzles {
		if p == puzzleID {
			return nil
		}
	}
	c.PlayedPuzzles = append(c.PlayedPuzzles, puzzleID)
	return nil
}

func (f *fakeStore) GetByCode(code string) (*models.Therapist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.therapists[code]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func newTestService(store *fakeStore) *SessionService {
	bank := wordbank.New([]string{"cat", "dog", "bed", "sun", "zip", "box", "fig", "ram", "hen", "jet", "kit", "log"})
	selector := typing.NewSelector(bank, rand.New(rand.NewSource(1)))
	svc := NewSessionService(store, store, store, selector)
	svc.now = func() time.Time { return time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func seedChild(store *fakeStore, preferredGame string) {
	store.therapists["123456"] = &models.Therapist{ID: 1, Username: "anna", Code: "123456"}
	store.children[1] = &models.Child{
		ID:            1,
		TherapistID:   1,
		Username:      "happy-fox",
		CurrentThemes: []string{"ocean"},
		PreferredGame: preferredGame,
	}
}

func batch(n int, correct bool) []models.TypingAttempt {
	attempts := make([]models.TypingAttempt, n)
	for i := range attempts {
		if correct {
			attempts[i] = models.TypingAttempt{Word: "bed", Input: "bed", Correct: true}
		} else {
			attempts[i] = models.TypingAttempt{Word: "bed", Input: "ded", Correct: false}
		}
	}
	return attempts
}

func TestStartSessionCopiesThemes(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, child, err := svc.StartSession("123456", "happy-fox")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if child.ID != 1 {
		t.Errorf("child.ID = %d, want 1", child.ID)
	}
	if len(session.AssignedThemes) != 1 || session.AssignedThemes[0] != "ocean" {
		t.Errorf("AssignedThemes = %v, want [ocean]", session.AssignedThemes)
	}

	// Reassigning the child's themes must not touch the open session.
	store.children[1].CurrentThemes = []string{"space"}
	got, err := svc.GetSession(session.SessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if len(got.AssignedThemes) != 1 || got.AssignedThemes[0] != "ocean" {
		t.Errorf("AssignedThemes after reassignment = %v, want [ocean]", got.AssignedThemes)
	}
}

func TestStartSessionRejectsUnknowns(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	if _, _, err := svc.StartSession("999999", "happy-fox"); !errors.Is(err, ErrTherapistNotFound) {
		t.Errorf("unknown code error = %v, want ErrTherapistNotFound", err)
	}
	if _, _, err := svc.StartSession("123456", "sad-owl"); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("unknown child error = %v, want ErrChildNotFound", err)
	}
}

func TestSubmitEnforcesGameAssignment(t *testing.T) {
	store := newFakeStore()
	seedChild(store, models.GamePuzzles)
	svc := newTestService(store)

	session, _, err := svc.StartSession("123456", "happy-fox")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if _, _, err := svc.SubmitTypingBatch(session.SessionID, batch(1, true)); !errors.Is(err, ErrWrongGameMode) {
		t.Errorf("SubmitTypingBatch() error = %v, want ErrWrongGameMode", err)
	}

	// Word selection is not an append and carries no guard.
	if _, err := svc.NextWord(session.SessionID, nil, nil); err != nil {
		t.Errorf("NextWord() error = %v, want nil regardless of game assignment", err)
	}
}

func TestNextWordAdaptsMidRun(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	// Nothing has been submitted yet; the request carries the run so far.
	// "bed" was missed on the b and has already been served, so the only
	// viable candidate containing the problem letter is "box".
	history := []models.TypingAttempt{{Word: "bed", Input: "ded", Correct: false}}
	for i := 0; i < 20; i++ {
		word, err := svc.NextWord(session.SessionID, history, []string{"bed"})
		if err != nil {
			t.Fatalf("NextWord() error = %v", err)
		}
		if word == "bed" {
			t.Fatal("NextWord() repeated a word already served this run")
		}
		if word != "box" {
			t.Fatalf("NextWord() = %q, want %q targeting the missed letter", word, "box")
		}
	}

	if _, err := svc.NextWord("missing", history, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session error = %v, want ErrSessionNotFound", err)
	}
}

func TestAppendsIgnoreGameAssignment(t *testing.T) {
	store := newFakeStore()
	seedChild(store, models.GameTyping)
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	rec := models.PuzzleRecord{Theme: "ocean", Level: 1, PuzzleID: "ocean-1-1"}
	if err := svc.RecordPuzzle(session.SessionID, rec); err != nil {
		t.Errorf("RecordPuzzle() error = %v, want nil on a typing-assigned session", err)
	}
	reading := models.ReadingRecording{StoryID: "7", AudioData: "UklGRg=="}
	if err := svc.RecordReading(session.SessionID, reading); err != nil {
		t.Errorf("RecordReading() error = %v, want nil on a typing-assigned session", err)
	}

	got, _ := svc.GetSession(session.SessionID)
	if len(got.PlayedPuzzles) != 1 || len(got.ReadingRecordings) != 1 {
		t.Errorf("appends recorded = %d puzzles, %d recordings, want 1 each",
			len(got.PlayedPuzzles), len(got.ReadingRecordings))
	}
}

func TestSubmitBelowThresholdSkipsAnalysis(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	updated, autoAnalysis, err := svc.SubmitTypingBatch(session.SessionID, batch(9, true))
	if err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}
	if updated.TypingAnalysis != nil {
		t.Error("analysis cached below the threshold")
	}
	if autoAnalysis != nil {
		t.Error("analysis returned below the threshold")
	}
}

func TestSubmitTriggersAnalysisOnce(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	updated, autoAnalysis, err := svc.SubmitTypingBatch(session.SessionID, batch(10, false))
	if err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}
	if autoAnalysis == nil {
		t.Fatal("analysis not returned by the submit that crossed the threshold")
	}
	if autoAnalysis.OverallAccuracy != 0 {
		t.Errorf("OverallAccuracy = %d, want 0", autoAnalysis.OverallAccuracy)
	}
	if updated.TypingAnalysis == nil {
		t.Fatal("analysis not cached at the threshold")
	}

	// Later submissions must neither recompute nor re-report the analysis.
	updated, autoAnalysis, err = svc.SubmitTypingBatch(session.SessionID, batch(10, true))
	if err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}
	if autoAnalysis != nil {
		t.Error("cached analysis re-reported by a later submit")
	}
	if updated.TypingAnalysis.OverallAccuracy != 0 {
		t.Errorf("cached analysis was recomputed: accuracy %d, want 0",
			updated.TypingAnalysis.OverallAccuracy)
	}
	if len(updated.TypingResults) != 20 {
		t.Errorf("TypingResults count = %d, want 20", len(updated.TypingResults))
	}
}

func TestAnalyzeSessionOverwrites(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	if _, _, err := svc.SubmitTypingBatch(session.SessionID, batch(10, false)); err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}
	if _, _, err := svc.SubmitTypingBatch(session.SessionID, batch(10, true)); err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}

	analysis, err := svc.AnalyzeSession(session.SessionID)
	if err != nil {
		t.Fatalf("AnalyzeSession() error = %v", err)
	}
	if analysis.OverallAccuracy != 50 {
		t.Errorf("OverallAccuracy = %d, want 50 after explicit re-analysis", analysis.OverallAccuracy)
	}

	got, _ := svc.GetSession(session.SessionID)
	if got.TypingAnalysis.OverallAccuracy != 50 {
		t.Errorf("cached accuracy = %d, want 50", got.TypingAnalysis.OverallAccuracy)
	}
}

func TestAnalyzeSessionEmpty(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	if _, err := svc.AnalyzeSession(session.SessionID); !errors.Is(err, typing.ErrNoResults) {
		t.Errorf("AnalyzeSession() error = %v, want ErrNoResults", err)
	}
}

func TestChildAnalysisComputesMissingReports(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	// Session one crosses the threshold and gets a cached analysis.
	s1, _, _ := svc.StartSession("123456", "happy-fox")
	if _, _, err := svc.SubmitTypingBatch(s1.SessionID, batch(10, true)); err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}

	// Session two stays below the threshold: no cache.
	s2, _, _ := svc.StartSession("123456", "happy-fox")
	if _, _, err := svc.SubmitTypingBatch(s2.SessionID, batch(5, false)); err != nil {
		t.Fatalf("SubmitTypingBatch() error = %v", err)
	}

	stats, perSession, err := svc.ChildAnalysis(1)
	if err != nil {
		t.Fatalf("ChildAnalysis() error = %v", err)
	}
	if stats.TotalWords != 15 || stats.CorrectWords != 10 {
		t.Errorf("stats = %d/%d, want 15 total 10 correct", stats.TotalWords, stats.CorrectWords)
	}
	if len(perSession) != 2 {
		t.Fatalf("perSession count = %d, want 2", len(perSession))
	}

	// The on-the-fly analysis must not have been persisted.
	got, _ := svc.GetSession(s2.SessionID)
	if got.TypingAnalysis != nil {
		t.Error("on-the-fly analysis was persisted on the session")
	}
}

func TestTrackThemeChangeRecordsRepeats(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	if err := svc.TrackThemeChange(session.SessionID, "ocean"); err != nil {
		t.Fatalf("TrackThemeChange() error = %v", err)
	}
	if err := svc.TrackThemeChange(session.SessionID, "ocean"); err != nil {
		t.Fatalf("TrackThemeChange() error = %v", err)
	}

	got, _ := svc.GetSession(session.SessionID)
	if len(got.ThemesChanged) != 2 {
		t.Errorf("ThemesChanged count = %d, want 2 including the repeat", len(got.ThemesChanged))
	}
}

func TestRecordPuzzleUpdatesChild(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	rec := models.PuzzleRecord{Theme: "ocean", Level: 1, PuzzleID: "ocean-1-3", EmotionsDuring: []string{"happy"}}
	if err := svc.RecordPuzzle(session.SessionID, rec); err != nil {
		t.Fatalf("RecordPuzzle() error = %v", err)
	}

	got, _ := svc.GetSession(session.SessionID)
	if len(got.PlayedPuzzles) != 1 || got.PlayedPuzzles[0].PuzzleID != "ocean-1-3" {
		t.Errorf("PlayedPuzzles = %v, want the recorded puzzle", got.PlayedPuzzles)
	}

	child, _ := store.GetByID(1)
	if len(child.PlayedPuzzles) != 1 || child.PlayedPuzzles[0] != "ocean-1-3" {
		t.Errorf("child.PlayedPuzzles = %v, want [ocean-1-3]", child.PlayedPuzzles)
	}
}

func TestConcurrentSubmitsLoseNothing(t *testing.T) {
	store := newFakeStore()
	seedChild(store, "")
	svc := newTestService(store)

	session, _, _ := svc.StartSession("123456", "happy-fox")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := svc.SubmitTypingBatch(session.SessionID, batch(1, true)); err != nil {
				t.Errorf("SubmitTypingBatch() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.GetSession(session.SessionID)
	if len(got.TypingResults) != n {
		t.Errorf("TypingResults count = %d, want %d", len(got.TypingResults), n)
	}
	if got.TypingAnalysis == nil {
		t.Error("threshold crossed but no analysis cached")
	}
}
