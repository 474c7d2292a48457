package handlers

import (
	"net/http"

	"joyverse/internal/models"
	"joyverse/internal/service"
)

// SessionHandler serves the child-facing session lifecycle: login, word
// practice and analysis.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ChildLogin handles POST /api/child/login. A successful login opens a
// fresh session; the previous one is implicitly over.
func (h *SessionHandler) ChildLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TherapistCode string `json:"therapistCode"`
		Username      string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	session, child, err := h.sessionService.StartSession(req.TherapistCode, req.Username)
	if err != nil {
		respondServiceError(w, err, "child login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":      session.SessionID,
		"username":       child.Username,
		"assignedThemes": session.AssignedThemes,
		"preferredGame":  session.PreferredGame,
		"preferredStory": session.PreferredStory,
	})
}

// GetSession handles GET /api/sessions/{sessionId}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetSession(r.PathValue("sessionId"))
	if err != nil {
		respondServiceError(w, err, "get session failed")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// NextWord handles POST /api/sessions/{sessionId}/typing/next-word. The
// client sends the run's history and already-served words; attempts only
// reach the store at the batch submit.
func (h *SessionHandler) NextWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		History   []models.TypingAttempt `json:"history"`
		UsedWords []string               `json:"usedWords"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	word, err := h.sessionService.NextWord(r.PathValue("sessionId"), req.History, req.UsedWords)
	if err != nil {
		respondServiceError(w, err, "next word failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"word": word})
}

// SubmitTyping handles POST /api/sessions/{sessionId}/typing/results.
func (h *SessionHandler) SubmitTyping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Results []models.TypingAttempt `json:"results"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	session, autoAnalysis, err := h.sessionService.SubmitTypingBatch(r.PathValue("sessionId"), req.Results)
	if err != nil {
		respondServiceError(w, err, "submit typing failed")
		return
	}

	// autoAnalysis is null unless this submit crossed the threshold.
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalWords":   len(session.TypingResults),
		"autoAnalysis": autoAnalysis,
	})
}

// Analyze handles POST /api/sessions/{sessionId}/typing/analyze. Unlike
// the automatic path this always recomputes and overwrites.
func (h *SessionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.sessionService.AnalyzeSession(r.PathValue("sessionId"))
	if err != nil {
		respondServiceError(w, err, "analyze session failed")
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

// TrackEmotion handles POST /api/sessions/{sessionId}/emotions for labels
// detected outside the predictor round trip.
func (h *SessionHandler) TrackEmotion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emotion string `json:"emotion"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Emotion == "" {
		respondWithError(w, http.StatusBadRequest, "emotion is required", "", nil)
		return
	}

	if err := h.sessionService.TrackEmotion(r.PathValue("sessionId"), req.Emotion); err != nil {
		respondServiceError(w, err, "track emotion failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
