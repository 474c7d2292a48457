package handlers

import (
	"net/http"
	"strconv"

	"joyverse/internal/service"
)

// TherapistHandler serves the therapist dashboard and child-management
// endpoints. Every route here sits behind RequireTherapist.
type TherapistHandler struct {
	therapistService *service.TherapistService
	sessionService   *service.SessionService
}

// NewTherapistHandler creates a new therapist handler.
func NewTherapistHandler(therapistService *service.TherapistService, sessionService *service.SessionService) *TherapistHandler {
	return &TherapistHandler{therapistService: therapistService, sessionService: sessionService}
}

func childID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("childId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid child id", "", err)
		return 0, false
	}
	return id, true
}

// Dashboard handles GET /api/therapist/dashboard.
func (h *TherapistHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := therapistClaims(r)
	dashboard, err := h.therapistService.Dashboard(claims.TherapistID)
	if err != nil {
		respondServiceError(w, err, "dashboard failed")
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// AddChild handles POST /api/therapist/children.
func (h *TherapistHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claims := therapistClaims(r)
	child, err := h.therapistService.AddChild(claims.TherapistID, req.Username)
	if err != nil {
		respondServiceError(w, err, "add child failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    child.ID,
		"child": child,
	})
}

// GetChild handles GET /api/therapist/children/{childId}.
func (h *TherapistHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	child, err := h.therapistService.GetChild(claims.TherapistID, id)
	if err != nil {
		respondServiceError(w, err, "get child failed")
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// RemoveChild handles DELETE /api/therapist/children/{childId}.
func (h *TherapistHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	if err := h.therapistService.RemoveChild(claims.TherapistID, id); err != nil {
		respondServiceError(w, err, "remove child failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AssignThemes handles PUT /api/therapist/children/{childId}/themes.
// When the child has a session open the transition is also logged on it.
func (h *TherapistHandler) AssignThemes(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	var req struct {
		Themes    []string `json:"themes"`
		SessionID string   `json:"sessionId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claims := therapistClaims(r)
	if err := h.therapistService.AssignThemes(claims.TherapistID, id, req.Themes); err != nil {
		respondServiceError(w, err, "assign themes failed")
		return
	}

	if req.SessionID != "" {
		for _, theme := range req.Themes {
			if err := h.sessionService.TrackThemeChange(req.SessionID, theme); err != nil {
				respondServiceError(w, err, "track theme change failed")
				return
			}
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "themes updated"})
}

// SetPreferredGame handles PUT /api/therapist/children/{childId}/game.
func (h *TherapistHandler) SetPreferredGame(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	var req struct {
		PreferredGame string `json:"preferredGame"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claims := therapistClaims(r)
	if err := h.therapistService.SetPreferredGame(claims.TherapistID, id, req.PreferredGame); err != nil {
		respondServiceError(w, err, "set preferred game failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "game updated"})
}

// SetPreferredStory handles PUT /api/therapist/children/{childId}/story.
func (h *TherapistHandler) SetPreferredStory(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	var req struct {
		StoryID int64 `json:"storyId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claims := therapistClaims(r)
	if err := h.therapistService.SetPreferredStory(claims.TherapistID, id, req.StoryID); err != nil {
		respondServiceError(w, err, "set preferred story failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "story assigned"})
}

// ChildSessions handles GET /api/therapist/children/{childId}/sessions.
func (h *TherapistHandler) ChildSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	sessions, err := h.therapistService.ChildSessions(claims.TherapistID, id)
	if err != nil {
		respondServiceError(w, err, "list child sessions failed")
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

// SessionSummaries handles GET /api/therapist/children/{childId}/sessions/summary.
func (h *TherapistHandler) SessionSummaries(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	summaries, err := h.therapistService.SessionSummaries(claims.TherapistID, id)
	if err != nil {
		respondServiceError(w, err, "session summaries failed")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// ChildRecordings handles GET /api/therapist/children/{childId}/recordings.
func (h *TherapistHandler) ChildRecordings(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	recordings, err := h.therapistService.ChildRecordings(claims.TherapistID, id)
	if err != nil {
		respondServiceError(w, err, "list recordings failed")
		return
	}
	respondJSON(w, http.StatusOK, recordings)
}

// ChildAnalysis handles GET /api/therapist/children/{childId}/typing-analysis.
func (h *TherapistHandler) ChildAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	claims := therapistClaims(r)
	// Ownership check before aggregating across sessions.
	if _, err := h.therapistService.GetChild(claims.TherapistID, id); err != nil {
		respondServiceError(w, err, "child analysis failed")
		return
	}

	stats, perSession, err := h.sessionService.ChildAnalysis(id)
	if err != nil {
		respondServiceError(w, err, "child analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hasData":  stats.TotalWords > 0,
		"stats":    stats,
		"sessions": perSession,
	})
}
