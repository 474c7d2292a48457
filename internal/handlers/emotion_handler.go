package handlers

import (
	"encoding/json"
	"net/http"

	"joyverse/internal/service"
)

// EmotionHandler forwards facial-landmark frames to the emotion predictor
// and logs the detected labels on the session.
type EmotionHandler struct {
	emotionService *service.EmotionService
	sessionService *service.SessionService
}

// NewEmotionHandler creates a new emotion handler.
func NewEmotionHandler(emotionService *service.EmotionService, sessionService *service.SessionService) *EmotionHandler {
	return &EmotionHandler{emotionService: emotionService, sessionService: sessionService}
}

// Predict handles POST /api/sessions/{sessionId}/emotions/predict. The
// detected label is appended to the session log; when a puzzleId is given
// it is also buffered against that puzzle.
func (h *EmotionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	var req struct {
		Landmarks json.RawMessage `json:"landmarks"`
		PuzzleID  string          `json:"puzzleId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Landmarks) == 0 {
		respondWithError(w, http.StatusBadRequest, "landmarks are required", "", nil)
		return
	}

	emotion, err := h.emotionService.Predict(r.Context(), req.Landmarks)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "emotion prediction unavailable", "emotion predictor call failed", err)
		return
	}

	if err := h.sessionService.TrackEmotion(sessionID, emotion); err != nil {
		respondServiceError(w, err, "track emotion failed")
		return
	}
	if req.PuzzleID != "" {
		h.emotionService.Accumulate(sessionID, req.PuzzleID, emotion)
	}

	respondJSON(w, http.StatusOK, map[string]string{"emotion": emotion})
}

// Dominant handles GET /api/sessions/{sessionId}/emotions/dominant. It
// returns the modal emotion buffered for the puzzle and clears the
// buffer.
func (h *EmotionHandler) Dominant(w http.ResponseWriter, r *http.Request) {
	puzzleID := r.URL.Query().Get("puzzleId")
	if puzzleID == "" {
		respondWithError(w, http.StatusBadRequest, "puzzleId is required", "", nil)
		return
	}

	emotions := h.emotionService.Drain(r.PathValue("sessionId"), puzzleID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dominantEmotion": service.Dominant(emotions),
		"samples":         len(emotions),
	})
}
