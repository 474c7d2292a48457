package handlers

import (
	"net/http"
	"strconv"

	"joyverse/internal/models"
	"joyverse/internal/repository"
	"joyverse/internal/service"
)

// PuzzleHandler serves the picture-puzzle surface: themed word lists and
// puzzle completions.
type PuzzleHandler struct {
	wordListRepo   *repository.WordListRepository
	sessionService *service.SessionService
	emotionService *service.EmotionService
}

// NewPuzzleHandler creates a new puzzle handler.
func NewPuzzleHandler(wordListRepo *repository.WordListRepository, sessionService *service.SessionService, emotionService *service.EmotionService) *PuzzleHandler {
	return &PuzzleHandler{
		wordListRepo:   wordListRepo,
		sessionService: sessionService,
		emotionService: emotionService,
	}
}

// ListThemes handles GET /api/puzzles/themes.
func (h *PuzzleHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.wordListRepo.ListThemes()
	if err != nil {
		respondServiceError(w, err, "list themes failed")
		return
	}
	respondJSON(w, http.StatusOK, themes)
}

// GetWordList handles GET /api/puzzles/{theme}/{level}.
func (h *PuzzleHandler) GetWordList(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid level", "", err)
		return
	}

	list, err := h.wordListRepo.GetByThemeLevel(r.PathValue("theme"), level)
	if err != nil {
		respondServiceError(w, err, "get word list failed")
		return
	}
	if list == nil {
		respondWithError(w, http.StatusNotFound, "no word list for that theme and level", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// UpsertWordList handles PUT /api/admin/puzzles/{theme}/{level}.
func (h *PuzzleHandler) UpsertWordList(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid level", "", err)
		return
	}

	var req struct {
		Words []models.PuzzleWord `json:"words"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Words) == 0 {
		respondWithError(w, http.StatusBadRequest, "words are required", "", nil)
		return
	}

	list, err := h.wordListRepo.Upsert(r.PathValue("theme"), level, req.Words)
	if err != nil {
		respondServiceError(w, err, "upsert word list failed")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// CompletePuzzle handles POST /api/sessions/{sessionId}/puzzles. The
// emotions buffered for the puzzle during play are drained into the
// record.
func (h *PuzzleHandler) CompletePuzzle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	var req struct {
		Theme    string `json:"theme"`
		Level    int    `json:"level"`
		PuzzleID string `json:"puzzleId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PuzzleID == "" {
		respondWithError(w, http.StatusBadRequest, "puzzleId is required", "", nil)
		return
	}

	emotions := h.emotionService.Drain(sessionID, req.PuzzleID)
	rec := models.PuzzleRecord{
		Theme:          req.Theme,
		Level:          req.Level,
		PuzzleID:       req.PuzzleID,
		EmotionsDuring: emotions,
	}
	if err := h.sessionService.RecordPuzzle(sessionID, rec); err != nil {
		respondServiceError(w, err, "record puzzle failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "recorded",
		"dominantEmotion": service.Dominant(emotions),
	})
}
