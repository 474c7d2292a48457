package handlers

import (
	"net/http"
	"strconv"

	"joyverse/internal/models"
	"joyverse/internal/service"
)

// StoryHandler serves the reading surface: the story library and
// read-aloud recordings.
type StoryHandler struct {
	storyService   *service.StoryService
	sessionService *service.SessionService
}

// NewStoryHandler creates a new story handler.
func NewStoryHandler(storyService *service.StoryService, sessionService *service.SessionService) *StoryHandler {
	return &StoryHandler{storyService: storyService, sessionService: sessionService}
}

func storyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("storyId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid story id", "", err)
		return 0, false
	}
	return id, true
}

// ListStories handles GET /api/stories.
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.ListStories()
	if err != nil {
		respondServiceError(w, err, "list stories failed")
		return
	}
	respondJSON(w, http.StatusOK, stories)
}

// GetStory handles GET /api/stories/{storyId}.
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	story, err := h.storyService.GetStory(id)
	if err != nil {
		respondServiceError(w, err, "get story failed")
		return
	}
	respondJSON(w, http.StatusOK, story)
}

// AddStory handles POST /api/admin/stories.
func (h *StoryHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Story  string `json:"story"`
		Moral  string `json:"moral"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	story, err := h.storyService.AddStory(req.Title, req.Author, req.Story, req.Moral)
	if err != nil {
		respondServiceError(w, err, "add story failed")
		return
	}
	respondJSON(w, http.StatusCreated, story)
}

// DeleteStory handles DELETE /api/admin/stories/{storyId}.
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	if err := h.storyService.DeleteStory(id); err != nil {
		respondServiceError(w, err, "delete story failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RecordReading handles POST /api/sessions/{sessionId}/readings.
func (h *StoryHandler) RecordReading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoryID    string `json:"storyId"`
		StoryTitle string `json:"storyTitle"`
		AudioData  string `json:"audioData"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StoryID == "" || req.AudioData == "" {
		respondWithError(w, http.StatusBadRequest, "storyId and audioData are required", "", nil)
		return
	}

	rec := models.ReadingRecording{
		StoryID:    req.StoryID,
		StoryTitle: req.StoryTitle,
		AudioData:  req.AudioData,
	}
	if err := h.sessionService.RecordReading(r.PathValue("sessionId"), rec); err != nil {
		respondServiceError(w, err, "record reading failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
