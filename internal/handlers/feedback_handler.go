package handlers

import (
	"net/http"

	"joyverse/internal/service"
)

// FeedbackHandler serves the public feedback and FAQ endpoints.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback handles POST /api/feedback.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(req.Name, req.Email, req.Message)
	if err != nil {
		respondServiceError(w, err, "submit feedback failed")
		return
	}
	respondJSON(w, http.StatusCreated, feedback)
}

// SubmitQuestion handles POST /api/faq.
func (h *FeedbackHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Question string `json:"question"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	faq, err := h.feedbackService.SubmitQuestion(req.Name, req.Email, req.Question)
	if err != nil {
		respondServiceError(w, err, "submit question failed")
		return
	}
	respondJSON(w, http.StatusCreated, faq)
}

// ListFeedback handles GET /api/admin/feedback.
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedbackService.ListFeedback()
	if err != nil {
		respondServiceError(w, err, "list feedback failed")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// ListQuestions handles GET /api/admin/faq.
func (h *FeedbackHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedbackService.ListQuestions()
	if err != nil {
		respondServiceError(w, err, "list questions failed")
		return
	}
	respondJSON(w, http.StatusOK, items)
}
