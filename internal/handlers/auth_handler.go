package handlers

import (
	"net/http"
	"strconv"

	"joyverse/internal/service"
)

// AuthHandler serves therapist signup, login and the super-admin account
// endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp handles POST /api/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username       string `json:"username"`
		Password       string `json:"password"`
		InvitationCode string `json:"invitationCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	therapist, err := h.authService.SignUp(req.Username, req.Password, req.InvitationCode)
	if err != nil {
		respondServiceError(w, err, "signup failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"username": therapist.Username,
		"code":     therapist.Code,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	therapist, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"username": therapist.Username,
		"code":     therapist.Code,
	})
}

// ChangePassword handles POST /api/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	claims := therapistClaims(r)
	if err := h.authService.ChangePassword(claims.TherapistID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, err, "change password failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// CreateInvitation handles POST /api/admin/invitations.
func (h *AuthHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.authService.CreateInvitation()
	if err != nil {
		respondServiceError(w, err, "create invitation failed")
		return
	}
	respondJSON(w, http.StatusCreated, invitation)
}

// ListInvitations handles GET /api/admin/invitations.
func (h *AuthHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.authService.ListInvitations()
	if err != nil {
		respondServiceError(w, err, "list invitations failed")
		return
	}
	respondJSON(w, http.StatusOK, invitations)
}

// ListTherapists handles GET /api/admin/therapists.
func (h *AuthHandler) ListTherapists(w http.ResponseWriter, r *http.Request) {
	therapists, err := h.authService.ListTherapists()
	if err != nil {
		respondServiceError(w, err, "list therapists failed")
		return
	}
	respondJSON(w, http.StatusOK, therapists)
}

// DeleteTherapist handles DELETE /api/admin/therapists/{id}.
func (h *AuthHandler) DeleteTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid therapist id", "", err)
		return
	}
	if err := h.authService.DeleteTherapist(id); err != nil {
		respondServiceError(w, err, "delete therapist failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
