package handlers

import (
	"errors"
	"net/http"

	"joyverse/internal/service"
	"joyverse/internal/typing"
	"joyverse/internal/validation"
)

// respondServiceError maps service-layer errors onto HTTP statuses. Known
// errors surface their message; anything else becomes an opaque 500.
func respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrInvitationUsed):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidInvitation), errors.Is(err, service.ErrWrongGameMode):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, service.ErrTherapistNotFound),
		errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrStoryNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, typing.ErrNoResults):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error", logMsg, err)
	}
}
