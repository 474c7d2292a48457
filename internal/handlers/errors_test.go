package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"joyverse/internal/service"
	"joyverse/internal/typing"
	"joyverse/internal/validation"
)

func TestRespondWithErrorWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, 400, "bad input", "", nil)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "bad input" {
		t.Errorf("error = %q, want %q", body["error"], "bad input")
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", validation.ValidationError{Field: "username", Message: "required"}, 400},
		{"empty analysis", typing.ErrNoResults, 400},
		{"bad credentials", service.ErrInvalidCredentials, 401},
		{"expired token", service.ErrInvalidToken, 401},
		{"wrong game", service.ErrWrongGameMode, 403},
		{"bad invitation", service.ErrInvalidInvitation, 403},
		{"missing session", service.ErrSessionNotFound, 404},
		{"missing child", service.ErrChildNotFound, 404},
		{"taken username", service.ErrUsernameTaken, 409},
		{"unknown error", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err, "test")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestUnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("driver: connection refused on 10.0.0.7"), "test")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, internals must not leak", body["error"])
	}
}
