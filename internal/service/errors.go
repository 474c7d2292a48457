package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidInvitation  = errors.New("invalid invitation code")
	ErrInvitationUsed     = errors.New("invitation code already used")
	ErrTherapistNotFound  = errors.New("therapist not found")
	ErrChildNotFound      = errors.New("child not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrStoryNotFound      = errors.New("story not found")
	ErrWrongGameMode      = errors.New("activity not allowed for this child's assigned game")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
