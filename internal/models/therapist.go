package models

import "time"

// Therapist represents a therapist account. A therapist owns its children
// outright; children never move between therapists.
type Therapist struct {
	ID                 int64     `json:"-"`
	Username           string    `json:"username"`
	PasswordHash       string    `json:"-"`
	Code               string    `json:"code"`
	InvitationCodeUsed string    `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TherapistWithChildren combines a therapist with its children for the
// dashboard read path.
type TherapistWithChildren struct {
	Username string  `json:"username"`
	Code     string  `json:"code"`
	Children []Child `json:"children"`
}
