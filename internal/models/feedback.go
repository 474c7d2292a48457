package models

import "time"

// Feedback is a free-form message submitted from the public site.
type Feedback struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// FAQ is a visitor-submitted question.
type FAQ struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"createdAt"`
}
