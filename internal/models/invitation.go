package models

import "time"

// Invitation is a signup gate for therapist accounts. The fixed code is
// reusable; issued codes are single-use.
type Invitation struct {
	Code      string     `json:"code"`
	IsUsed    bool       `json:"isUsed"`
	CreatedAt time.Time  `json:"createdAt"`
	UsedBy    string     `json:"usedBy,omitempty"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}
