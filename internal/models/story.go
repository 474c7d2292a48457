package models

import "time"

// Story is a reading-exercise text.
type Story struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Story     string    `json:"story"`
	Moral     string    `json:"moral"`
	CreatedAt time.Time `json:"createdAt"`
}
