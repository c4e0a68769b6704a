package models

import "time"

type Review struct {
	ID        string    `json:"id"`
	Review    string    `json:"review"`
	Rating    float64   `json:"rating"`
	TourID    string    `json:"tour_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
