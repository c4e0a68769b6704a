package models

import (
	"strings"
	"time"
)

type Tour struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Duration        int       `json:"duration"`
	MaxGroupSize    int       `json:"max_group_size"`
	Difficulty      string    `json:"difficulty"`
	RatingsAverage  float64   `json:"ratings_average"`
	RatingsQuantity int       `json:"ratings_quantity"`
	Price           float64   `json:"price"`
	Discount        float64   `json:"discount,omitempty"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description,omitempty"`
	ImageCover      string    `json:"image_cover,omitempty"`
	Images          []string  `json:"images,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// JoinImages flattens the image list for storage in a single column.
func JoinImages(images []string) string {
	return strings.Join(images, ",")
}

// SplitImages undoes JoinImages; an empty column yields no images.
func SplitImages(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// TourStats is one aggregation bucket of GetTourStats, grouped by difficulty.
type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"num_tours"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	AvgPrice   float64 `json:"avg_price"`
}
