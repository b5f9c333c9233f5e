package models

import (
	"strings"
	"time"
)

// Person holds daily nutrition targets used for progress comparisons
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Nutrition
	CreatedAt time.Time `json:"created_at"`
}

// SavePersonRequest is the request body for creating or updating a person
type SavePersonRequest struct {
	Name string `json:"name"`
	Nutrition
}

// Normalize validates the person request
func (r *SavePersonRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", "name is required")
	}
	n := r.Nutrition
	for _, v := range []float64{n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar} {
		if v < 0 {
			return NewValidationError("targets", "targets cannot be negative")
		}
	}
	return nil
}
