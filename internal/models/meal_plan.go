package models

import (
	"time"
)

// DateLayout is the calendar-day format used for meal plans and list ranges
const DateLayout = "2006-01-02"

// MealType is a user-defined, ordered meal category such as Breakfast
type MealType struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CreateMealTypeRequest is the request body for adding a meal type
type CreateMealTypeRequest struct {
	Name string `json:"name"`
}

// ReorderMealTypesRequest lists meal type IDs in their new order
type ReorderMealTypesRequest struct {
	IDs []string `json:"ids"`
}

// MealPlanEntry plans Porciones portions of a recipe for a meal slot on a day
type MealPlanEntry struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	MealTypeID string    `json:"meal_type_id"`
	RecipeID   string    `json:"recipe_id"`
	Porciones  int       `json:"porciones"`
	CreatedAt  time.Time `json:"created_at"`
}

// MealPlanEntryDetail is an entry with its recipe and scaled nutrition
type MealPlanEntryDetail struct {
	MealPlanEntry
	MealType         string    `json:"meal_type"`
	RecipeName       string    `json:"recipe_name"`
	RecipeImageURL   *string   `json:"recipe_image_url,omitempty"`
	RecipePorciones  int       `json:"recipe_porciones"`
	ScaledNutrition  Nutrition `json:"scaled_nutrition"`
	DisplayNutrition Nutrition `json:"display_nutrition"`
}

// CreateMealPlanRequest is the request body for planning a recipe
type CreateMealPlanRequest struct {
	Date       string `json:"date"`
	MealTypeID string `json:"meal_type_id"`
	RecipeID   string `json:"recipe_id"`
	Porciones  *int   `json:"porciones,omitempty"`
}

// Normalize validates the entry request. A missing portion count is resolved
// later from the recipe's own yield.
func (r *CreateMealPlanRequest) Normalize() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return NewValidationError("date", "date must be formatted as yyyy-MM-dd")
	}
	if r.MealTypeID == "" {
		return NewValidationError("meal_type_id", "meal_type_id is required")
	}
	if r.RecipeID == "" {
		return NewValidationError("recipe_id", "recipe_id is required")
	}
	if r.Porciones != nil && *r.Porciones < 1 {
		return NewValidationError("porciones", "porciones must be at least 1")
	}
	return nil
}

// UpdateMealPlanRequest changes the planned portions of an entry
type UpdateMealPlanRequest struct {
	Porciones int `json:"porciones"`
}

// MaxRangeDays bounds the length of a requested date range
const MaxRangeDays = 366

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Monday-to-Sunday week containing t
func WeekOf(t time.Time) DateRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// ParseDateRange parses start and end (yyyy-MM-dd). Empty values default to
// the week of now.
func ParseDateRange(start, end string, now time.Time) (DateRange, error) {
	r := WeekOf(now)
	if start != "" {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return DateRange{}, NewValidationError("start", "start must be formatted as yyyy-MM-dd")
		}
		r.Start = t
		if end == "" {
			r.End = t.AddDate(0, 0, 6)
		}
	}
	if end != "" {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return DateRange{}, NewValidationError("end", "end must be formatted as yyyy-MM-dd")
		}
		r.End = t
	}
	if r.End.Before(r.Start) {
		return DateRange{}, NewValidationError("end", "end must not be before start")
	}
	if r.End.Sub(r.Start) > MaxRangeDays*24*time.Hour {
		return DateRange{}, NewValidationError("end", "date range is too long")
	}
	return r, nil
}

// Days returns every calendar day of the range formatted with DateLayout
func (r DateRange) Days() []string {
	var days []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// StartString returns the formatted start day
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns the formatted end day
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }
