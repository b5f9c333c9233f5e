package models

import (
	"strings"
	"time"
)

// SuggestedRecipeTags are the meal-oriented tags offered by the recipe form
var SuggestedRecipeTags = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// Recipe is a named set of ingredient rows yielding Porciones portions
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
	Porciones    *int     `json:"porciones,omitempty"`
	// TotalNutrition is the cached copy written on save; it may be stale
	TotalNutrition *Nutrition `json:"total_nutrition,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// RecipeIngredient joins a recipe to an ingredient with a quantity in UnitName
type RecipeIngredient struct {
	ID           string      `json:"id,omitempty"`
	RecipeID     string      `json:"recipe_id,omitempty"`
	IngredientID string      `json:"ingredient_id"`
	Quantity     float64     `json:"quantity"`
	UnitName     string      `json:"unit_name"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"`
}

// RecipeIngredientDetail is a recipe row with its base-unit conversion resolved
type RecipeIngredientDetail struct {
	RecipeIngredient
	QuantityInBase float64   `json:"quantity_in_base"`
	ConversionText string    `json:"conversion_text,omitempty"`
	Nutrition      Nutrition `json:"nutrition"`
}

// RecipeWithNutrition is a recipe with its live-computed nutrition
type RecipeWithNutrition struct {
	Recipe
	Ingredients        []RecipeIngredientDetail `json:"ingredients"`
	LiveTotalNutrition Nutrition                `json:"live_total_nutrition"`
	PerPortion         Nutrition                `json:"per_portion"`
	BasePortions       int                      `json:"base_portions"`
	Warnings           []string                 `json:"warnings,omitempty"`
}

// RecipeListParams contains parameters for listing recipes
type RecipeListParams struct {
	Limit  int
	Offset int
	Search string
	Tag    string
}

// RecipeIngredientInput is one ingredient row of a save request
type RecipeIngredientInput struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	UnitName     string  `json:"unit_name"`
}

// SaveRecipeRequest is the request body for creating or replacing a recipe
type SaveRecipeRequest struct {
	Name         string                  `json:"name"`
	Description  *string                 `json:"description,omitempty"`
	ImageURL     *string                 `json:"image_url,omitempty"`
	Instructions []string                `json:"instructions"`
	Tags         []string                `json:"tags,omitempty"`
	Porciones    *int                    `json:"porciones,omitempty"`
	Ingredients  []RecipeIngredientInput `json:"ingredients"`
}

// Normalize trims input, fills defaults and validates the request shape.
// Unit names are checked against the ingredients by the database layer.
func (r *SaveRecipeRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if len(r.Ingredients) == 0 {
		return NewValidationError("ingredients", "at least one ingredient is required")
	}
	for _, step := range r.Instructions {
		if strings.TrimSpace(step) == "" {
			return NewValidationError("instructions", "instruction steps cannot be empty")
		}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Porciones == nil {
		one := 1
		r.Porciones = &one
	}
	if *r.Porciones < 1 {
		return NewValidationError("porciones", "porciones must be at least 1")
	}
	for i := range r.Ingredients {
		in := &r.Ingredients[i]
		in.UnitName = strings.TrimSpace(in.UnitName)
		if in.IngredientID == "" {
			return NewValidationError("ingredients", "ingredient_id is required")
		}
		if in.Quantity <= 0 {
			return NewValidationError("ingredients", "quantity must be greater than 0")
		}
		if in.UnitName == "" {
			return NewValidationError("ingredients", "unit_name is required")
		}
	}
	r.Tags = NormalizeTags(r.Tags)
	if r.ImageURL == nil || strings.TrimSpace(*r.ImageURL) == "" {
		placeholder := PlaceholderImageURL
		r.ImageURL = &placeholder
	}
	return nil
}
