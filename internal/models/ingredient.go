package models

import (
	"strings"
	"time"
)

// PlaceholderImageURL is stored when an ingredient or recipe is saved without an image
const PlaceholderImageURL = "https://images.unsplash.com/photo-1495195134817-aeb325a55b65?w=800"

// SuggestedIngredientTags are offered by the ingredient form and shopping list filters
var SuggestedIngredientTags = []string{
	"Vegetable",
	"Fruit",
	"Meat",
	"Fish",
	"Dairy",
	"Cereal",
	"Legume",
	"Nut",
	"Condiment",
	"Oil",
	"Drink",
}

// Ingredient is a food item with nutrition declared per BaseQuantity of BaseUnit
type Ingredient struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	BaseUnit     string  `json:"base_unit"`
	BaseQuantity float64 `json:"base_quantity"`
	Nutrition
	Tags             []string          `json:"tags"`
	ImageURL         *string           `json:"image_url,omitempty"`
	UnitEquivalences []UnitEquivalence `json:"unit_equivalences"`
	CreatedAt        time.Time         `json:"created_at"`
}

// UnitEquivalence declares that 1 UnitName equals ConversionFactor base units
type UnitEquivalence struct {
	ID               string  `json:"id,omitempty"`
	IngredientID     string  `json:"ingredient_id,omitempty"`
	UnitName         string  `json:"unit_name"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// IngredientListParams contains parameters for listing ingredients
type IngredientListParams struct {
	Limit  int
	Offset int
	Search string
	Tag    string
}

// SaveIngredientRequest is the request body for creating or replacing an ingredient
type SaveIngredientRequest struct {
	Name             string            `json:"name"`
	Description      *string           `json:"description,omitempty"`
	BaseUnit         string            `json:"base_unit"`
	BaseQuantity     *float64          `json:"base_quantity,omitempty"`
	Calories         *float64          `json:"calories,omitempty"`
	Protein          *float64          `json:"protein,omitempty"`
	Carbs            *float64          `json:"carbs,omitempty"`
	Fat              *float64          `json:"fat,omitempty"`
	Fiber            *float64          `json:"fiber,omitempty"`
	Sugar            *float64          `json:"sugar,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	ImageURL         *string           `json:"image_url,omitempty"`
	UnitEquivalences []UnitEquivalence `json:"unit_equivalences,omitempty"`
}

// DefaultBaseQuantity is used when a request omits base_quantity
const DefaultBaseQuantity = 100

// Normalize trims input, fills defaults and validates the request
func (r *SaveIngredientRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.BaseUnit = strings.TrimSpace(r.BaseUnit)
	if r.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if r.BaseUnit == "" {
		return NewValidationError("base_unit", "base_unit is required")
	}
	if r.BaseQuantity == nil {
		q := float64(DefaultBaseQuantity)
		r.BaseQuantity = &q
	}
	if *r.BaseQuantity <= 0 {
		return NewValidationError("base_quantity", "base_quantity must be greater than 0")
	}
	for _, v := range []*float64{r.Calories, r.Protein, r.Carbs, r.Fat, r.Fiber, r.Sugar} {
		if v != nil && *v < 0 {
			return NewValidationError("nutrition", "nutrition values cannot be negative")
		}
	}
	r.Tags = NormalizeTags(r.Tags)
	if r.ImageURL == nil || strings.TrimSpace(*r.ImageURL) == "" {
		placeholder := PlaceholderImageURL
		r.ImageURL = &placeholder
	}

	seen := make(map[string]bool, len(r.UnitEquivalences))
	for i := range r.UnitEquivalences {
		ue := &r.UnitEquivalences[i]
		ue.UnitName = strings.TrimSpace(ue.UnitName)
		if ue.UnitName == "" {
			return NewValidationError("unit_equivalences", "unit_name is required")
		}
		if ue.UnitName == r.BaseUnit {
			return NewValidationError("unit_equivalences", "unit "+ue.UnitName+" collides with the base unit")
		}
		if seen[ue.UnitName] {
			return NewValidationError("unit_equivalences", "unit "+ue.UnitName+" is declared twice")
		}
		if ue.ConversionFactor <= 0 {
			return NewValidationError("unit_equivalences", "conversion_factor for "+ue.UnitName+" must be greater than 0")
		}
		seen[ue.UnitName] = true
	}
	return nil
}

// NutritionValues returns the request's nutrient fields with missing values as 0
func (r *SaveIngredientRequest) NutritionValues() Nutrition {
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return Nutrition{
		Calories: val(r.Calories),
		Protein:  val(r.Protein),
		Carbs:    val(r.Carbs),
		Fat:      val(r.Fat),
		Fiber:    val(r.Fiber),
		Sugar:    val(r.Sugar),
	}
}

// NormalizeTags trims tags, splits comma-separated input and drops duplicates
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, raw := range tags {
		for _, p := range strings.Split(raw, ",") {
			t := strings.TrimSpace(p)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// IngredientUsage reports how many recipes reference an ingredient
type IngredientUsage struct {
	IngredientID string `json:"ingredient_id"`
	RecipeCount  int    `json:"recipe_count"`
}
