package nutrition

import (
	"fmt"

	"github.com/foxxcyber/recetario/internal/models"
)

// Warning codes
const (
	WarnUnknownUnit       = "unknown_unit"
	WarnZeroBaseQuantity  = "zero_base_quantity"
	WarnMissingIngredient = "missing_ingredient"
)

// Warning reports input that could not be resolved and was degraded instead
type Warning struct {
	Code         string `json:"code"`
	IngredientID string `json:"ingredient_id,omitempty"`
	Message      string `json:"message"`
}

func (w Warning) String() string { return w.Message }

// Messages flattens warnings for API responses
func Messages(ws []Warning) []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}

// RowNutrition returns the nutrition contributed by a single recipe row along
// with its quantity in base units. Unknown units are treated as base units.
func RowNutrition(row *models.RecipeIngredient) (models.Nutrition, float64, []Warning) {
	ing := row.Ingredient
	if ing == nil {
		return models.Nutrition{}, 0, []Warning{{
			Code:         WarnMissingIngredient,
			IngredientID: row.IngredientID,
			Message:      fmt.Sprintf("ingredient %s no longer exists and was skipped", row.IngredientID),
		}}
	}

	var warnings []Warning
	factor, ok := ResolveFactor(row.UnitName, ing)
	if !ok {
		warnings = append(warnings, Warning{
			Code:         WarnUnknownUnit,
			IngredientID: ing.ID,
			Message:      fmt.Sprintf("unit %q is not defined for %s; treated as %s", row.UnitName, ing.Name, ing.BaseUnit),
		})
	}
	inBase := row.Quantity * factor

	if ing.BaseQuantity <= 0 {
		warnings = append(warnings, Warning{
			Code:         WarnZeroBaseQuantity,
			IngredientID: ing.ID,
			Message:      fmt.Sprintf("%s has no base quantity; its nutrition was ignored", ing.Name),
		})
		return models.Nutrition{}, inBase, warnings
	}

	proportion := finite(inBase / ing.BaseQuantity)
	return ing.Nutrition.Scale(proportion), inBase, warnings
}

// ComputeRecipeNutrition sums the nutrition of every row of a recipe. The
// result is unrounded; use Round for presentation.
func ComputeRecipeNutrition(rows []models.RecipeIngredient) (models.Nutrition, []Warning) {
	var (
		total    models.Nutrition
		warnings []Warning
	)
	for i := range rows {
		n, _, ws := RowNutrition(&rows[i])
		total = total.Add(n)
		warnings = append(warnings, ws...)
	}
	return total, warnings
}

// RecipeDetails resolves every row of a recipe into its display form
func RecipeDetails(rows []models.RecipeIngredient) ([]models.RecipeIngredientDetail, models.Nutrition, []Warning) {
	var (
		total    models.Nutrition
		warnings []Warning
	)
	details := make([]models.RecipeIngredientDetail, 0, len(rows))
	for i := range rows {
		n, inBase, ws := RowNutrition(&rows[i])
		total = total.Add(n)
		warnings = append(warnings, ws...)
		details = append(details, models.RecipeIngredientDetail{
			RecipeIngredient: rows[i],
			QuantityInBase:   inBase,
			ConversionText:   ConversionText(&rows[i]),
			Nutrition:        n,
		})
	}
	return details, total, warnings
}

// BuildRecipeView assembles a recipe with its live nutrition and per-portion values
func BuildRecipeView(recipe models.Recipe, rows []models.RecipeIngredient, livePortions *int) models.RecipeWithNutrition {
	details, total, warnings := RecipeDetails(rows)
	base := ResolveBasePortions(livePortions, recipe.Porciones)
	return models.RecipeWithNutrition{
		Recipe:             recipe,
		Ingredients:        details,
		LiveTotalNutrition: total,
		PerPortion:         NutritionPerPortion(total, base),
		BasePortions:       base,
		Warnings:           Messages(warnings),
	}
}
