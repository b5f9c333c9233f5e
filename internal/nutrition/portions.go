package nutrition

import "github.com/foxxcyber/recetario/internal/models"

// ResolveBasePortions picks the portion count a recipe total is divided by:
// the first positive of live and recipe, otherwise 1.
func ResolveBasePortions(live, recipe *int) int {
	if live != nil && *live > 0 {
		return *live
	}
	if recipe != nil && *recipe > 0 {
		return *recipe
	}
	return 1
}

// NutritionPerPortion divides a recipe total by its base portions.
// Non-positive portion counts are treated as 1.
func NutritionPerPortion(total models.Nutrition, basePortions int) models.Nutrition {
	if basePortions <= 0 {
		basePortions = 1
	}
	return total.Scale(1 / float64(basePortions))
}

// ScaleToPlannedPortions returns the nutrition of plannedPortions portions of
// a recipe whose total yields basePortions. A non-positive base yields zero.
func ScaleToPlannedPortions(total models.Nutrition, basePortions, plannedPortions int) models.Nutrition {
	if basePortions <= 0 {
		return models.Nutrition{}
	}
	return total.Scale(float64(plannedPortions) / float64(basePortions))
}
