package nutrition

import (
	"math"

	"github.com/foxxcyber/recetario/internal/models"
)

// recommended share of each macronutrient, in percent of macro grams
var macroTargets = []models.MacroShare{
	{Key: "carbs", Label: "Carbohydrates", Target: 50, Color: "#4F46E5"},
	{Key: "protein", Label: "Protein", Target: 20, Color: "#10B981"},
	{Key: "fat", Label: "Fat", Target: 30, Color: "#F59E0B"},
}

// ScaleEntry fills the scaled and display nutrition of a planned meal from
// its recipe's total nutrition.
func ScaleEntry(entry *models.MealPlanEntryDetail, recipeTotal models.Nutrition) {
	entry.ScaledNutrition = ScaleToPlannedPortions(recipeTotal, entry.RecipePorciones, entry.Porciones)
	entry.DisplayNutrition = Round(entry.ScaledNutrition)
}

// DailyTotals sums the scaled nutrition of a day's meals
func DailyTotals(meals []models.MealPlanEntryDetail) models.Nutrition {
	var total models.Nutrition
	for _, m := range meals {
		total = total.Add(m.ScaledNutrition)
	}
	return total
}

// MacroDistribution returns the share of carbs, protein and fat in the day's
// macro grams next to the recommended share. A day without macros returns
// zero shares.
func MacroDistribution(totals models.Nutrition) []models.MacroShare {
	grams := map[string]float64{
		"carbs":   totals.Carbs,
		"protein": totals.Protein,
		"fat":     totals.Fat,
	}
	sum := totals.Carbs + totals.Protein + totals.Fat

	out := make([]models.MacroShare, len(macroTargets))
	for i, m := range macroTargets {
		out[i] = m
		if sum > 0 {
			out[i].Actual = int(RoundHalfUp(grams[m.Key]/sum*100, 0))
		}
	}
	return out
}

// Percentage returns round(actual/target*100), or 0 without a positive target
func Percentage(actual, target float64) int {
	if target <= 0 {
		return 0
	}
	p := RoundHalfUp(actual/target*100, 0)
	if p > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(p)
}

// ProgressFor compares a day's totals with a person's targets
func ProgressFor(totals models.Nutrition, p models.Person) models.PersonProgress {
	pairs := []struct {
		name           string
		actual, target float64
	}{
		{"calories", totals.Calories, p.Calories},
		{"protein", totals.Protein, p.Protein},
		{"carbs", totals.Carbs, p.Carbs},
		{"fat", totals.Fat, p.Fat},
		{"fiber", totals.Fiber, p.Fiber},
		{"sugar", totals.Sugar, p.Sugar},
	}
	progress := models.PersonProgress{
		PersonID:   p.ID,
		PersonName: p.Name,
		Nutrients:  make([]models.NutrientProgress, 0, len(pairs)),
	}
	for _, pair := range pairs {
		progress.Nutrients = append(progress.Nutrients, models.NutrientProgress{
			Nutrient:   pair.name,
			Actual:     RoundHalfUp(pair.actual, 0),
			Target:     pair.target,
			Percentage: Percentage(pair.actual, pair.target),
		})
	}
	return progress
}

// BuildDailyPlans groups scaled meals by day and computes each day's totals,
// macro distribution and per-person progress. Every day of days is present,
// even without meals.
func BuildDailyPlans(days []string, meals []models.MealPlanEntryDetail, persons []models.Person) []models.DailyPlan {
	byDay := make(map[string][]models.MealPlanEntryDetail, len(days))
	for _, m := range meals {
		byDay[m.Date] = append(byDay[m.Date], m)
	}

	plans := make([]models.DailyPlan, 0, len(days))
	for _, day := range days {
		dayMeals := byDay[day]
		if dayMeals == nil {
			dayMeals = []models.MealPlanEntryDetail{}
		}
		totals := DailyTotals(dayMeals)
		plan := models.DailyPlan{
			Date:              day,
			Meals:             dayMeals,
			Totals:            totals,
			RoundedTotals:     Round(totals),
			MacroDistribution: MacroDistribution(totals),
			Progress:          make([]models.PersonProgress, 0, len(persons)),
		}
		for _, p := range persons {
			plan.Progress = append(plan.Progress, ProgressFor(totals, p))
		}
		plans = append(plans, plan)
	}
	return plans
}
