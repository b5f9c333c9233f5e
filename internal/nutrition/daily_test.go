package nutrition_test

import (
	"testing"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

func entry(date string, recipePortions, planned int, total models.Nutrition) models.MealPlanEntryDetail {
	e := models.MealPlanEntryDetail{
		MealPlanEntry:   models.MealPlanEntry{Date: date, Porciones: planned},
		RecipePorciones: recipePortions,
	}
	nutrition.ScaleEntry(&e, total)
	return e
}

func TestScaleEntry(t *testing.T) {
	t.Parallel()
	e := entry("2024-01-10", 4, 2, models.Nutrition{Calories: 1001, Protein: 40})
	if e.ScaledNutrition.Calories != 500.5 {
		t.Fatalf("expected 500.5 kcal, got %v", e.ScaledNutrition.Calories)
	}
	if e.DisplayNutrition.Calories != 501 || e.DisplayNutrition.Protein != 20 {
		t.Fatalf("unexpected display nutrition %+v", e.DisplayNutrition)
	}
}

func TestMacroDistribution(t *testing.T) {
	t.Parallel()
	shares := nutrition.MacroDistribution(models.Nutrition{Carbs: 150, Protein: 50, Fat: 50})
	want := map[string][2]int{"carbs": {60, 50}, "protein": {20, 20}, "fat": {20, 30}}
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
	for _, s := range shares {
		if w := want[s.Key]; s.Actual != w[0] || s.Target != w[1] {
			t.Fatalf("%s: expected %v, got actual %d target %d", s.Key, w, s.Actual, s.Target)
		}
	}

	for _, s := range nutrition.MacroDistribution(models.Nutrition{}) {
		if s.Actual != 0 {
			t.Fatalf("expected zero share on an empty day, got %+v", s)
		}
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()
	if got := nutrition.Percentage(1500, 2000); got != 75 {
		t.Fatalf("expected 75, got %d", got)
	}
	if got := nutrition.Percentage(1500, 0); got != 0 {
		t.Fatalf("expected 0 without target, got %d", got)
	}
}

func TestBuildDailyPlans(t *testing.T) {
	t.Parallel()
	meals := []models.MealPlanEntryDetail{
		entry("2024-01-10", 2, 1, models.Nutrition{Calories: 800, Carbs: 100, Protein: 40, Fat: 20}),
		entry("2024-01-10", 1, 1, models.Nutrition{Calories: 600, Carbs: 50, Protein: 30, Fat: 20}),
		entry("2024-01-12", 1, 2, models.Nutrition{Calories: 300}),
	}
	persons := []models.Person{{ID: "p1", Name: "Ana", Nutrition: models.Nutrition{Calories: 2000}}}
	days := []string{"2024-01-10", "2024-01-11", "2024-01-12"}

	plans := nutrition.BuildDailyPlans(days, meals, persons)
	if len(plans) != 3 {
		t.Fatalf("expected one plan per day, got %d", len(plans))
	}
	if plans[0].Totals.Calories != 1000 || len(plans[0].Meals) != 2 {
		t.Fatalf("unexpected first day %+v", plans[0])
	}
	if len(plans[1].Meals) != 0 || plans[1].Totals != (models.Nutrition{}) {
		t.Fatalf("expected empty second day, got %+v", plans[1])
	}
	if plans[2].Totals.Calories != 600 {
		t.Fatalf("expected 600 kcal on third day, got %v", plans[2].Totals.Calories)
	}

	progress := plans[0].Progress
	if len(progress) != 1 || progress[0].Nutrients[0].Nutrient != "calories" || progress[0].Nutrients[0].Percentage != 50 {
		t.Fatalf("expected 50%% calories for Ana, got %+v", progress)
	}
	if progress[0].Nutrients[1].Percentage != 0 {
		t.Fatalf("expected 0%% protein without a target, got %+v", progress[0].Nutrients[1])
	}
}
