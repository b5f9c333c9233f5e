package nutrition_test

import (
	"math"
	"testing"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

func intPtr(v int) *int { return &v }

func rice() *models.Ingredient {
	return &models.Ingredient{
		ID:           "rice",
		Name:         "Rice",
		BaseUnit:     "g",
		BaseQuantity: 100,
		Nutrition:    models.Nutrition{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3, Fiber: 0.4},
		Tags:         []string{"Cereal"},
		UnitEquivalences: []models.UnitEquivalence{
			{UnitName: "cup", ConversionFactor: 185},
		},
	}
}

func oil() *models.Ingredient {
	return &models.Ingredient{
		ID:           "oil",
		Name:         "Oil",
		BaseUnit:     "ml",
		BaseQuantity: 100,
		Nutrition:    models.Nutrition{Calories: 884, Fat: 100},
		Tags:         []string{"Oil", "Condiment"},
		UnitEquivalences: []models.UnitEquivalence{
			{UnitName: "tbsp", ConversionFactor: 15},
			{UnitName: "tsp", ConversionFactor: 5},
		},
	}
}

func TestComputeRecipeNutritionAtBaseQuantityEqualsIngredient(t *testing.T) {
	t.Parallel()
	for _, ing := range []*models.Ingredient{rice(), oil()} {
		rows := []models.RecipeIngredient{{
			IngredientID: ing.ID,
			Quantity:     ing.BaseQuantity,
			UnitName:     ing.BaseUnit,
			Ingredient:   ing,
		}}
		got, warnings := nutrition.ComputeRecipeNutrition(rows)
		if len(warnings) != 0 {
			t.Fatalf("unexpected warnings for %s: %v", ing.Name, warnings)
		}
		if got != ing.Nutrition {
			t.Fatalf("expected %+v for %s, got %+v", ing.Nutrition, ing.Name, got)
		}
	}
}

func TestComputeRecipeNutritionRice(t *testing.T) {
	t.Parallel()
	rows := []models.RecipeIngredient{{IngredientID: "rice", Quantity: 200, UnitName: "g", Ingredient: rice()}}

	total, _ := nutrition.ComputeRecipeNutrition(rows)
	if total.Calories != 260 {
		t.Fatalf("expected 260 kcal, got %v", total.Calories)
	}
	per := nutrition.NutritionPerPortion(total, nutrition.ResolveBasePortions(nil, intPtr(2)))
	if per.Calories != 130 {
		t.Fatalf("expected 130 kcal per portion, got %v", per.Calories)
	}
}

func TestOilTablespoonsConvertToMillilitres(t *testing.T) {
	t.Parallel()
	row := models.RecipeIngredient{IngredientID: "oil", Quantity: 2, UnitName: "tbsp", Ingredient: oil()}

	if got := nutrition.ConvertToBaseUnit(2, "tbsp", oil()); got != 30 {
		t.Fatalf("expected 30 ml, got %v", got)
	}
	if got := nutrition.ConversionText(&row); got != "(30 ml)" {
		t.Fatalf("expected conversion text (30 ml), got %q", got)
	}

	_, inBase, warnings := nutrition.RowNutrition(&row)
	if inBase != 30 || len(warnings) != 0 {
		t.Fatalf("expected 30 ml without warnings, got %v %v", inBase, warnings)
	}
}

func TestConversionTextEmptyForBaseUnit(t *testing.T) {
	t.Parallel()
	row := models.RecipeIngredient{Quantity: 50, UnitName: "ml", Ingredient: oil()}
	if got := nutrition.ConversionText(&row); got != "" {
		t.Fatalf("expected no conversion text, got %q", got)
	}
}

func TestResolveFactor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		unit   string
		factor float64
		ok     bool
	}{
		{"g", 1, true},
		{"cup", 185, true},
		{"handful", 1, false},
	}
	for _, c := range cases {
		factor, ok := nutrition.ResolveFactor(c.unit, rice())
		if factor != c.factor || ok != c.ok {
			t.Fatalf("ResolveFactor(%q): expected %v %v, got %v %v", c.unit, c.factor, c.ok, factor, ok)
		}
	}
}

func TestUnknownUnitPassesThroughWithWarning(t *testing.T) {
	t.Parallel()
	if got := nutrition.ConvertToBaseUnit(3, "handful", rice()); got != 3 {
		t.Fatalf("expected pass-through 3, got %v", got)
	}

	rows := []models.RecipeIngredient{{IngredientID: "rice", Quantity: 100, UnitName: "handful", Ingredient: rice()}}
	total, warnings := nutrition.ComputeRecipeNutrition(rows)
	if total.Calories != 130 {
		t.Fatalf("expected unknown unit treated as base, got %v kcal", total.Calories)
	}
	if len(warnings) != 1 || warnings[0].Code != nutrition.WarnUnknownUnit {
		t.Fatalf("expected one unknown_unit warning, got %v", warnings)
	}
}

func TestZeroBaseQuantityContributesNothing(t *testing.T) {
	t.Parallel()
	broken := rice()
	broken.BaseQuantity = 0
	rows := []models.RecipeIngredient{
		{IngredientID: "rice", Quantity: 200, UnitName: "g", Ingredient: broken},
		{IngredientID: "oil", Quantity: 100, UnitName: "ml", Ingredient: oil()},
	}

	total, warnings := nutrition.ComputeRecipeNutrition(rows)
	for _, v := range []float64{total.Calories, total.Protein, total.Carbs, total.Fat, total.Fiber, total.Sugar} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("expected finite totals, got %+v", total)
		}
	}
	if total.Calories != 884 {
		t.Fatalf("expected only oil to count, got %v kcal", total.Calories)
	}
	if len(warnings) != 1 || warnings[0].Code != nutrition.WarnZeroBaseQuantity {
		t.Fatalf("expected zero_base_quantity warning, got %v", warnings)
	}
}

func TestMissingIngredientIsSkipped(t *testing.T) {
	t.Parallel()
	rows := []models.RecipeIngredient{
		{IngredientID: "gone", Quantity: 10, UnitName: "g"},
		{IngredientID: "rice", Quantity: 100, UnitName: "g", Ingredient: rice()},
	}
	total, warnings := nutrition.ComputeRecipeNutrition(rows)
	if total.Calories != 130 {
		t.Fatalf("expected 130 kcal, got %v", total.Calories)
	}
	if len(warnings) != 1 || warnings[0].IngredientID != "gone" {
		t.Fatalf("expected warning for missing ingredient, got %v", warnings)
	}
}

func TestUnitRoundTrip(t *testing.T) {
	t.Parallel()
	ing := oil()
	ing.UnitEquivalences = append(ing.UnitEquivalences, models.UnitEquivalence{UnitName: "oz", ConversionFactor: 29.5735})

	for _, x := range []float64{0.5, 1, 2.37, 7, 13.33} {
		for _, ue := range ing.UnitEquivalences {
			inBase := nutrition.ConvertToBaseUnit(x, ue.UnitName, ing)
			var back float64
			found := false
			for _, eq := range nutrition.ListEquivalences(ing, inBase) {
				if eq.Unit == ue.UnitName {
					back, found = eq.Quantity, true
				}
			}
			if !found {
				t.Fatalf("unit %s missing from equivalences", ue.UnitName)
			}
			if math.Abs(back-x) > 0.01 {
				t.Fatalf("round trip %v %s gave %v", x, ue.UnitName, back)
			}
		}
	}
}

func TestListEquivalencesStartsWithBaseUnit(t *testing.T) {
	t.Parallel()
	eqs := nutrition.ListEquivalences(oil(), 45)
	if len(eqs) != 3 {
		t.Fatalf("expected 3 equivalences, got %d", len(eqs))
	}
	if eqs[0].Unit != "ml" || eqs[0].Quantity != 45 {
		t.Fatalf("expected base unit first, got %+v", eqs[0])
	}
	if eqs[1].Unit != "tbsp" || eqs[1].Quantity != 3 {
		t.Fatalf("expected 3 tbsp, got %+v", eqs[1])
	}
	if eqs[2].Unit != "tsp" || eqs[2].Quantity != 9 {
		t.Fatalf("expected 9 tsp, got %+v", eqs[2])
	}
}

func TestScaleToPlannedPortionsIdempotent(t *testing.T) {
	t.Parallel()
	n := models.Nutrition{Calories: 523.7, Protein: 12.1, Carbs: 80.3, Fat: 9.9, Fiber: 3.3, Sugar: 1.7}
	for _, b := range []int{1, 2, 3, 7, 12} {
		if got := nutrition.ScaleToPlannedPortions(n, b, b); got != n {
			t.Fatalf("scaling %d to %d changed %+v into %+v", b, b, n, got)
		}
	}
}

func TestScaleToPlannedPortionsZeroBase(t *testing.T) {
	t.Parallel()
	n := models.Nutrition{Calories: 500}
	if got := nutrition.ScaleToPlannedPortions(n, 0, 3); got != (models.Nutrition{}) {
		t.Fatalf("expected zero nutrition, got %+v", got)
	}
}

func TestResolveBasePortions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		live, recipe *int
		want         int
	}{
		{intPtr(3), intPtr(2), 3},
		{intPtr(0), intPtr(2), 2},
		{nil, intPtr(4), 4},
		{nil, intPtr(-1), 1},
		{nil, nil, 1},
	}
	for _, c := range cases {
		if got := nutrition.ResolveBasePortions(c.live, c.recipe); got != c.want {
			t.Fatalf("expected %d, got %d", c.want, got)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.01},
		{2.5, 0, 3},
		{-2.5, 0, -2},
		{12.344, 2, 12.34},
		{math.NaN(), 2, 0},
		{math.Inf(1), 0, 0},
	}
	for _, c := range cases {
		if got := nutrition.RoundHalfUp(c.in, c.places); got != c.want {
			t.Fatalf("RoundHalfUp(%v, %d): expected %v, got %v", c.in, c.places, c.want, got)
		}
	}
}

func TestBuildRecipeViewUsesRecipePortions(t *testing.T) {
	t.Parallel()
	recipe := models.Recipe{ID: "r1", Name: "Fried rice", Porciones: intPtr(2)}
	rows := []models.RecipeIngredient{
		{IngredientID: "rice", Quantity: 200, UnitName: "g", Ingredient: rice()},
		{IngredientID: "oil", Quantity: 1, UnitName: "tbsp", Ingredient: oil()},
	}

	view := nutrition.BuildRecipeView(recipe, rows, nil)
	if view.BasePortions != 2 {
		t.Fatalf("expected 2 base portions, got %d", view.BasePortions)
	}
	if math.Abs(view.LiveTotalNutrition.Calories-392.6) > 1e-9 {
		t.Fatalf("expected 392.6 kcal, got %v", view.LiveTotalNutrition.Calories)
	}
	if math.Abs(view.PerPortion.Calories-196.3) > 1e-9 {
		t.Fatalf("expected 196.3 kcal per portion, got %v", view.PerPortion.Calories)
	}
	if view.Ingredients[1].ConversionText != "(15 ml)" {
		t.Fatalf("expected (15 ml), got %q", view.Ingredients[1].ConversionText)
	}
}
