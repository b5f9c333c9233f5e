package nutrition_test

import (
	"math"
	"testing"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

func friedRice() (models.Recipe, []models.RecipeIngredient) {
	recipe := models.Recipe{ID: "recipe-x", Name: "Fried rice", Porciones: intPtr(4)}
	rows := []models.RecipeIngredient{
		{IngredientID: "rice", Quantity: 400, UnitName: "g", Ingredient: rice()},
		{IngredientID: "oil", Quantity: 2, UnitName: "tbsp", Ingredient: oil()},
	}
	return recipe, rows
}

func planned(id, date string, portions int) nutrition.PlannedMeal {
	recipe, rows := friedRice()
	return nutrition.PlannedMeal{
		EntryID:     id,
		Date:        date,
		MealType:    "Lunch",
		Porciones:   portions,
		Recipe:      recipe,
		Ingredients: rows,
	}
}

func totals(items []*models.ShoppingListItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.Ingredient.ID] = it.TotalQuantity
	}
	return out
}

func TestBuildShoppingListSplitPortionsEqualSingleEntry(t *testing.T) {
	t.Parallel()
	split, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{
		planned("e1", "2024-01-10", 2),
		planned("e2", "2024-01-11", 2),
	})
	single, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{
		planned("e3", "2024-01-10", 4),
	})

	got, want := totals(split), totals(single)
	if len(got) != 2 || len(want) != 2 {
		t.Fatalf("expected 2 lines each, got %v and %v", got, want)
	}
	for id, q := range want {
		if math.Abs(got[id]-q) > 1e-9 {
			t.Fatalf("%s: split total %v differs from single total %v", id, got[id], q)
		}
	}
	if want["rice"] != 400 || want["oil"] != 30 {
		t.Fatalf("unexpected single-entry totals %v", want)
	}
}

func TestAggregateIsAdditive(t *testing.T) {
	t.Parallel()
	a := planned("e1", "2024-01-10", 1)
	b := planned("e2", "2024-01-12", 3)

	first, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{a})
	second, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{b})
	both, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{a, b})

	sep1, sep2, joint := totals(first), totals(second), totals(both)
	for id, q := range joint {
		if math.Abs(sep1[id]+sep2[id]-q) > 1e-9 {
			t.Fatalf("%s: %v + %v != %v", id, sep1[id], sep2[id], q)
		}
	}
}

func TestBuildShoppingListKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()
	salad := models.Recipe{ID: "salad", Name: "Salad", Porciones: intPtr(1)}
	meals := []nutrition.PlannedMeal{
		{EntryID: "e1", Date: "2024-01-10", Porciones: 1, Recipe: salad, Ingredients: []models.RecipeIngredient{
			{IngredientID: "oil", Quantity: 1, UnitName: "tsp", Ingredient: oil()},
		}},
		planned("e2", "2024-01-10", 4),
	}
	items, _ := nutrition.BuildShoppingList(meals)
	if len(items) != 2 || items[0].Ingredient.ID != "oil" || items[1].Ingredient.ID != "rice" {
		t.Fatalf("expected oil then rice, got %+v", items)
	}
	if items[0].TotalQuantity != 35 {
		t.Fatalf("expected 5 + 30 ml of oil, got %v", items[0].TotalQuantity)
	}
	if len(items[0].Recipes) != 2 {
		t.Fatalf("expected two provenance records, got %+v", items[0].Recipes)
	}
}

func TestProvenanceMergesSameRecipeAndDate(t *testing.T) {
	t.Parallel()
	recipe := models.Recipe{ID: "r", Name: "Rice twice", Porciones: intPtr(2)}
	rows := []models.RecipeIngredient{
		{IngredientID: "rice", Quantity: 100, UnitName: "g", Ingredient: rice()},
		{IngredientID: "rice", Quantity: 1, UnitName: "cup", Ingredient: rice()},
	}
	meals := []nutrition.PlannedMeal{
		{EntryID: "lunch", Date: "2024-01-10", MealType: "Lunch", Porciones: 2, Recipe: recipe, Ingredients: rows},
		{EntryID: "dinner", Date: "2024-01-10", MealType: "Dinner", Porciones: 1, Recipe: recipe, Ingredients: rows},
		{EntryID: "next", Date: "2024-01-11", MealType: "Lunch", Porciones: 2, Recipe: recipe, Ingredients: rows},
	}

	items, _ := nutrition.BuildShoppingList(meals)
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	prov := items[0].Recipes
	if len(prov) != 2 {
		t.Fatalf("expected provenance per (recipe, date), got %+v", prov)
	}
	// two rows per meal: lunch adds 2+2, dinner adds 1+1
	if prov[0].Date != "2024-01-10" || prov[0].Porciones != 6 {
		t.Fatalf("expected 6 portions on 2024-01-10, got %+v", prov[0])
	}
	if math.Abs(prov[0].Quantity-427.5) > 1e-9 {
		t.Fatalf("expected 427.5 g on 2024-01-10, got %v", prov[0].Quantity)
	}
	if math.Abs(items[0].TotalQuantity-712.5) > 1e-9 {
		t.Fatalf("expected 712.5 g in total, got %v", items[0].TotalQuantity)
	}
}

func TestProvenancePortionsAddPerRow(t *testing.T) {
	t.Parallel()
	salt := &models.Ingredient{ID: "salt", Name: "Salt", BaseUnit: "g", BaseQuantity: 100}
	recipe := models.Recipe{ID: "r", Name: "Seasoned", Porciones: intPtr(2)}
	meals := []nutrition.PlannedMeal{{
		EntryID: "e1", Date: "2024-01-10", MealType: "Lunch", Porciones: 2, Recipe: recipe,
		Ingredients: []models.RecipeIngredient{
			{IngredientID: "salt", Quantity: 5, UnitName: "g", Ingredient: salt},
			{IngredientID: "salt", Quantity: 3, UnitName: "g", Ingredient: salt},
		},
	}}

	items, _ := nutrition.BuildShoppingList(meals)
	if len(items) != 1 || len(items[0].Recipes) != 1 {
		t.Fatalf("expected one line with one provenance record, got %+v", items)
	}
	prov := items[0].Recipes[0]
	if prov.Quantity != 8 || items[0].TotalQuantity != 8 {
		t.Fatalf("expected 8 g, got provenance %v total %v", prov.Quantity, items[0].TotalQuantity)
	}
	if prov.Porciones != 4 {
		t.Fatalf("expected merged porciones 4, got %d", prov.Porciones)
	}
}

func TestZeroRecipePortionsTreatedAsOne(t *testing.T) {
	t.Parallel()
	recipe := models.Recipe{ID: "r", Name: "Odd", Porciones: intPtr(0)}
	meals := []nutrition.PlannedMeal{{EntryID: "e", Date: "2024-01-10", Porciones: 2, Recipe: recipe,
		Ingredients: []models.RecipeIngredient{{IngredientID: "rice", Quantity: 50, UnitName: "g", Ingredient: rice()}}}}
	items, _ := nutrition.BuildShoppingList(meals)
	if items[0].TotalQuantity != 100 {
		t.Fatalf("expected 100 g, got %v", items[0].TotalQuantity)
	}
}

func TestBuildShoppingListEmpty(t *testing.T) {
	t.Parallel()
	items, warnings := nutrition.BuildShoppingList(nil)
	if items == nil || len(items) != 0 || len(warnings) != 0 {
		t.Fatalf("expected empty list, got %v %v", items, warnings)
	}
}

func TestSavedListAggregatesLikeLive(t *testing.T) {
	t.Parallel()
	live, _ := nutrition.BuildShoppingList([]nutrition.PlannedMeal{
		planned("e1", "2024-01-10", 2),
		planned("e2", "2024-01-10", 2),
	})
	saved := nutrition.Aggregate(nutrition.SavedContributions(live))

	if len(saved) != len(live) {
		t.Fatalf("expected %d lines, got %d", len(live), len(saved))
	}
	for i := range live {
		if saved[i].TotalQuantity != live[i].TotalQuantity {
			t.Fatalf("line %d: %v != %v", i, saved[i].TotalQuantity, live[i].TotalQuantity)
		}
		if len(saved[i].Recipes) != len(live[i].Recipes) || saved[i].Recipes[0].Porciones != live[i].Recipes[0].Porciones {
			t.Fatalf("line %d: provenance changed from %+v to %+v", i, live[i].Recipes, saved[i].Recipes)
		}
	}
	if live[0].Recipes[0].Porciones != 4 {
		t.Fatalf("expected 4 portions, got %d", live[0].Recipes[0].Porciones)
	}
}

func TestItemEquivalencesUseOverride(t *testing.T) {
	t.Parallel()
	q, unit := 4.0, "tbsp"
	item := &models.ShoppingListItem{Ingredient: *oil(), TotalQuantity: 30}

	eqs := nutrition.ItemEquivalences(item)
	if eqs[0].Quantity != 30 || eqs[1].Quantity != 2 {
		t.Fatalf("expected 30 ml / 2 tbsp, got %+v", eqs)
	}

	item.CustomQuantity, item.CustomUnit = &q, &unit
	eqs = nutrition.ItemEquivalences(item)
	if eqs[0].Unit != "ml" || eqs[0].Quantity != 60 {
		t.Fatalf("expected override converted to 60 ml, got %+v", eqs[0])
	}
	if eqs[2].Unit != "tsp" || eqs[2].Quantity != 12 {
		t.Fatalf("expected 12 tsp, got %+v", eqs[2])
	}
	if item.TotalQuantity != 30 {
		t.Fatalf("override must not replace the total, got %v", item.TotalQuantity)
	}
}

func TestFilterAndGroupByTags(t *testing.T) {
	t.Parallel()
	plain := models.Ingredient{ID: "salt", Name: "Salt", BaseUnit: "g", BaseQuantity: 100}
	items := []*models.ShoppingListItem{
		{Ingredient: *rice()},
		{Ingredient: *oil()},
		{Ingredient: plain},
	}

	filtered := nutrition.FilterByTags(items, []string{"Condiment", "Fruit"})
	if len(filtered) != 1 || filtered[0].Ingredient.ID != "oil" {
		t.Fatalf("expected only oil, got %+v", filtered)
	}
	if got := nutrition.FilterByTags(items, nil); len(got) != 3 {
		t.Fatalf("expected no filtering without tags, got %d", len(got))
	}

	groups := nutrition.GroupByTags(items)
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	want := []string{"Cereal", "Oil", "Condiment", nutrition.UncategorizedGroup}
	if len(names) != len(want) {
		t.Fatalf("expected groups %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected groups %v, got %v", want, names)
		}
	}
}
