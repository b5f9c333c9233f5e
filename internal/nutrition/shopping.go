package nutrition

import (
	"fmt"

	"github.com/foxxcyber/recetario/internal/models"
)

// UncategorizedGroup collects lines whose ingredient has no tags
const UncategorizedGroup = "Uncategorized"

// PlannedMeal is a meal-plan entry with its recipe rows already fetched
type PlannedMeal struct {
	EntryID     string
	Date        string
	MealType    string
	Porciones   int
	Recipe      models.Recipe
	Ingredients []models.RecipeIngredient
}

// Contribution is one quantity, in base units, added to a shopping line.
// Live lists produce one per recipe row and planned meal; saved lists produce
// one per stored item.
type Contribution struct {
	Ingredient     models.Ingredient
	Quantity       float64
	Recipes        []models.Provenance
	CustomQuantity *float64
	CustomUnit     *string
	Purchased      bool
}

// LiveContributions expands planned meals into per-row base-unit quantities,
// scaled from the recipe's yield to the planned portions.
func LiveContributions(meals []PlannedMeal) ([]Contribution, []Warning) {
	var (
		out      []Contribution
		warnings []Warning
	)
	for _, m := range meals {
		base := ResolveBasePortions(nil, m.Recipe.Porciones)
		for i := range m.Ingredients {
			row := &m.Ingredients[i]
			if row.Ingredient == nil {
				warnings = append(warnings, Warning{
					Code:         WarnMissingIngredient,
					IngredientID: row.IngredientID,
					Message:      fmt.Sprintf("%s uses a missing ingredient %s; it was left out", m.Recipe.Name, row.IngredientID),
				})
				continue
			}
			ing := row.Ingredient
			if _, ok := ResolveFactor(row.UnitName, ing); !ok {
				warnings = append(warnings, Warning{
					Code:         WarnUnknownUnit,
					IngredientID: ing.ID,
					Message:      fmt.Sprintf("unit %q is not defined for %s; treated as %s", row.UnitName, ing.Name, ing.BaseUnit),
				})
			}

			planned := row.Quantity / float64(base) * float64(m.Porciones)
			inBase := finite(ConvertToBaseUnit(planned, row.UnitName, ing))
			out = append(out, Contribution{
				Ingredient: *ing,
				Quantity:   inBase,
				Recipes: []models.Provenance{{
					RecipeID:   m.Recipe.ID,
					RecipeName: m.Recipe.Name,
					Date:       m.Date,
					MealType:   m.MealType,
					Quantity:   inBase,
					Unit:       ing.BaseUnit,
					Porciones:  m.Porciones,
				}},
			})
		}
	}
	return out, warnings
}

// SavedContributions turns stored list items back into contributions so that
// saved lists go through the same aggregation as live ones.
func SavedContributions(items []*models.ShoppingListItem) []Contribution {
	out := make([]Contribution, 0, len(items))
	for _, it := range items {
		out = append(out, Contribution{
			Ingredient:     it.Ingredient,
			Quantity:       it.TotalQuantity,
			Recipes:        it.Recipes,
			CustomQuantity: it.CustomQuantity,
			CustomUnit:     it.CustomUnit,
			Purchased:      it.Purchased,
		})
	}
	return out
}

type provenanceKey struct {
	recipeID string
	date     string
}

// Aggregate merges contributions by ingredient ID in first-seen order. Within
// a line, provenance records sharing (recipe, date) are merged by summing
// quantity and portions.
func Aggregate(contribs []Contribution) []*models.ShoppingListItem {
	var items []*models.ShoppingListItem
	byIngredient := make(map[string]*models.ShoppingListItem)
	provIndex := make(map[string]map[provenanceKey]int)

	for _, c := range contribs {
		id := c.Ingredient.ID
		item, ok := byIngredient[id]
		if !ok {
			item = &models.ShoppingListItem{
				Ingredient: c.Ingredient,
				Recipes:    []models.Provenance{},
			}
			byIngredient[id] = item
			provIndex[id] = make(map[provenanceKey]int)
			items = append(items, item)
		}

		item.TotalQuantity += c.Quantity
		if c.CustomQuantity != nil {
			item.CustomQuantity = c.CustomQuantity
			item.CustomUnit = c.CustomUnit
		}
		item.Purchased = item.Purchased || c.Purchased

		for _, p := range c.Recipes {
			key := provenanceKey{recipeID: p.RecipeID, date: p.Date}
			if idx, seen := provIndex[id][key]; seen {
				existing := &item.Recipes[idx]
				existing.Quantity += p.Quantity
				existing.Porciones += p.Porciones
				continue
			}
			provIndex[id][key] = len(item.Recipes)
			item.Recipes = append(item.Recipes, p)
		}
	}

	for _, item := range items {
		item.Equivalences = ItemEquivalences(item)
	}
	return items
}

// BuildShoppingList aggregates the ingredients of every planned meal into one
// line per ingredient, with totals in base units.
func BuildShoppingList(meals []PlannedMeal) ([]*models.ShoppingListItem, []Warning) {
	contribs, warnings := LiveContributions(meals)
	items := Aggregate(contribs)
	if items == nil {
		items = []*models.ShoppingListItem{}
	}
	return items, warnings
}

// ItemEquivalences lists a line's active quantity in every unit of its
// ingredient. An override in another unit is converted to base units first.
func ItemEquivalences(item *models.ShoppingListItem) []models.Equivalence {
	inBase := item.TotalQuantity
	if item.CustomQuantity != nil {
		inBase = *item.CustomQuantity
		if item.CustomUnit != nil {
			inBase = ConvertToBaseUnit(inBase, *item.CustomUnit, &item.Ingredient)
		}
	}
	return ListEquivalences(&item.Ingredient, inBase)
}

// FilterByTags keeps lines whose ingredient has at least one of tags.
// An empty tag set keeps every line.
func FilterByTags(items []*models.ShoppingListItem, tags []string) []*models.ShoppingListItem {
	if len(tags) == 0 {
		return items
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	out := make([]*models.ShoppingListItem, 0, len(items))
	for _, it := range items {
		for _, t := range it.Ingredient.Tags {
			if want[t] {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// GroupByTags buckets lines under each of their ingredient's tags, in order of
// first appearance. A line with several tags appears in each of their groups.
func GroupByTags(items []*models.ShoppingListItem) []models.ShoppingListGroup {
	var groups []models.ShoppingListGroup
	index := make(map[string]int)
	add := func(name string, it *models.ShoppingListItem) {
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, models.ShoppingListGroup{Name: name})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	for _, it := range items {
		if len(it.Ingredient.Tags) == 0 {
			add(UncategorizedGroup, it)
			continue
		}
		for _, t := range it.Ingredient.Tags {
			add(t, it)
		}
	}
	return groups
}
