package models

import (
	"time"
)

// ShoppingList is a saved snapshot of an aggregated shopping list
type ShoppingList struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	OriginalListID *string   `json:"original_list_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Editable reports whether overrides and purchased toggles are allowed.
// Only copies of a saved list can be edited.
func (l *ShoppingList) Editable() bool {
	return l.OriginalListID != nil
}

// ShoppingListSummary is a compact representation for list views
type ShoppingListSummary struct {
	ShoppingList
	ItemCount      int `json:"item_count"`
	PurchasedCount int `json:"purchased_count"`
}

// Provenance records what a recipe contributed to a shopping list line
type Provenance struct {
	RecipeID   string  `json:"id"`
	RecipeName string  `json:"name"`
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit_name"`
	Porciones  int     `json:"porciones"`
}

// Equivalence is a display quantity of a line expressed in one unit
type Equivalence struct {
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// ShoppingListItem is one aggregated ingredient line. TotalQuantity is always
// in the ingredient's base unit; CustomQuantity and CustomUnit are a parallel
// user override that never replaces it.
type ShoppingListItem struct {
	Ingredient     Ingredient    `json:"ingredient"`
	TotalQuantity  float64       `json:"totalQuantity"`
	CustomQuantity *float64      `json:"customQuantity,omitempty"`
	CustomUnit     *string       `json:"customUnit,omitempty"`
	Purchased      bool          `json:"purchased"`
	Recipes        []Provenance  `json:"recipes"`
	Equivalences   []Equivalence `json:"equivalences"`
}

// DisplayQuantity returns the quantity and unit shown to the user
func (i *ShoppingListItem) DisplayQuantity() (float64, string) {
	if i.CustomQuantity != nil && i.CustomUnit != nil {
		return *i.CustomQuantity, *i.CustomUnit
	}
	return i.TotalQuantity, i.Ingredient.BaseUnit
}

// AggregatedList is a computed list, live or loaded from a snapshot
type AggregatedList struct {
	List      *ShoppingList       `json:"list,omitempty"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Items     []*ShoppingListItem `json:"items"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// ShoppingListGroup is a named group of lines, used when grouping by tag
type ShoppingListGroup struct {
	Name  string              `json:"name"`
	Items []*ShoppingListItem `json:"items"`
}

// SaveListRequest snapshots the live list of a date range
type SaveListRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// UpdateListItemRequest sets the manual override of a line
type UpdateListItemRequest struct {
	CustomQuantity float64 `json:"customQuantity"`
	CustomUnit     string  `json:"customUnit"`
}

// ListExport describes an exported list object
type ListExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GroupedList is an aggregated list with its lines grouped by ingredient tag
type GroupedList struct {
	List      *ShoppingList       `json:"list,omitempty"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Groups    []ShoppingListGroup `json:"groups"`
	Warnings  []string            `json:"warnings,omitempty"`
}
