package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

var listCSVHeader = []string{"ingredient", "quantity", "unit", "base_quantity", "base_unit", "purchased", "recipes"}

// ExportKey names the object a list export is stored under
func ExportKey(list *models.ShoppingList, at time.Time) string {
	return fmt.Sprintf("lists/%s/%s.csv", list.ID, at.Format("20060102T150405Z"))
}

// WriteListCSV writes one row per line with its display quantity, its base
// quantity and the recipes that contributed to it.
func WriteListCSV(w io.Writer, items []*models.ShoppingListItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(listCSVHeader); err != nil {
		return err
	}

	for _, it := range items {
		qty, unit := it.DisplayQuantity()
		names := make([]string, 0, len(it.Recipes))
		for _, p := range it.Recipes {
			names = append(names, fmt.Sprintf("%s (%s)", p.RecipeName, p.Date))
		}
		record := []string{
			it.Ingredient.Name,
			formatQuantity(qty),
			unit,
			formatQuantity(it.TotalQuantity),
			it.Ingredient.BaseUnit,
			strconv.FormatBool(it.Purchased),
			strings.Join(names, "; "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(nutrition.RoundHalfUp(v, 2), 'f', -1, 64)
}
