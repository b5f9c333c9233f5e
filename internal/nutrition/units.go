package nutrition

import (
	"strconv"

	"github.com/foxxcyber/recetario/internal/models"
)

// Unit is a unit usable for an ingredient with its factor to the base unit
type Unit struct {
	Name             string  `json:"name"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// AvailableUnits returns the base unit (factor 1) followed by the declared equivalences
func AvailableUnits(ing *models.Ingredient) []Unit {
	units := make([]Unit, 0, len(ing.UnitEquivalences)+1)
	units = append(units, Unit{Name: ing.BaseUnit, ConversionFactor: 1})
	for _, ue := range ing.UnitEquivalences {
		units = append(units, Unit{Name: ue.UnitName, ConversionFactor: ue.ConversionFactor})
	}
	return units
}

// ResolveFactor returns how many base units one unit of name is worth.
// Unknown units resolve to 1 with ok set to false.
func ResolveFactor(name string, ing *models.Ingredient) (factor float64, ok bool) {
	for _, u := range AvailableUnits(ing) {
		if u.Name == name {
			return u.ConversionFactor, true
		}
	}
	return 1, false
}

// ConvertToBaseUnit converts quantity expressed in fromUnit into the
// ingredient's base unit. Unknown units pass the quantity through unchanged.
func ConvertToBaseUnit(quantity float64, fromUnit string, ing *models.Ingredient) float64 {
	if fromUnit == ing.BaseUnit {
		return quantity
	}
	for _, ue := range ing.UnitEquivalences {
		if ue.UnitName == fromUnit {
			return quantity * ue.ConversionFactor
		}
	}
	return quantity
}

// ListEquivalences expresses a base-unit quantity in the base unit and in
// every declared equivalence, rounded half-up to 2 decimals for display.
func ListEquivalences(ing *models.Ingredient, quantityInBase float64) []models.Equivalence {
	out := make([]models.Equivalence, 0, len(ing.UnitEquivalences)+1)
	out = append(out, models.Equivalence{
		Unit:     ing.BaseUnit,
		Quantity: RoundHalfUp(quantityInBase, 2),
	})
	for _, ue := range ing.UnitEquivalences {
		q := 0.0
		if ue.ConversionFactor > 0 {
			q = quantityInBase / ue.ConversionFactor
		}
		out = append(out, models.Equivalence{
			Unit:     ue.UnitName,
			Quantity: RoundHalfUp(q, 2),
		})
	}
	return out
}

// ConversionText describes a recipe row in base units, e.g. "(30 ml)".
// Rows already in the base unit, or in an unknown unit, get no text.
func ConversionText(row *models.RecipeIngredient) string {
	ing := row.Ingredient
	if ing == nil || row.UnitName == ing.BaseUnit {
		return ""
	}
	factor, ok := ResolveFactor(row.UnitName, ing)
	if !ok {
		return ""
	}
	q := RoundHalfUp(row.Quantity*factor, 2)
	return "(" + strconv.FormatFloat(q, 'f', -1, 64) + " " + ing.BaseUnit + ")"
}
