// Package nutrition computes recipe nutrition, portion scaling and shopping
// list aggregation from already-fetched rows. Nothing in this package performs
// I/O, returns an error or panics: unresolvable input degrades to 0 or to
// pass-through and is reported as a Warning.
package nutrition

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/recetario/internal/models"
)

var half = decimal.NewFromFloat(0.5)

// RoundHalfUp rounds v to places decimals, with ties going towards +Inf.
// NaN and infinite values round to 0.
func RoundHalfUp(v float64, places int32) float64 {
	v = finite(v)
	return decimal.NewFromFloat(v).Shift(places).Add(half).Floor().Shift(-places).InexactFloat64()
}

// Round rounds every nutrient to the nearest integer for presentation.
// Aggregation and scaling must keep working on the unrounded values.
func Round(n models.Nutrition) models.Nutrition {
	return models.Nutrition{
		Calories: RoundHalfUp(n.Calories, 0),
		Protein:  RoundHalfUp(n.Protein, 0),
		Carbs:    RoundHalfUp(n.Carbs, 0),
		Fat:      RoundHalfUp(n.Fat, 0),
		Fiber:    RoundHalfUp(n.Fiber, 0),
		Sugar:    RoundHalfUp(n.Sugar, 0),
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
