package models

// MacroShare compares the actual share of a macronutrient with its recommended share
type MacroShare struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Actual int    `json:"actual"`
	Target int    `json:"target"`
	Color  string `json:"color"`
}

// NutrientProgress compares a day's intake of one nutrient with a person's target
type NutrientProgress struct {
	Nutrient   string  `json:"nutrient"`
	Actual     float64 `json:"actual"`
	Target     float64 `json:"target"`
	Percentage int     `json:"percentage"`
}

// PersonProgress holds a person's progress for each tracked nutrient
type PersonProgress struct {
	PersonID   string             `json:"person_id"`
	PersonName string             `json:"person_name"`
	Nutrients  []NutrientProgress `json:"nutrients"`
}

// DailyPlan is the planned intake of a single day
type DailyPlan struct {
	Date              string                `json:"date"`
	Meals             []MealPlanEntryDetail `json:"meals"`
	Totals            Nutrition             `json:"totals"`
	RoundedTotals     Nutrition             `json:"rounded_totals"`
	MacroDistribution []MacroShare          `json:"macro_distribution"`
	Progress          []PersonProgress      `json:"progress"`
}
