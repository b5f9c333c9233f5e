package models

// StandardUnit is an entry of the unit catalogue offered when choosing a base unit
type StandardUnit struct {
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Type         string   `json:"type"`   // weight, volume or unit
	System       string   `json:"system"` // metric, imperial or culinary
	Grams        *float64 `json:"grams,omitempty"`
	ML           *float64 `json:"ml,omitempty"`
}

func f64(v float64) *float64 { return &v }

// StandardUnits lists the base units the frontend offers
var StandardUnits = []StandardUnit{
	{Name: "gram", Abbreviation: "g", Type: "weight", System: "metric"},
	{Name: "kilogram", Abbreviation: "kg", Type: "weight", System: "metric"},
	{Name: "ounce", Abbreviation: "oz", Type: "weight", System: "imperial", Grams: f64(28.35)},
	{Name: "pound", Abbreviation: "lb", Type: "weight", System: "imperial", Grams: f64(453.59)},
	{Name: "milliliter", Abbreviation: "ml", Type: "volume", System: "metric"},
	{Name: "liter", Abbreviation: "l", Type: "volume", System: "metric"},
	{Name: "unit", Abbreviation: "u", Type: "unit", System: "metric"},
}
