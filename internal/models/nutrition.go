package models

// Nutrition holds the six tracked nutrient values. Every field is always
// present; NULL columns are coalesced to 0 when rows are scanned.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// Add returns the field-wise sum of n and o
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
	}
}

// Scale multiplies every field by factor
func (n Nutrition) Scale(factor float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Carbs:    n.Carbs * factor,
		Fat:      n.Fat * factor,
		Fiber:    n.Fiber * factor,
		Sugar:    n.Sugar * factor,
	}
}
