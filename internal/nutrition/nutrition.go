// Package nutrition derives display metrics from log entries and goals.
// Everything here is a pure function of its arguments.
package nutrition

import (
	"math"

	"github.com/sakif/food-journal/internal/model"
)

// maxExact is the magnitude beyond which a float64 has no fractional digits
// left to round.
const maxExact = 1 << 52

// Round2 rounds x to two decimal places. Values too large to carry decimals
// are returned unchanged.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.Abs(x) >= maxExact {
		return x
	}
	return math.Round(x*100) / 100
}

// SumMacros adds up the macros of every entry. Each total is rounded to two
// decimals; the result does not depend on entry order beyond float rounding
// below that precision.
func SumMacros(entries []model.FoodLogEntry) model.Macros {
	var calories, fat, protein, sodium, sugar float64
	for _, e := range entries {
		calories += finite(e.Macros.Calories.Float())
		fat += finite(e.Macros.Fat.Float())
		protein += finite(e.Macros.Protein.Float())
		sodium += finite(e.Macros.Sodium.Float())
		sugar += finite(e.Macros.Sugar.Float())
	}

	total := func(x float64) model.Quantity {
		return model.Quantity(Round2(math.Min(x, math.MaxFloat64)))
	}
	return model.Macros{
		Calories: total(calories),
		Fat:      total(fat),
		Protein:  total(protein),
		Sodium:   total(sodium),
		Sugar:    total(sugar),
	}
}

// PercentOfGoal returns value as a whole-number percentage of limit.
// A limit that is zero, negative or NaN yields 0. The result saturates at
// math.MaxInt32.
func PercentOfGoal(value, limit float64) int {
	if !(limit > 0) || math.IsInf(limit, 0) {
		return 0
	}
	p := math.Round(value / limit * 100)
	switch {
	case math.IsNaN(p):
		return 0
	case p >= math.MaxInt32:
		return math.MaxInt32
	case p <= math.MinInt32:
		return math.MinInt32
	}
	return int(p)
}

// Progress computes the percentage of every target reached by totals.
func Progress(totals model.Macros, goal model.UserGoal) model.GoalProgress {
	return model.GoalProgress{
		Calories: PercentOfGoal(totals.Calories.Float(), goal.CalorieLimit),
		Sodium:   PercentOfGoal(totals.Sodium.Float(), goal.SodiumLimit),
		Fat:      PercentOfGoal(totals.Fat.Float(), goal.FatLimit),
		Sugar:    PercentOfGoal(totals.Sugar.Float(), goal.SugarLimit),
		Protein:  PercentOfGoal(totals.Protein.Float(), goal.ProteinGoal),
	}
}

// ScaleServing multiplies a provider serving by servings and rounds each
// nutrient to two decimals. Missing or unparsable provider values count as 0.
func ScaleServing(serving model.ServingInfo, servings float64) model.Macros {
	scale := func(s string) model.Quantity {
		return model.Quantity(Round2(model.ParseQuantity(s).Float() * servings))
	}
	return model.Macros{
		Calories: scale(serving.Calories),
		Fat:      scale(serving.Fat),
		Protein:  scale(serving.Protein),
		Sodium:   scale(serving.Sodium),
		Sugar:    scale(serving.Sugar),
	}
}

// ScaleMacros multiplies per-serving macros by servings, rounding each value
// to two decimals.
func ScaleMacros(perServing model.Macros, servings float64) model.Macros {
	scale := func(q model.Quantity) model.Quantity {
		return model.Quantity(Round2(finite(q.Float()) * servings))
	}
	return model.Macros{
		Calories: scale(perServing.Calories),
		Fat:      scale(perServing.Fat),
		Protein:  scale(perServing.Protein),
		Sodium:   scale(perServing.Sodium),
		Sugar:    scale(perServing.Sugar),
	}
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
