package model

import "time"

// Default daily targets used when the user has never saved a goal.
const (
	DefaultCalorieLimit = 2500
	DefaultSodiumLimit  = 2300
	DefaultFatLimit     = 60
	DefaultSugarLimit   = 36
	DefaultProteinGoal  = 50
)

// UserGoal is the user's single goal profile: four daily limits and one
// daily protein target.
type UserGoal struct {
	ID           string    `json:"id"`
	CalorieLimit float64   `json:"calorieLimit"`
	SodiumLimit  float64   `json:"sodiumLimit"`
	FatLimit     float64   `json:"fatLimit"`
	SugarLimit   float64   `json:"sugarLimit"`
	ProteinGoal  float64   `json:"proteinGoal"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultGoal returns the goal presented when none has been saved.
// It has no ID because it has not been persisted.
func DefaultGoal() UserGoal {
	return UserGoal{
		CalorieLimit: DefaultCalorieLimit,
		SodiumLimit:  DefaultSodiumLimit,
		FatLimit:     DefaultFatLimit,
		SugarLimit:   DefaultSugarLimit,
		ProteinGoal:  DefaultProteinGoal,
	}
}

// WithDefaults fills every unset (zero or negative) target with its default.
func (g UserGoal) WithDefaults() UserGoal {
	d := DefaultGoal()
	if g.CalorieLimit <= 0 {
		g.CalorieLimit = d.CalorieLimit
	}
	if g.SodiumLimit <= 0 {
		g.SodiumLimit = d.SodiumLimit
	}
	if g.FatLimit <= 0 {
		g.FatLimit = d.FatLimit
	}
	if g.SugarLimit <= 0 {
		g.SugarLimit = d.SugarLimit
	}
	if g.ProteinGoal <= 0 {
		g.ProteinGoal = d.ProteinGoal
	}
	return g
}
