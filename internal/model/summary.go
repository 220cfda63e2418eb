package model

// GoalProgress holds whole-number percentages of each target reached.
type GoalProgress struct {
	Calories int `json:"calories"`
	Sodium   int `json:"sodium"`
	Fat      int `json:"fat"`
	Sugar    int `json:"sugar"`
	Protein  int `json:"protein"`
}

// DaySummary is everything the journal shows for one calendar day.
// It is derived on every read and never stored.
type DaySummary struct {
	Date          string         `json:"date"`
	Entries       []FoodLogEntry `json:"entries"`
	Totals        Macros         `json:"totals"`
	Goal          UserGoal       `json:"goal"`
	GoalIsDefault bool           `json:"goalIsDefault"`
	Progress      GoalProgress   `json:"progress"`
}
