// Package repository declares the persistent-store contracts. The sqlite
// subpackage is the only production implementation.
package repository

import (
	"context"

	"github.com/sakif/food-journal/internal/model"
)

// FoodLogRepository stores food-log entries keyed by calendar date.
type FoodLogRepository interface {
	// AddFoodEntry assigns a fresh id, persists {id, date, ...entry} and
	// returns the id. entry.ID and entry.Date are set on return.
	AddFoodEntry(ctx context.Context, date string, entry *model.FoodLogEntry) (string, error)
	// DeleteFoodEntry removes an entry; deleting a missing id is not an error.
	DeleteFoodEntry(ctx context.Context, id string) error
	// FoodEntriesForDate returns the entries for date in insertion order.
	// It never returns a nil slice.
	FoodEntriesForDate(ctx context.Context, date string) ([]model.FoodLogEntry, error)
}

// GoalRepository stores the single user goal profile.
type GoalRepository interface {
	AddUserGoal(ctx context.Context, goal *model.UserGoal) (string, error)
	UserGoals(ctx context.Context) ([]model.UserGoal, error)
	// EditUserGoal overwrites every field of the goal with the given id.
	EditUserGoal(ctx context.Context, id string, goal model.UserGoal) error
	// SaveUserGoal inserts the goal or overwrites the existing one in a
	// single statement. goal.ID is set on return.
	SaveUserGoal(ctx context.Context, goal *model.UserGoal) error
}

// Store is everything the journal service needs from persistence.
type Store interface {
	FoodLogRepository
	GoalRepository
}
