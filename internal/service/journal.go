// Package service contains the journal's business rules.
//
// LAYERS:
//
//	Handler / CLI command → Service (validate, orchestrate, log) → Repository (SQLite)
//	                                 ↘ nutrition (pure aggregation)
//	                                 ↘ fatsecret (search provider)
//
// Services accept plain values and return apperror values; they know nothing
// about HTTP or terminals, so the server and the CLI share every rule here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/nutrition"
	"github.com/sakif/food-journal/internal/repository"
)

// Input limits for log entries and goals.
const (
	// MaxFoodNameLength is the longest food name accepted, in characters.
	MaxFoodNameLength = 200
	// MaxServings is the largest servings count a single entry may carry.
	MaxServings = 1000
	// MaxNutrientAmount bounds every macro of an entry and every goal target.
	MaxNutrientAmount = 1_000_000
)

// JournalService owns the food log and the goal profile.
type JournalService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewJournalService returns a JournalService over store.
func NewJournalService(store repository.Store, logger *slog.Logger) *JournalService {
	return &JournalService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Today returns the current local calendar date as YYYY-MM-DD.
func (s *JournalService) Today() string {
	return s.now().Format(model.DateLayout)
}

// LogFood validates entry and appends it to the log for date.
// entry.Macros are the totals for entry.Servings, not per serving.
func (s *JournalService) LogFood(ctx context.Context, date string, entry model.FoodLogEntry) (*model.FoodLogEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entry.FoodName = strings.TrimSpace(entry.FoodName)
	entry.FoodID = strings.TrimSpace(entry.FoodID)
	if entry.FoodName == "" {
		return nil, apperror.ValidationFailed("food_name", "food name is required")
	}
	if utf8.RuneCountInString(entry.FoodName) > MaxFoodNameLength {
		return nil, apperror.ValidationFailed("food_name",
			fmt.Sprintf("food name must be %d characters or less", MaxFoodNameLength))
	}
	if err := validateServings(entry.Servings); err != nil {
		return nil, err
	}
	if err := validateMacros(entry.Macros); err != nil {
		return nil, err
	}

	if _, err := s.store.AddFoodEntry(ctx, date, &entry); err != nil {
		s.logger.Error("failed to log food",
			slog.String("date", date),
			slog.String("food", entry.FoodName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging food: %w", err)
	}

	s.logger.Info("food logged",
		slog.String("id", entry.ID),
		slog.String("date", date),
		slog.String("food", entry.FoodName),
	)
	return &entry, nil
}

// RemoveFood deletes a log entry. Removing an entry that does not exist
// succeeds.
func (s *JournalService) RemoveFood(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "entry ID is required")
	}

	if err := s.store.DeleteFoodEntry(ctx, id); err != nil {
		s.logger.Error("failed to remove food",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("removing food: %w", err)
	}

	s.logger.Info("food removed", slog.String("id", id))
	return nil
}

// EntriesForDate lists the entries logged on date, oldest first.
func (s *JournalService) EntriesForDate(ctx context.Context, date string) ([]model.FoodLogEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entries, err := s.store.FoodEntriesForDate(ctx, date)
	if err != nil {
		s.logger.Error("failed to load entries",
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading entries for %s: %w", date, err)
	}
	return entries, nil
}

// CurrentGoal returns the stored goal, or the defaults when none has been
// saved. isDefault reports the latter. The defaults are never written.
func (s *JournalService) CurrentGoal(ctx context.Context) (goal model.UserGoal, isDefault bool, err error) {
	goals, err := s.store.UserGoals(ctx)
	if err != nil {
		s.logger.Error("failed to load goal", slog.String("error", err.Error()))
		return model.UserGoal{}, false, fmt.Errorf("loading goal: %w", err)
	}
	if len(goals) == 0 {
		return model.DefaultGoal(), true, nil
	}
	return goals[0].WithDefaults(), false, nil
}

// Goals returns every stored goal record (zero or one).
func (s *JournalService) Goals(ctx context.Context) ([]model.UserGoal, error) {
	goals, err := s.store.UserGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return goals, nil
}

// SaveGoal creates the goal or overwrites the existing one.
func (s *JournalService) SaveGoal(ctx context.Context, goal model.UserGoal) (*model.UserGoal, error) {
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	goal.ID = ""
	if err := s.store.SaveUserGoal(ctx, &goal); err != nil {
		s.logger.Error("failed to save goal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("saving goal: %w", err)
	}

	s.logger.Info("goal saved", slog.String("id", goal.ID))
	return &goal, nil
}

// AddGoal creates the goal; it fails with apperror.ErrConflict when one
// already exists.
func (s *JournalService) AddGoal(ctx context.Context, goal model.UserGoal) (*model.UserGoal, error) {
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if _, err := s.store.AddUserGoal(ctx, &goal); err != nil {
		return nil, fmt.Errorf("adding goal: %w", err)
	}

	s.logger.Info("goal added", slog.String("id", goal.ID))
	return &goal, nil
}

// EditGoal overwrites every target of the goal with the given id.
func (s *JournalService) EditGoal(ctx context.Context, id string, goal model.UserGoal) (*model.UserGoal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "goal ID is required")
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.store.EditUserGoal(ctx, id, goal); err != nil {
		return nil, fmt.Errorf("editing goal: %w", err)
	}

	goal.ID = id
	s.logger.Info("goal edited", slog.String("id", id))
	return &goal, nil
}

// Summary recomputes the day's totals and goal progress from the store.
// Nothing about a summary is cached between calls.
func (s *JournalService) Summary(ctx context.Context, date string) (*model.DaySummary, error) {
	entries, err := s.EntriesForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	goal, isDefault, err := s.CurrentGoal(ctx)
	if err != nil {
		return nil, err
	}

	totals := nutrition.SumMacros(entries)
	return &model.DaySummary{
		Date:          date,
		Entries:       entries,
		Totals:        totals,
		Goal:          goal,
		GoalIsDefault: isDefault,
		Progress:      nutrition.Progress(totals, goal),
	}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return apperror.ValidationFailed("date", "date must be in YYYY-MM-DD format")
	}
	return nil
}

func validateServings(servings float64) error {
	if !(servings > 0) || servings > MaxServings {
		return apperror.ValidationFailed("servings",
			fmt.Sprintf("servings must be greater than 0 and at most %d", MaxServings))
	}
	return nil
}

func validateMacros(m model.Macros) error {
	fields := []struct {
		name  string
		value model.Quantity
	}{
		{"calories", m.Calories},
		{"fat", m.Fat},
		{"protein", m.Protein},
		{"sodium", m.Sodium},
		{"sugar", m.Sugar},
	}
	for _, f := range fields {
		v := f.value.Float()
		if !(v >= 0) || v > MaxNutrientAmount {
			return apperror.ValidationFailed(f.name,
				fmt.Sprintf("%s must be between 0 and %d", f.name, MaxNutrientAmount))
		}
	}
	return nil
}

func validateGoal(g model.UserGoal) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calorieLimit", g.CalorieLimit},
		{"sodiumLimit", g.SodiumLimit},
		{"fatLimit", g.FatLimit},
		{"sugarLimit", g.SugarLimit},
		{"proteinGoal", g.ProteinGoal},
	}
	for _, f := range fields {
		if !(f.value > 0) || f.value > MaxNutrientAmount {
			return apperror.ValidationFailed(f.name,
				fmt.Sprintf("%s must be greater than 0 and at most %d", f.name, MaxNutrientAmount))
		}
	}
	return nil
}
