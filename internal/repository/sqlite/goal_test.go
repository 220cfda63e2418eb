package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/model"
)

func sampleGoal() *model.UserGoal {
	return &model.UserGoal{
		CalorieLimit: 2000,
		SodiumLimit:  1500,
		FatLimit:     70,
		SugarLimit:   25,
		ProteinGoal:  120,
	}
}

func TestUserGoals_EmptyStore(t *testing.T) {
	db := newTestDB(t)

	goals, err := db.UserGoals(context.Background())
	if err != nil {
		t.Fatalf("UserGoals() error = %v", err)
	}
	if goals == nil || len(goals) != 0 {
		t.Errorf("UserGoals() = %v, want empty non-nil slice", goals)
	}
}

func TestAddUserGoal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	goal := sampleGoal()
	id, err := db.AddUserGoal(ctx, goal)
	if err != nil {
		t.Fatalf("AddUserGoal() error = %v", err)
	}
	if id == "" || goal.ID != id {
		t.Fatalf("AddUserGoal() id = %q, goal.ID = %q", id, goal.ID)
	}

	goals, err := db.UserGoals(ctx)
	if err != nil {
		t.Fatalf("UserGoals() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if goals[0].ID != id || goals[0].CalorieLimit != 2000 || goals[0].ProteinGoal != 120 {
		t.Errorf("stored goal = %+v", goals[0])
	}
}

func TestAddUserGoal_SecondAddConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.AddUserGoal(ctx, sampleGoal()); err != nil {
		t.Fatalf("first AddUserGoal() error = %v", err)
	}

	_, err := db.AddUserGoal(ctx, sampleGoal())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second AddUserGoal() error = %v, want ErrConflict", err)
	}

	goals, _ := db.UserGoals(ctx)
	if len(goals) != 1 {
		t.Errorf("got %d goals after conflicting add, want 1", len(goals))
	}
}

func TestEditUserGoal_FullOverwrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.AddUserGoal(ctx, sampleGoal())
	if err != nil {
		t.Fatalf("AddUserGoal() error = %v", err)
	}

	// Only two targets given: the other three must not survive from before.
	updated := model.UserGoal{CalorieLimit: 1800, ProteinGoal: 90}
	if err := db.EditUserGoal(ctx, id, updated); err != nil {
		t.Fatalf("EditUserGoal() error = %v", err)
	}

	goals, err := db.UserGoals(ctx)
	if err != nil {
		t.Fatalf("UserGoals() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}

	got := goals[0]
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if got.CalorieLimit != 1800 || got.ProteinGoal != 90 {
		t.Errorf("edited targets = %+v", got)
	}
	if got.SodiumLimit != 0 || got.FatLimit != 0 || got.SugarLimit != 0 {
		t.Errorf("fields merged from previous record: %+v", got)
	}
}

func TestEditUserGoal_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.EditUserGoal(context.Background(), "missing", *sampleGoal())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("EditUserGoal() error = %v, want ErrNotFound", err)
	}
}

func TestSaveUserGoal_UpsertKeepsSingleRecord(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := sampleGoal()
	if err := db.SaveUserGoal(ctx, first); err != nil {
		t.Fatalf("first SaveUserGoal() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("SaveUserGoal() did not set ID")
	}

	second := &model.UserGoal{CalorieLimit: 3000, SodiumLimit: 2000, FatLimit: 80, SugarLimit: 40, ProteinGoal: 150}
	if err := db.SaveUserGoal(ctx, second); err != nil {
		t.Fatalf("second SaveUserGoal() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed id: %q -> %q", first.ID, second.ID)
	}

	goals, err := db.UserGoals(ctx)
	if err != nil {
		t.Fatalf("UserGoals() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if goals[0].CalorieLimit != 3000 || goals[0].ProteinGoal != 150 {
		t.Errorf("stored goal = %+v, want the second save", goals[0])
	}
}

func TestSaveUserGoal_AfterAdd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.AddUserGoal(ctx, sampleGoal())
	if err != nil {
		t.Fatalf("AddUserGoal() error = %v", err)
	}

	g := &model.UserGoal{CalorieLimit: 2200, SodiumLimit: 2300, FatLimit: 60, SugarLimit: 36, ProteinGoal: 50}
	if err := db.SaveUserGoal(ctx, g); err != nil {
		t.Fatalf("SaveUserGoal() error = %v", err)
	}
	if g.ID != id {
		t.Errorf("SaveUserGoal() ID = %q, want existing %q", g.ID, id)
	}
}
