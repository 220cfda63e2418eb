package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/repository"
)

var _ repository.GoalRepository = (*DB)(nil)

// AddUserGoal inserts the first goal. The goal table holds one row, so a
// second add is rejected with apperror.ErrConflict instead of creating an
// ambiguous "current goal".
func (db *DB) AddUserGoal(ctx context.Context, goal *model.UserGoal) (string, error) {
	id := xid.New().String()
	now := time.Now()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_goals
			(id, slot, calorie_limit, sodium_limit, fat_limit, sugar_limit, protein_goal, updated_at)
		 VALUES (?, 1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO NOTHING`,
		id,
		goal.CalorieLimit,
		goal.SodiumLimit,
		goal.FatLimit,
		goal.SugarLimit,
		goal.ProteinGoal,
		now,
	)
	if err != nil {
		return "", apperror.WriteFailed("add user goal",
			fmt.Errorf("sqlite: inserting user goal: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", apperror.WriteFailed("add user goal",
			fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if n == 0 {
		return "", apperror.Conflict("user goal", "a goal already exists; edit it instead")
	}

	goal.ID = id
	goal.UpdatedAt = now
	return id, nil
}

// UserGoals returns every stored goal: zero or one record.
func (db *DB) UserGoals(ctx context.Context) ([]model.UserGoal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, calorie_limit, sodium_limit, fat_limit, sugar_limit, protein_goal, updated_at
		 FROM user_goals
		 ORDER BY slot`,
	)
	if err != nil {
		return nil, apperror.ReadFailed("read user goals",
			fmt.Errorf("sqlite: querying user goals: %w", err))
	}
	defer rows.Close()

	goals := make([]model.UserGoal, 0, 1)
	for rows.Next() {
		var g model.UserGoal
		if err := rows.Scan(
			&g.ID, &g.CalorieLimit, &g.SodiumLimit, &g.FatLimit,
			&g.SugarLimit, &g.ProteinGoal, &g.UpdatedAt,
		); err != nil {
			return nil, apperror.ReadFailed("read user goals",
				fmt.Errorf("sqlite: scanning user goal row: %w", err))
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.ReadFailed("read user goals",
			fmt.Errorf("sqlite: iterating user goals: %w", err))
	}

	return goals, nil
}

// EditUserGoal replaces every target of the goal with id. Fields left zero in
// goal are written as zero; nothing is merged from the previous record.
func (db *DB) EditUserGoal(ctx context.Context, id string, goal model.UserGoal) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE user_goals
		 SET calorie_limit = ?, sodium_limit = ?, fat_limit = ?, sugar_limit = ?, protein_goal = ?, updated_at = ?
		 WHERE id = ?`,
		goal.CalorieLimit,
		goal.SodiumLimit,
		goal.FatLimit,
		goal.SugarLimit,
		goal.ProteinGoal,
		time.Now(),
		id,
	)
	if err != nil {
		return apperror.WriteFailed("edit user goal",
			fmt.Errorf("sqlite: updating user goal %s: %w", id, err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return apperror.WriteFailed("edit user goal",
			fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("user goal", id)
	}

	return nil
}

// SaveUserGoal writes goal into the single goal slot: it inserts when the
// slot is empty and overwrites (keeping the existing id) otherwise.
func (db *DB) SaveUserGoal(ctx context.Context, goal *model.UserGoal) error {
	now := time.Now()

	var id string
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO user_goals
			(id, slot, calorie_limit, sodium_limit, fat_limit, sugar_limit, protein_goal, updated_at)
		 VALUES (?, 1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
			calorie_limit = excluded.calorie_limit,
			sodium_limit  = excluded.sodium_limit,
			fat_limit     = excluded.fat_limit,
			sugar_limit   = excluded.sugar_limit,
			protein_goal  = excluded.protein_goal,
			updated_at    = excluded.updated_at
		 RETURNING id`,
		xid.New().String(),
		goal.CalorieLimit,
		goal.SodiumLimit,
		goal.FatLimit,
		goal.SugarLimit,
		goal.ProteinGoal,
		now,
	).Scan(&id)
	if err != nil {
		return apperror.WriteFailed("save user goal",
			fmt.Errorf("sqlite: upserting user goal: %w", err))
	}

	goal.ID = id
	goal.UpdatedAt = now
	return nil
}
