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

var _ repository.FoodLogRepository = (*DB)(nil)

// AddFoodEntry stores entry under date with a new xid.
//
// xids are unique even for inserts within the same millisecond, and sort by
// creation time. Macros are stored as given; the store never rescales them.
func (db *DB) AddFoodEntry(ctx context.Context, date string, entry *model.FoodLogEntry) (string, error) {
	entry.ID = xid.New().String()
	entry.Date = date
	entry.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO food_entries
			(id, date, food_id, food_name, servings, calories, fat, protein, sodium, sugar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Date,
		entry.FoodID,
		entry.FoodName,
		entry.Servings,
		entry.Macros.Calories.Float(),
		entry.Macros.Fat.Float(),
		entry.Macros.Protein.Float(),
		entry.Macros.Sodium.Float(),
		entry.Macros.Sugar.Float(),
		entry.CreatedAt,
	)
	if err != nil {
		return "", apperror.WriteFailed("add food entry",
			fmt.Errorf("sqlite: inserting food entry on %s: %w", date, err))
	}

	return entry.ID, nil
}

// DeleteFoodEntry removes the entry with id. A missing id is a no-op.
func (db *DB) DeleteFoodEntry(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM food_entries WHERE id = ?`, id)
	if err != nil {
		return apperror.WriteFailed("delete food entry",
			fmt.Errorf("sqlite: deleting food entry %s: %w", id, err))
	}
	return nil
}

// FoodEntriesForDate reads the entries for one day through the date index,
// oldest first.
func (db *DB) FoodEntriesForDate(ctx context.Context, date string) ([]model.FoodLogEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, date, food_id, food_name, servings, calories, fat, protein, sodium, sugar, created_at
		 FROM food_entries
		 WHERE date = ?
		 ORDER BY rowid`,
		date,
	)
	if err != nil {
		return nil, apperror.ReadFailed("list food entries",
			fmt.Errorf("sqlite: querying food entries for %s: %w", date, err))
	}
	defer rows.Close()

	entries := make([]model.FoodLogEntry, 0)
	for rows.Next() {
		var (
			e                                     model.FoodLogEntry
			calories, fat, protein, sodium, sugar float64
		)
		if err := rows.Scan(
			&e.ID, &e.Date, &e.FoodID, &e.FoodName, &e.Servings,
			&calories, &fat, &protein, &sodium, &sugar,
			&e.CreatedAt,
		); err != nil {
			return nil, apperror.ReadFailed("list food entries",
				fmt.Errorf("sqlite: scanning food entry row: %w", err))
		}
		e.Macros = model.Macros{
			Calories: model.Quantity(calories),
			Fat:      model.Quantity(fat),
			Protein:  model.Quantity(protein),
			Sodium:   model.Quantity(sodium),
			Sugar:    model.Quantity(sugar),
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.ReadFailed("list food entries",
			fmt.Errorf("sqlite: iterating food entries: %w", err))
	}

	return entries, nil
}
