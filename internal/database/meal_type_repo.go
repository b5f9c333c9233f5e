package database

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/foxxcyber/recetario/internal/models"
)

var ErrMealTypeNotFound = errors.New("meal type not found")

// ListMealTypes returns meal types in display order
func (db *DB) ListMealTypes(ctx context.Context) ([]models.MealType, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, "order" FROM meal_types ORDER BY "order" ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []models.MealType{}
	for rows.Next() {
		var mt models.MealType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.Order); err != nil {
			return nil, err
		}
		types = append(types, mt)
	}
	return types, rows.Err()
}

// CreateMealType appends a meal type after the existing ones
func (db *DB) CreateMealType(ctx context.Context, name string) (*models.MealType, error) {
	mt := &models.MealType{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO meal_types (id, name, "order")
		VALUES ($1, $2, (SELECT COALESCE(MAX("order") + 1, 0) FROM meal_types))
		RETURNING id, name, "order"
	`, uuid.NewString(), name).Scan(&mt.ID, &mt.Name, &mt.Order)
	if err != nil {
		return nil, err
	}
	return mt, nil
}

// ReorderMealTypes assigns each listed meal type its position in ids
func (db *DB) ReorderMealTypes(ctx context.Context, ids []string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		result, err := tx.Exec(ctx, `UPDATE meal_types SET "order" = $2 WHERE id = $1`, id, i)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrMealTypeNotFound
		}
	}
	return tx.Commit(ctx)
}

// DeleteMealType deletes a meal type together with its planned entries
func (db *DB) DeleteMealType(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM meal_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMealTypeNotFound
	}
	return nil
}
