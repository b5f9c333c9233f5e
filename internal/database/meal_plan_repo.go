package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

var ErrMealPlanNotFound = errors.New("meal plan entry not found")

const mealPlanSelect = `
	SELECT mp.id, mp.date::text, mp.meal_type_id, mp.recipe_id, mp.porciones, mp.created_at,
	       mt.name, r.name, r.image_url, COALESCE(r.porciones, 1)
	FROM meal_plans mp
	JOIN meal_types mt ON mt.id = mp.meal_type_id
	JOIN recipes r ON r.id = mp.recipe_id`

func scanMealPlan(row pgx.Row, e *models.MealPlanEntryDetail) error {
	return row.Scan(
		&e.ID, &e.Date, &e.MealTypeID, &e.RecipeID, &e.Porciones, &e.CreatedAt,
		&e.MealType, &e.RecipeName, &e.RecipeImageURL, &e.RecipePorciones,
	)
}

// ListMealPlanEntries returns the entries of a date range ordered by day and meal type
func (db *DB) ListMealPlanEntries(ctx context.Context, r models.DateRange) ([]models.MealPlanEntryDetail, error) {
	rows, err := db.Pool.Query(ctx, mealPlanSelect+`
		WHERE mp.date BETWEEN $1 AND $2
		ORDER BY mp.date ASC, mt."order" ASC, mp.created_at ASC
	`, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.MealPlanEntryDetail{}
	for rows.Next() {
		var e models.MealPlanEntryDetail
		if err := scanMealPlan(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetMealPlanEntry retrieves a single planned entry
func (db *DB) GetMealPlanEntry(ctx context.Context, id string) (*models.MealPlanEntryDetail, error) {
	e := &models.MealPlanEntryDetail{}
	if err := scanMealPlan(db.Pool.QueryRow(ctx, mealPlanSelect+` WHERE mp.id = $1`, id), e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}
	return e, nil
}

// CreateMealPlanEntry plans a recipe for a meal slot. Without explicit
// portions the recipe's own yield is used.
func (db *DB) CreateMealPlanEntry(ctx context.Context, req *models.CreateMealPlanRequest) (*models.MealPlanEntryDetail, error) {
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, models.NewValidationError("date", "date must be formatted as yyyy-MM-dd")
	}

	var recipePortions int
	err = db.Pool.QueryRow(ctx, `SELECT COALESCE(porciones, 1) FROM recipes WHERE id = $1`, req.RecipeID).Scan(&recipePortions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var exists bool
	if err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM meal_types WHERE id = $1)`, req.MealTypeID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrMealTypeNotFound
	}

	portions := recipePortions
	if req.Porciones != nil {
		portions = *req.Porciones
	}
	if portions < 1 {
		portions = 1
	}

	id := uuid.NewString()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO meal_plans (id, date, meal_type_id, recipe_id, porciones, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, id, date, req.MealTypeID, req.RecipeID, portions)
	if err != nil {
		return nil, err
	}
	return db.GetMealPlanEntry(ctx, id)
}

// UpdateMealPlanPortions changes the planned portions of an entry
func (db *DB) UpdateMealPlanPortions(ctx context.Context, id string, portions int) (*models.MealPlanEntryDetail, error) {
	result, err := db.Pool.Exec(ctx, `UPDATE meal_plans SET porciones = $2 WHERE id = $1`, id, portions)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, ErrMealPlanNotFound
	}
	return db.GetMealPlanEntry(ctx, id)
}

// DeleteMealPlanEntry deletes one entry by its own ID
func (db *DB) DeleteMealPlanEntry(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMealPlanNotFound
	}
	return nil
}

// PlannedMeals loads every entry of a date range together with its recipe rows,
// ready for shopping list aggregation and daily totals.
func (db *DB) PlannedMeals(ctx context.Context, r models.DateRange) ([]models.MealPlanEntryDetail, []nutrition.PlannedMeal, error) {
	entries, err := db.ListMealPlanEntries(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool)
	var recipeIDs []string
	for _, e := range entries {
		if !seen[e.RecipeID] {
			seen[e.RecipeID] = true
			recipeIDs = append(recipeIDs, e.RecipeID)
		}
	}
	rowsByRecipe, err := db.GetRecipeIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, nil, err
	}

	meals := make([]nutrition.PlannedMeal, 0, len(entries))
	for _, e := range entries {
		portions := e.RecipePorciones
		meals = append(meals, nutrition.PlannedMeal{
			EntryID:   e.ID,
			Date:      e.Date,
			MealType:  e.MealType,
			Porciones: e.Porciones,
			Recipe: models.Recipe{
				ID:        e.RecipeID,
				Name:      e.RecipeName,
				ImageURL:  e.RecipeImageURL,
				Porciones: &portions,
			},
			Ingredients: rowsByRecipe[e.RecipeID],
		})
	}
	return entries, meals, nil
}
