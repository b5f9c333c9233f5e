package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `
	r.id, r.name, r.description, r.image_url, r.instructions, r.tags,
	r.porciones, r.total_nutrition, r.created_at`

func scanRecipe(row pgx.Row, r *models.Recipe) error {
	return row.Scan(
		&r.ID, &r.Name, &r.Description, &r.ImageURL, &r.Instructions, &r.Tags,
		&r.Porciones, &r.TotalNutrition, &r.CreatedAt,
	)
}

// ListRecipes returns recipes matching the search and tag filters
func (db *DB) ListRecipes(ctx context.Context, params *models.RecipeListParams) ([]*models.Recipe, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM recipes r
		WHERE ($1 = '' OR r.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR $2 = ANY(r.tags))
	`, params.Search, params.Tag).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT`+recipeColumns+`
		FROM recipes r
		WHERE ($1 = '' OR r.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR $2 = ANY(r.tags))
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4
	`, params.Search, params.Tag, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		r := &models.Recipe{}
		if err := scanRecipe(rows, r); err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, r)
	}
	return recipes, total, rows.Err()
}

// GetRecipeByID retrieves a recipe without its ingredient rows
func (db *DB) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	r := &models.Recipe{}
	err := scanRecipe(db.Pool.QueryRow(ctx, `SELECT`+recipeColumns+` FROM recipes r WHERE r.id = $1`, id), r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// GetRecipeIngredients loads the ingredient rows of the given recipes, keyed by
// recipe ID, each with its ingredient and that ingredient's equivalences.
func (db *DB) GetRecipeIngredients(ctx context.Context, recipeIDs []string) (map[string][]models.RecipeIngredient, error) {
	return recipeIngredients(ctx, db.Pool, recipeIDs)
}

func recipeIngredients(ctx context.Context, q querier, recipeIDs []string) (map[string][]models.RecipeIngredient, error) {
	out := make(map[string][]models.RecipeIngredient, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity, ri.unit_name,`+ingredientColumns+`
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1::uuid[])
		ORDER BY ri.recipe_id, ri.position ASC
	`, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shared := make(map[string]*models.Ingredient)
	type pending struct {
		row          models.RecipeIngredient
		ingredientID string
	}
	var all []pending
	for rows.Next() {
		var (
			ri  models.RecipeIngredient
			ing models.Ingredient
		)
		err := rows.Scan(
			&ri.ID, &ri.RecipeID, &ri.IngredientID, &ri.Quantity, &ri.UnitName,
			&ing.ID, &ing.Name, &ing.Description, &ing.BaseUnit, &ing.BaseQuantity,
			&ing.Calories, &ing.Protein, &ing.Carbs,
			&ing.Fat, &ing.Fiber, &ing.Sugar,
			&ing.Tags, &ing.ImageURL, &ing.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if _, ok := shared[ing.ID]; !ok {
			cp := ing
			shared[ing.ID] = &cp
		}
		all = append(all, pending{row: ri, ingredientID: ing.ID})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ingredients := make([]*models.Ingredient, 0, len(shared))
	for _, ing := range shared {
		ingredients = append(ingredients, ing)
	}
	if err := attachEquivalences(ctx, q, ingredients); err != nil {
		return nil, err
	}

	for _, p := range all {
		p.row.Ingredient = shared[p.ingredientID]
		out[p.row.RecipeID] = append(out[p.row.RecipeID], p.row)
	}
	return out, nil
}

// CreateRecipe inserts a recipe with its ingredient rows and cached nutrition
func (db *DB) CreateRecipe(ctx context.Context, req *models.SaveRecipeRequest) (*models.Recipe, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	total, err := validateRecipeRows(ctx, tx, req.Ingredients)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO recipes (id, name, description, image_url, instructions, tags, porciones, total_nutrition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, id, req.Name, req.Description, req.ImageURL, req.Instructions, req.Tags, *req.Porciones, total)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}

	if err := insertRecipeRows(ctx, tx, id, req.Ingredients); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return db.GetRecipeByID(ctx, id)
}

// UpdateRecipe replaces a recipe and all of its ingredient rows
func (db *DB) UpdateRecipe(ctx context.Context, id string, req *models.SaveRecipeRequest) (*models.Recipe, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	total, err := validateRecipeRows(ctx, tx, req.Ingredients)
	if err != nil {
		return nil, err
	}

	result, err := tx.Exec(ctx, `
		UPDATE recipes
		SET name = $2, description = $3, image_url = $4, instructions = $5, tags = $6,
		    porciones = $7, total_nutrition = $8, updated_at = NOW()
		WHERE id = $1
	`, id, req.Name, req.Description, req.ImageURL, req.Instructions, req.Tags, *req.Porciones, total)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrRecipeNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear recipe rows: %w", err)
	}
	if err := insertRecipeRows(ctx, tx, id, req.Ingredients); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return db.GetRecipeByID(ctx, id)
}

// DeleteRecipe deletes a recipe; its rows and meal plan entries cascade
func (db *DB) DeleteRecipe(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// RecalculateRecipeNutrition rewrites the cached total_nutrition of every
// recipe from current ingredient data and returns how many were updated.
func (db *DB) RecalculateRecipeNutrition(ctx context.Context) (int, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id FROM recipes`)
	if err != nil {
		return 0, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, err
	}

	byRecipe, err := db.GetRecipeIngredients(ctx, ids)
	if err != nil {
		return 0, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	for _, id := range ids {
		total, _ := nutrition.ComputeRecipeNutrition(byRecipe[id])
		if _, err := tx.Exec(ctx, `UPDATE recipes SET total_nutrition = $2 WHERE id = $1`, id, total); err != nil {
			return 0, fmt.Errorf("update recipe %s: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// validateRecipeRows checks that every row references an existing ingredient
// in one of its declared units and returns the recipe's total nutrition.
func validateRecipeRows(ctx context.Context, q querier, inputs []models.RecipeIngredientInput) (models.Nutrition, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if _, err := uuid.Parse(in.IngredientID); err != nil {
			return models.Nutrition{}, models.NewValidationError("ingredients", "invalid ingredient_id "+in.IngredientID)
		}
		ids = append(ids, in.IngredientID)
	}

	rows, err := q.Query(ctx, `SELECT`+ingredientColumns+` FROM ingredients i WHERE i.id = ANY($1::uuid[])`, ids)
	if err != nil {
		return models.Nutrition{}, err
	}
	byID := make(map[string]*models.Ingredient)
	var list []*models.Ingredient
	for rows.Next() {
		ing := &models.Ingredient{}
		if err := scanIngredient(rows, ing); err != nil {
			rows.Close()
			return models.Nutrition{}, err
		}
		byID[ing.ID] = ing
		list = append(list, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Nutrition{}, err
	}
	if err := attachEquivalences(ctx, q, list); err != nil {
		return models.Nutrition{}, err
	}

	recipeRows := make([]models.RecipeIngredient, 0, len(inputs))
	for _, in := range inputs {
		ing, ok := byID[in.IngredientID]
		if !ok {
			return models.Nutrition{}, models.NewValidationError("ingredients", "ingredient "+in.IngredientID+" does not exist")
		}
		if _, ok := nutrition.ResolveFactor(in.UnitName, ing); !ok {
			return models.Nutrition{}, models.NewValidationError("ingredients",
				fmt.Sprintf("unit %q is not defined for %s", in.UnitName, ing.Name))
		}
		recipeRows = append(recipeRows, models.RecipeIngredient{
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			UnitName:     in.UnitName,
			Ingredient:   ing,
		})
	}

	total, _ := nutrition.ComputeRecipeNutrition(recipeRows)
	return total, nil
}

func insertRecipeRows(ctx context.Context, q querier, recipeID string, inputs []models.RecipeIngredientInput) error {
	for i, in := range inputs {
		_, err := q.Exec(ctx, `
			INSERT INTO recipe_ingredients (id, recipe_id, ingredient_id, quantity, unit_name, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), recipeID, in.IngredientID, in.Quantity, in.UnitName, i)
		if err != nil {
			return fmt.Errorf("insert recipe row: %w", err)
		}
	}
	return nil
}
