package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/foxxcyber/recetario/internal/models"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientInUse    = errors.New("ingredient is used by recipes")
)

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const ingredientColumns = `
	i.id, i.name, i.description, i.base_unit, i.base_quantity,
	COALESCE(i.calories, 0), COALESCE(i.protein, 0), COALESCE(i.carbs, 0),
	COALESCE(i.fat, 0), COALESCE(i.fiber, 0), COALESCE(i.sugar, 0),
	i.tags, i.image_url, i.created_at`

func scanIngredient(row pgx.Row, ing *models.Ingredient) error {
	return row.Scan(
		&ing.ID, &ing.Name, &ing.Description, &ing.BaseUnit, &ing.BaseQuantity,
		&ing.Calories, &ing.Protein, &ing.Carbs,
		&ing.Fat, &ing.Fiber, &ing.Sugar,
		&ing.Tags, &ing.ImageURL, &ing.CreatedAt,
	)
}

// ListIngredients returns ingredients matching the search and tag filters
func (db *DB) ListIngredients(ctx context.Context, params *models.IngredientListParams) ([]*models.Ingredient, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM ingredients i
		WHERE ($1 = '' OR i.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR $2 = ANY(i.tags))
	`, params.Search, params.Tag).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT`+ingredientColumns+`
		FROM ingredients i
		WHERE ($1 = '' OR i.name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR $2 = ANY(i.tags))
		ORDER BY i.name ASC
		LIMIT $3 OFFSET $4
	`, params.Search, params.Tag, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ingredients := []*models.Ingredient{}
	for rows.Next() {
		ing := &models.Ingredient{}
		if err := scanIngredient(rows, ing); err != nil {
			return nil, 0, err
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := attachEquivalences(ctx, db.Pool, ingredients); err != nil {
		return nil, 0, err
	}
	return ingredients, total, nil
}

// GetIngredientByID retrieves an ingredient with its unit equivalences
func (db *DB) GetIngredientByID(ctx context.Context, id string) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := scanIngredient(db.Pool.QueryRow(ctx, `SELECT`+ingredientColumns+` FROM ingredients i WHERE i.id = $1`, id), ing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	if err := attachEquivalences(ctx, db.Pool, []*models.Ingredient{ing}); err != nil {
		return nil, err
	}
	return ing, nil
}

// CreateIngredient inserts an ingredient and its unit equivalences
func (db *DB) CreateIngredient(ctx context.Context, req *models.SaveIngredientRequest) (*models.Ingredient, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	n := req.NutritionValues()
	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO ingredients (id, name, description, base_unit, base_quantity,
			calories, protein, carbs, fat, fiber, sugar, tags, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`, id, req.Name, req.Description, req.BaseUnit, *req.BaseQuantity,
		n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar, req.Tags, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("insert ingredient: %w", err)
	}

	if err := insertEquivalences(ctx, tx, id, req.UnitEquivalences); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return db.GetIngredientByID(ctx, id)
}

// UpdateIngredient replaces an ingredient's fields and all of its equivalences
func (db *DB) UpdateIngredient(ctx context.Context, id string, req *models.SaveIngredientRequest) (*models.Ingredient, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	n := req.NutritionValues()
	result, err := tx.Exec(ctx, `
		UPDATE ingredients
		SET name = $2, description = $3, base_unit = $4, base_quantity = $5,
		    calories = $6, protein = $7, carbs = $8, fat = $9, fiber = $10, sugar = $11,
		    tags = $12, image_url = $13, updated_at = NOW()
		WHERE id = $1
	`, id, req.Name, req.Description, req.BaseUnit, *req.BaseQuantity,
		n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar, req.Tags, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrIngredientNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM unit_equivalences WHERE ingredient_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear equivalences: %w", err)
	}
	if err := insertEquivalences(ctx, tx, id, req.UnitEquivalences); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return db.GetIngredientByID(ctx, id)
}

// IngredientUsage counts the recipes that reference an ingredient
func (db *DB) IngredientUsage(ctx context.Context, id string) (*models.IngredientUsage, error) {
	usage := &models.IngredientUsage{IngredientID: id}
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM ingredients WHERE id = $1),
		       (SELECT COUNT(DISTINCT recipe_id) FROM recipe_ingredients WHERE ingredient_id = $1)
	`, id).Scan(&exists, &usage.RecipeCount)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIngredientNotFound
	}
	return usage, nil
}

// DeleteIngredient removes an ingredient. Unless force is set it refuses with
// ErrIngredientInUse while recipes still reference it; a forced delete removes
// those recipe rows first.
func (db *DB) DeleteIngredient(ctx context.Context, id string, force bool) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var uses int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = $1`, id).Scan(&uses)
	if err != nil {
		return err
	}
	if uses > 0 && !force {
		return ErrIngredientInUse
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE ingredient_id = $1`, id); err != nil {
		return fmt.Errorf("delete recipe rows: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM unit_equivalences WHERE ingredient_id = $1`, id); err != nil {
		return fmt.Errorf("delete equivalences: %w", err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}
	return tx.Commit(ctx)
}

// ListIngredientTags returns the suggested tags followed by every other tag in use
func (db *DB) ListIngredientTags(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT DISTINCT unnest(tags) FROM ingredients`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var used []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		used = append(used, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(used)

	tags := append([]string{}, models.SuggestedIngredientTags...)
	return models.NormalizeTags(append(tags, used...)), nil
}

func insertEquivalences(ctx context.Context, q querier, ingredientID string, eqs []models.UnitEquivalence) error {
	for _, ue := range eqs {
		_, err := q.Exec(ctx, `
			INSERT INTO unit_equivalences (id, ingredient_id, unit_name, conversion_factor)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), ingredientID, ue.UnitName, ue.ConversionFactor)
		if err != nil {
			return fmt.Errorf("insert equivalence %s: %w", ue.UnitName, err)
		}
	}
	return nil
}

// attachEquivalences loads the unit equivalences of every given ingredient
func attachEquivalences(ctx context.Context, q querier, ingredients []*models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	ids := make([]string, len(ingredients))
	byID := make(map[string]*models.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
		byID[ing.ID] = ing
		ing.UnitEquivalences = []models.UnitEquivalence{}
	}

	rows, err := q.Query(ctx, `
		SELECT id, ingredient_id, unit_name, conversion_factor
		FROM unit_equivalences
		WHERE ingredient_id = ANY($1::uuid[])
		ORDER BY unit_name ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ue models.UnitEquivalence
		if err := rows.Scan(&ue.ID, &ue.IngredientID, &ue.UnitName, &ue.ConversionFactor); err != nil {
			return err
		}
		if ing, ok := byID[ue.IngredientID]; ok {
			ing.UnitEquivalences = append(ing.UnitEquivalences, ue)
		}
	}
	return rows.Err()
}
