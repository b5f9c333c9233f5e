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

var (
	ErrListNotFound     = errors.New("shopping list not found")
	ErrListItemNotFound = errors.New("list item not found")
	ErrListNotEditable  = errors.New("only copied lists can be edited")
)

const listColumns = `sl.id, sl.name, sl.start_date::text, sl.end_date::text, sl.original_list_id, sl.created_at`

func scanList(row pgx.Row, l *models.ShoppingList) error {
	return row.Scan(&l.ID, &l.Name, &l.StartDate, &l.EndDate, &l.OriginalListID, &l.CreatedAt)
}

const itemColumns = `ingredient, quantity, custom_quantity, custom_unit, purchased, recipes`

func scanItem(row pgx.Row) (*models.ShoppingListItem, error) {
	item := &models.ShoppingListItem{}
	err := row.Scan(&item.Ingredient, &item.TotalQuantity, &item.CustomQuantity, &item.CustomUnit, &item.Purchased, &item.Recipes)
	if err != nil {
		return nil, err
	}
	if item.Recipes == nil {
		item.Recipes = []models.Provenance{}
	}
	item.Equivalences = nutrition.ItemEquivalences(item)
	return item, nil
}

// ListShoppingLists returns saved lists, newest first
func (db *DB) ListShoppingLists(ctx context.Context, limit, offset int) ([]*models.ShoppingListSummary, int, error) {
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM shopping_lists`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT `+listColumns+`,
			COALESCE((SELECT COUNT(*) FROM shopping_list_items WHERE list_id = sl.id), 0) as item_count,
			COALESCE((SELECT COUNT(*) FROM shopping_list_items WHERE list_id = sl.id AND purchased), 0) as purchased_count
		FROM shopping_lists sl
		ORDER BY sl.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	lists := []*models.ShoppingListSummary{}
	for rows.Next() {
		l := &models.ShoppingListSummary{}
		err := rows.Scan(
			&l.ID, &l.Name, &l.StartDate, &l.EndDate, &l.OriginalListID, &l.CreatedAt,
			&l.ItemCount, &l.PurchasedCount,
		)
		if err != nil {
			return nil, 0, err
		}
		lists = append(lists, l)
	}

	return lists, total, rows.Err()
}

// GetShoppingList retrieves a saved list with its stored items in order
func (db *DB) GetShoppingList(ctx context.Context, id string) (*models.ShoppingList, []*models.ShoppingListItem, error) {
	list := &models.ShoppingList{}
	if err := scanList(db.Pool.QueryRow(ctx, `SELECT `+listColumns+` FROM shopping_lists sl WHERE sl.id = $1`, id), list); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrListNotFound
		}
		return nil, nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items
		WHERE list_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	items := []*models.ShoppingListItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return list, items, rows.Err()
}

// CreateShoppingList snapshots aggregated items into a new saved list
func (db *DB) CreateShoppingList(ctx context.Context, req *models.SaveListRequest, items []*models.ShoppingListItem) (*models.ShoppingList, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	list := &models.ShoppingList{}
	err = scanList(tx.QueryRow(ctx, `
		INSERT INTO shopping_lists AS sl (id, name, start_date, end_date, created_at)
		VALUES ($1, $2, $3::date, $4::date, NOW())
		RETURNING `+listColumns,
		uuid.NewString(), req.Name, req.StartDate, req.EndDate), list)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}

	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO shopping_list_items (id, list_id, ingredient_id, ingredient, quantity,
				custom_quantity, custom_unit, purchased, recipes, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.NewString(), list.ID, item.Ingredient.ID, item.Ingredient, item.TotalQuantity,
			item.CustomQuantity, item.CustomUnit, item.Purchased, item.Recipes, i)
		if err != nil {
			return nil, fmt.Errorf("insert list item %s: %w", item.Ingredient.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

// CopyShoppingList duplicates a saved list and its items. The copy references
// the source through original_list_id, which makes it editable.
func (db *DB) CopyShoppingList(ctx context.Context, id string) (*models.ShoppingList, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	copied := &models.ShoppingList{}
	err = scanList(tx.QueryRow(ctx, `
		INSERT INTO shopping_lists AS sl (id, name, start_date, end_date, original_list_id, created_at)
		SELECT $2, src.name || ' (copy)', src.start_date, src.end_date, src.id, NOW()
		FROM shopping_lists src
		WHERE src.id = $1
		RETURNING `+listColumns,
		id, uuid.NewString()), copied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("copy shopping list: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO shopping_list_items (list_id, ingredient_id, ingredient, quantity,
			custom_quantity, custom_unit, purchased, recipes, position)
		SELECT $2, ingredient_id, ingredient, quantity, custom_quantity, custom_unit, purchased, recipes, position
		FROM shopping_list_items
		WHERE list_id = $1
	`, id, copied.ID)
	if err != nil {
		return nil, fmt.Errorf("copy list items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return copied, nil
}

// DeleteShoppingList deletes a saved list and the lists copied directly from it
func (db *DB) DeleteShoppingList(ctx context.Context, id string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM shopping_lists WHERE original_list_id = $1`, id); err != nil {
		return fmt.Errorf("delete copies: %w", err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM shopping_lists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrListNotFound
	}

	return tx.Commit(ctx)
}

// UpdateListItem sets the manual quantity override of a line on a copied list.
// The unit must be one the ingredient declares.
func (db *DB) UpdateListItem(ctx context.Context, listID, ingredientID string, req *models.UpdateListItemRequest) (*models.ShoppingListItem, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := ensureEditable(ctx, tx, listID); err != nil {
		return nil, err
	}

	current, err := scanItem(tx.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM shopping_list_items WHERE list_id = $1 AND ingredient_id = $2
	`, listID, ingredientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListItemNotFound
		}
		return nil, err
	}
	if _, ok := nutrition.ResolveFactor(req.CustomUnit, &current.Ingredient); !ok {
		return nil, models.NewValidationError("customUnit", fmt.Sprintf("unit %q is not defined for %s", req.CustomUnit, current.Ingredient.Name))
	}

	item, err := scanItem(tx.QueryRow(ctx, `
		UPDATE shopping_list_items
		SET custom_quantity = $3, custom_unit = $4
		WHERE list_id = $1 AND ingredient_id = $2
		RETURNING `+itemColumns,
		listID, ingredientID, req.CustomQuantity, req.CustomUnit))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// ToggleListItemPurchased flips the purchased flag of a line on a copied list
func (db *DB) ToggleListItemPurchased(ctx context.Context, listID, ingredientID string) (*models.ShoppingListItem, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := ensureEditable(ctx, tx, listID); err != nil {
		return nil, err
	}

	item, err := scanItem(tx.QueryRow(ctx, `
		UPDATE shopping_list_items
		SET purchased = NOT purchased
		WHERE list_id = $1 AND ingredient_id = $2
		RETURNING `+itemColumns,
		listID, ingredientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListItemNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

func ensureEditable(ctx context.Context, q querier, listID string) error {
	var original *string
	err := q.QueryRow(ctx, `SELECT original_list_id FROM shopping_lists WHERE id = $1 FOR UPDATE`, listID).Scan(&original)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrListNotFound
		}
		return err
	}
	if original == nil {
		return ErrListNotEditable
	}
	return nil
}
