package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
	"github.com/foxxcyber/recetario/internal/services"
)

// liveList aggregates the planned meals of a range, going through the cache
func (h *Handler) liveList(ctx context.Context, r models.DateRange) (*models.AggregatedList, error) {
	return services.CachedLiveList(ctx, h.cache, r.StartString(), r.EndString(), func(ctx context.Context) (*models.AggregatedList, error) {
		_, meals, err := h.db.PlannedMeals(ctx, r)
		if err != nil {
			return nil, err
		}

		items, warnings := nutrition.BuildShoppingList(meals)
		if len(warnings) > 0 {
			logrus.WithFields(logrus.Fields{
				"start":    r.StartString(),
				"end":      r.EndString(),
				"warnings": nutrition.Messages(warnings),
			}).Warn("shopping list aggregated with fallbacks")
		}

		return &models.AggregatedList{
			StartDate: r.StartString(),
			EndDate:   r.EndString(),
			Items:     items,
			Warnings:  nutrition.Messages(warnings),
		}, nil
	})
}

// parseTags splits a comma separated tags query parameter
func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// respondList applies the tags filter and optional grouping to a list
func respondList(c *fiber.Ctx, list *models.AggregatedList) error {
	items := nutrition.FilterByTags(list.Items, parseTags(c.Query("tags")))

	if c.Query("group") == "tags" {
		return Success(c, models.GroupedList{
			List:      list.List,
			StartDate: list.StartDate,
			EndDate:   list.EndDate,
			Groups:    nutrition.GroupByTags(items),
			Warnings:  list.Warnings,
		})
	}

	out := *list
	out.Items = items
	return Success(c, out)
}

// GetLiveShoppingList aggregates the meal plan of a date range into a
// shopping list. Optional tags=a,b keeps lines matching any tag and
// group=tags groups lines by ingredient tag.
func (h *Handler) GetLiveShoppingList(c *fiber.Ctx) error {
	r, err := h.dateRange(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	list, err := h.liveList(c.Context(), r)
	if err != nil {
		return internalError(c, err, "failed to build shopping list")
	}
	return respondList(c, list)
}

// ListShoppingLists returns saved lists, newest first
func (h *Handler) ListShoppingLists(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	lists, total, err := h.db.ListShoppingLists(c.Context(), limit, offset)
	if err != nil {
		return internalError(c, err, "failed to list shopping lists")
	}

	return SuccessWithMeta(c, lists, total, limit, offset)
}

// SaveShoppingList snapshots the live list of a date range
func (h *Handler) SaveShoppingList(c *fiber.Ctx) error {
	var req models.SaveListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	r, err := models.ParseDateRange(req.StartDate, req.EndDate, h.now())
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	req.StartDate, req.EndDate = r.StartString(), r.EndString()
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = fmt.Sprintf("Shopping list %s to %s", req.StartDate, req.EndDate)
	}

	live, err := h.liveList(c.Context(), r)
	if err != nil {
		return internalError(c, err, "failed to build shopping list")
	}

	list, err := h.db.CreateShoppingList(c.Context(), &req, live.Items)
	if err != nil {
		return internalError(c, err, "failed to save shopping list")
	}

	return Created(c, models.AggregatedList{
		List:      list,
		StartDate: list.StartDate,
		EndDate:   list.EndDate,
		Items:     live.Items,
		Warnings:  live.Warnings,
	})
}

// loadSavedList reads a saved list and re-aggregates its stored lines
func (h *Handler) loadSavedList(ctx context.Context, id string) (*models.ShoppingList, []*models.ShoppingListItem, error) {
	list, stored, err := h.db.GetShoppingList(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return list, nutrition.Aggregate(nutrition.SavedContributions(stored)), nil
}

// GetShoppingList returns a saved list with its lines
func (h *Handler) GetShoppingList(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, items, err := h.loadSavedList(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrListNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping list not found")
		}
		return internalError(c, err, "failed to get shopping list")
	}

	return respondList(c, &models.AggregatedList{
		List:      list,
		StartDate: list.StartDate,
		EndDate:   list.EndDate,
		Items:     items,
	})
}

// CopyShoppingList duplicates a saved list into an editable copy
func (h *Handler) CopyShoppingList(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	copied, err := h.db.CopyShoppingList(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrListNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping list not found")
		}
		return internalError(c, err, "failed to copy shopping list")
	}

	return Created(c, copied)
}

// DeleteShoppingList deletes a saved list and its direct copies
func (h *Handler) DeleteShoppingList(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	if err := h.db.DeleteShoppingList(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrListNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping list not found")
		}
		return internalError(c, err, "failed to delete shopping list")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// listItemError maps list item repository errors to responses
func listItemError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, database.ErrListNotFound):
		return Error(c, fiber.StatusNotFound, "shopping list not found")
	case errors.Is(err, database.ErrListItemNotFound):
		return Error(c, fiber.StatusNotFound, "list item not found")
	case errors.Is(err, database.ErrListNotEditable):
		return Error(c, fiber.StatusConflict, "only copied lists can be edited")
	}
	if ok, resp := ValidationFailed(c, err); ok {
		return resp
	}
	return internalError(c, err, message)
}

func listItemParams(c *fiber.Ctx) (string, string, error) {
	listID, err := paramID(c, "id")
	if err != nil {
		return "", "", err
	}
	ingredientID, err := uuid.Parse(c.Params("ingredient_id"))
	if err != nil {
		return "", "", err
	}
	return listID, ingredientID.String(), nil
}

// UpdateListItem sets the manual quantity and unit of a line on a copied list
func (h *Handler) UpdateListItem(c *fiber.Ctx) error {
	listID, ingredientID, err := listItemParams(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list or ingredient id")
	}

	var req models.UpdateListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.CustomUnit = strings.TrimSpace(req.CustomUnit)
	if req.CustomQuantity <= 0 {
		return Error(c, fiber.StatusBadRequest, "customQuantity must be greater than zero")
	}
	if req.CustomUnit == "" {
		return Error(c, fiber.StatusBadRequest, "customUnit is required")
	}

	item, err := h.db.UpdateListItem(c.Context(), listID, ingredientID, &req)
	if err != nil {
		return listItemError(c, err, "failed to update list item")
	}
	return Success(c, item)
}

// ToggleListItem flips the purchased flag of a line on a copied list
func (h *Handler) ToggleListItem(c *fiber.Ctx) error {
	listID, ingredientID, err := listItemParams(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list or ingredient id")
	}

	item, err := h.db.ToggleListItemPurchased(c.Context(), listID, ingredientID)
	if err != nil {
		return listItemError(c, err, "failed to toggle list item")
	}
	return Success(c, item)
}

// ExportShoppingList writes a saved list as CSV to object storage and
// returns a presigned download URL
func (h *Handler) ExportShoppingList(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "object storage is not configured")
	}

	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, items, err := h.loadSavedList(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrListNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping list not found")
		}
		return internalError(c, err, "failed to get shopping list")
	}

	export, err := h.storage.ExportList(c.Context(), list, items)
	if err != nil {
		return internalError(c, err, "failed to export shopping list")
	}
	return Success(c, export)
}
