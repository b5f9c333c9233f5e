package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

// scaledEntries loads the entries of a range with nutrition scaled to the
// planned portions. Recipe totals are computed once per recipe.
func (h *Handler) scaledEntries(ctx context.Context, r models.DateRange) ([]models.MealPlanEntryDetail, error) {
	entries, meals, err := h.db.PlannedMeals(ctx, r)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]models.Nutrition)
	for i, m := range meals {
		total, ok := totals[m.Recipe.ID]
		if !ok {
			var warnings []nutrition.Warning
			total, warnings = nutrition.ComputeRecipeNutrition(m.Ingredients)
			totals[m.Recipe.ID] = total
			if len(warnings) > 0 {
				logrus.WithFields(logrus.Fields{
					"recipe_id": m.Recipe.ID,
					"warnings":  nutrition.Messages(warnings),
				}).Warn("planned recipe nutrition computed with fallbacks")
			}
		}
		nutrition.ScaleEntry(&entries[i], total)
	}
	return entries, nil
}

// ListMealPlans returns the planned meals of a date range (default: this week)
func (h *Handler) ListMealPlans(c *fiber.Ctx) error {
	r, err := h.dateRange(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.scaledEntries(c.Context(), r)
	if err != nil {
		return internalError(c, err, "failed to list meal plans")
	}
	if entries == nil {
		entries = []models.MealPlanEntryDetail{}
	}

	return Success(c, fiber.Map{
		"start_date": r.StartString(),
		"end_date":   r.EndString(),
		"entries":    entries,
	})
}

// GetDailyPlans returns per-day meals, totals, macro distribution and
// per-person progress for a date range
func (h *Handler) GetDailyPlans(c *fiber.Ctx) error {
	r, err := h.dateRange(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.scaledEntries(c.Context(), r)
	if err != nil {
		return internalError(c, err, "failed to load meal plans")
	}
	persons, err := h.db.ListPersons(c.Context())
	if err != nil {
		return internalError(c, err, "failed to list persons")
	}

	return Success(c, nutrition.BuildDailyPlans(r.Days(), entries, persons))
}

// CreateMealPlan plans a recipe for a day and meal slot
func (h *Handler) CreateMealPlan(c *fiber.Ctx) error {
	var req models.CreateMealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := h.db.CreateMealPlanEntry(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrRecipeNotFound):
			return Error(c, fiber.StatusBadRequest, "recipe not found")
		case errors.Is(err, database.ErrMealTypeNotFound):
			return Error(c, fiber.StatusBadRequest, "meal type not found")
		}
		if ok, resp := ValidationFailed(c, err); ok {
			return resp
		}
		return internalError(c, err, "failed to create meal plan")
	}

	h.cache.Invalidate(c.Context())
	return Created(c, entry)
}

// UpdateMealPlan changes the planned portions of an entry
func (h *Handler) UpdateMealPlan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal plan id")
	}

	var req models.UpdateMealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Porciones < 1 {
		return Error(c, fiber.StatusBadRequest, "porciones must be at least 1")
	}

	entry, err := h.db.UpdateMealPlanPortions(c.Context(), id, req.Porciones)
	if err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return internalError(c, err, "failed to update meal plan")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, entry)
}

// DeleteMealPlan removes a planned meal
func (h *Handler) DeleteMealPlan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal plan id")
	}

	if err := h.db.DeleteMealPlanEntry(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return internalError(c, err, "failed to delete meal plan")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, fiber.Map{"deleted": true})
}
