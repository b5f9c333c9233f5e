package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

// ListRecipes returns recipes with their cached nutrition
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	params := &models.RecipeListParams{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	}

	recipes, total, err := h.db.ListRecipes(c.Context(), params)
	if err != nil {
		return internalError(c, err, "failed to list recipes")
	}

	return SuccessWithMeta(c, recipes, total, params.Limit, params.Offset)
}

// GetRecipe returns a recipe with nutrition computed from current ingredient
// data. An optional porciones query parameter overrides the yield used for
// per-portion values.
func (h *Handler) GetRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	var live *int
	if p := c.QueryInt("porciones", 0); p > 0 {
		live = &p
	}

	view, err := h.recipeView(c, id, live)
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return internalError(c, err, "failed to get recipe")
	}

	return Success(c, view)
}

func (h *Handler) recipeView(c *fiber.Ctx, id string, live *int) (*models.RecipeWithNutrition, error) {
	recipe, err := h.db.GetRecipeByID(c.Context(), id)
	if err != nil {
		return nil, err
	}
	rows, err := h.db.GetRecipeIngredients(c.Context(), []string{id})
	if err != nil {
		return nil, err
	}

	view := nutrition.BuildRecipeView(*recipe, rows[id], live)
	if len(view.Warnings) > 0 {
		logrus.WithFields(logrus.Fields{
			"recipe_id": id,
			"warnings":  view.Warnings,
		}).Warn("recipe nutrition computed with fallbacks")
	}
	return &view, nil
}

// CreateRecipe creates a recipe with its ingredient rows
func (h *Handler) CreateRecipe(c *fiber.Ctx) error {
	var req models.SaveRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	recipe, err := h.db.CreateRecipe(c.Context(), &req)
	if err != nil {
		if ok, resp := ValidationFailed(c, err); ok {
			return resp
		}
		return internalError(c, err, "failed to create recipe")
	}

	view, err := h.recipeView(c, recipe.ID, nil)
	if err != nil {
		return internalError(c, err, "failed to load recipe")
	}
	return Created(c, view)
}

// UpdateRecipe replaces a recipe and all of its ingredient rows
func (h *Handler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	var req models.SaveRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.db.UpdateRecipe(c.Context(), id, &req); err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		if ok, resp := ValidationFailed(c, err); ok {
			return resp
		}
		return internalError(c, err, "failed to update recipe")
	}

	h.cache.Invalidate(c.Context())
	view, err := h.recipeView(c, id, nil)
	if err != nil {
		return internalError(c, err, "failed to load recipe")
	}
	return Success(c, view)
}

// DeleteRecipe deletes a recipe and the meal plan entries that use it
func (h *Handler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	if err := h.db.DeleteRecipe(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return internalError(c, err, "failed to delete recipe")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, fiber.Map{"deleted": true})
}
