package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
)

// ListIngredients returns ingredients filtered by name search and tag
func (h *Handler) ListIngredients(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	params := &models.IngredientListParams{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	}

	ingredients, total, err := h.db.ListIngredients(c.Context(), params)
	if err != nil {
		return internalError(c, err, "failed to list ingredients")
	}

	return SuccessWithMeta(c, ingredients, total, params.Limit, params.Offset)
}

// GetIngredient returns a single ingredient with its equivalences
func (h *Handler) GetIngredient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	ing, err := h.db.GetIngredientByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		return internalError(c, err, "failed to get ingredient")
	}

	return Success(c, ing)
}

// CreateIngredient creates an ingredient with its unit equivalences
func (h *Handler) CreateIngredient(c *fiber.Ctx) error {
	var req models.SaveIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	ing, err := h.db.CreateIngredient(c.Context(), &req)
	if err != nil {
		return internalError(c, err, "failed to create ingredient")
	}

	return Created(c, ing)
}

// UpdateIngredient replaces an ingredient and all of its equivalences
func (h *Handler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	var req models.SaveIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	ing, err := h.db.UpdateIngredient(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		return internalError(c, err, "failed to update ingredient")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, ing)
}

// GetIngredientUsage returns how many recipes use an ingredient
func (h *Handler) GetIngredientUsage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	usage, err := h.db.IngredientUsage(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		return internalError(c, err, "failed to get ingredient usage")
	}

	return Success(c, usage)
}

// DeleteIngredient deletes an ingredient. While recipes use it the request is
// refused with 409 and the usage count, unless force=true is passed.
func (h *Handler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}
	force := c.QueryBool("force", false)

	err = h.db.DeleteIngredient(c.Context(), id, force)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrIngredientNotFound):
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		case errors.Is(err, database.ErrIngredientInUse):
			usage, uerr := h.db.IngredientUsage(c.Context(), id)
			if uerr != nil {
				return Error(c, fiber.StatusConflict, "ingredient is used by recipes")
			}
			return c.Status(fiber.StatusConflict).JSON(APIResponse{
				Success: false,
				Error:   "ingredient is used by recipes; pass force=true to delete it anyway",
				Data:    usage,
			})
		}
		return internalError(c, err, "failed to delete ingredient")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, fiber.Map{"deleted": true})
}
