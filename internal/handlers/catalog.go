package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/services"
)

// Health reports liveness
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ListUnits returns the standard unit catalogue
func (h *Handler) ListUnits(c *fiber.Ctx) error {
	return Success(c, models.StandardUnits)
}

// ListTags returns the suggested tags followed by the tags in use
func (h *Handler) ListTags(c *fiber.Ctx) error {
	tags, err := h.db.ListIngredientTags(c.Context())
	if err != nil {
		return internalError(c, err, "failed to list tags")
	}
	return Success(c, fiber.Map{
		"ingredient_tags": tags,
		"recipe_tags":     models.SuggestedRecipeTags,
	})
}

// SearchImages proxies an image search and returns up to nine image URLs
func (h *Handler) SearchImages(c *fiber.Ctx) error {
	if !h.images.Configured() {
		return Error(c, fiber.StatusInternalServerError, "Unsplash API key is missing")
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return Error(c, fiber.StatusBadRequest, "Query parameter is required")
	}

	urls, err := h.images.Search(c.Context(), query)
	if err != nil {
		if errors.Is(err, services.ErrAPIError) {
			return internalError(c, err, "image search failed")
		}
		return internalError(c, err, "failed to search images")
	}
	return Success(c, urls)
}
