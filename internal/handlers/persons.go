package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
)

// ListPersons returns every person with their targets
func (h *Handler) ListPersons(c *fiber.Ctx) error {
	persons, err := h.db.ListPersons(c.Context())
	if err != nil {
		return internalError(c, err, "failed to list persons")
	}
	return Success(c, persons)
}

// CreatePerson creates a person
func (h *Handler) CreatePerson(c *fiber.Ctx) error {
	var req models.SavePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := h.db.CreatePerson(c.Context(), &req)
	if err != nil {
		return internalError(c, err, "failed to create person")
	}
	return Created(c, p)
}

// UpdatePerson replaces a person's name and targets
func (h *Handler) UpdatePerson(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid person id")
	}

	var req models.SavePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Normalize(); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := h.db.UpdatePerson(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrPersonNotFound) {
			return Error(c, fiber.StatusNotFound, "person not found")
		}
		return internalError(c, err, "failed to update person")
	}
	return Success(c, p)
}

// DeletePerson deletes a person
func (h *Handler) DeletePerson(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid person id")
	}

	if err := h.db.DeletePerson(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrPersonNotFound) {
			return Error(c, fiber.StatusNotFound, "person not found")
		}
		return internalError(c, err, "failed to delete person")
	}
	return Success(c, fiber.Map{"deleted": true})
}

// ListMealTypes returns meal types in display order
func (h *Handler) ListMealTypes(c *fiber.Ctx) error {
	types, err := h.db.ListMealTypes(c.Context())
	if err != nil {
		return internalError(c, err, "failed to list meal types")
	}
	return Success(c, types)
}

// CreateMealType appends a meal type
func (h *Handler) CreateMealType(c *fiber.Ctx) error {
	var req models.CreateMealTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	mt, err := h.db.CreateMealType(c.Context(), name)
	if err != nil {
		return internalError(c, err, "failed to create meal type")
	}
	return Created(c, mt)
}

// ReorderMealTypes stores a new display order
func (h *Handler) ReorderMealTypes(c *fiber.Ctx) error {
	var req models.ReorderMealTypesRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return Error(c, fiber.StatusBadRequest, "ids are required")
	}
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid meal type id "+id)
		}
	}

	if err := h.db.ReorderMealTypes(c.Context(), req.IDs); err != nil {
		if errors.Is(err, database.ErrMealTypeNotFound) {
			return Error(c, fiber.StatusNotFound, "meal type not found")
		}
		return internalError(c, err, "failed to reorder meal types")
	}

	h.cache.Invalidate(c.Context())
	return h.ListMealTypes(c)
}

// DeleteMealType deletes a meal type and its planned entries
func (h *Handler) DeleteMealType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal type id")
	}

	if err := h.db.DeleteMealType(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrMealTypeNotFound) {
			return Error(c, fiber.StatusNotFound, "meal type not found")
		}
		return internalError(c, err, "failed to delete meal type")
	}

	h.cache.Invalidate(c.Context())
	return Success(c, fiber.Map{"deleted": true})
}
