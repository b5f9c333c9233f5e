package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/config"
	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db      *database.DB
	cfg     *config.Config
	images  *services.ImageSearchService
	storage *services.StorageService
	cache   services.LiveListCache
	now     func() time.Time
}

// New creates a new Handler instance. storage may be nil when object storage
// is not configured, and cache may be nil to disable live list caching.
func New(db *database.DB, cfg *config.Config, storage *services.StorageService, cache services.LiveListCache) *Handler {
	if cache == nil {
		cache = services.NoopCache{}
	}
	return &Handler{
		db:      db,
		cfg:     cfg,
		images:  services.NewImageSearchService(cfg.UnsplashAccessKey),
		storage: storage,
		cache:   cache,
		now:     time.Now,
	}
}

// WithImageSearch replaces the image search service
func (h *Handler) WithImageSearch(svc *services.ImageSearchService) *Handler {
	h.images = svc
	return h
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		logrus.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a successful response with status 201
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// ValidationFailed maps a *models.ValidationError to 400 and reports whether it did
func ValidationFailed(c *fiber.Ctx, err error) (bool, error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return true, Error(c, fiber.StatusBadRequest, ve.Error())
	}
	return false, nil
}

// internalError logs err and returns a 500 with a generic message
func internalError(c *fiber.Ctx, err error, message string) error {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return Error(c, fiber.StatusInternalServerError, message)
}

// paramID returns a UUID path parameter
func paramID(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// pagination reads limit and offset query parameters
func pagination(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateRange reads the start and end query parameters
func (h *Handler) dateRange(c *fiber.Ctx) (models.DateRange, error) {
	return models.ParseDateRange(c.Query("start"), c.Query("end"), h.now())
}
