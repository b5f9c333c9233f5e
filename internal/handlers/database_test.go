package handlers_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/recetario/internal/config"
	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/handlers"
	"github.com/foxxcyber/recetario/internal/middleware"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/services"
)

// countingCache records invalidations and never hits
type countingCache struct {
	services.NoopCache
	invalidations atomic.Int64
}

func (c *countingCache) Invalidate(context.Context) { c.invalidations.Add(1) }

func newDBApp(t *testing.T, cache services.LiveListCache) (*fiber.App, *database.DB) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)
	if err := database.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	h := handlers.New(db, cfg, nil, cache)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.RegisterRoutes(app.Group("/api", middleware.AuthRequired(cfg)), h)
	return app, db
}

func TestReorderMealTypesInvalidatesLiveLists(t *testing.T) {
	cache := &countingCache{}
	app, db := newDBApp(t, cache)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Brunch " + uuid.NewString()[:8], "Supper " + uuid.NewString()[:8]} {
		mt, err := db.CreateMealType(ctx, name)
		if err != nil {
			t.Fatalf("create meal type: %v", err)
		}
		t.Cleanup(func() { _ = db.DeleteMealType(context.Background(), mt.ID) })
		ids = append([]string{mt.ID}, ids...)
	}

	status, out := do(t, app, "PUT", "/api/meal-types/order", `{"ids":["`+ids[0]+`","`+ids[1]+`"]}`)
	if status != fiber.StatusOK || !out.Success {
		t.Fatalf("expected reorder to succeed, got %d %+v", status, out)
	}
	if cache.invalidations.Load() == 0 {
		t.Fatal("expected reorder to invalidate cached live lists")
	}

	before := cache.invalidations.Load()
	status, _ = do(t, app, "PUT", "/api/meal-types/order", `{"ids":["`+uuid.NewString()+`"]}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown meal type, got %d", status)
	}
	if cache.invalidations.Load() != before {
		t.Fatal("expected a failed reorder to leave the cache alone")
	}
}

func TestEditingOriginalListConflicts(t *testing.T) {
	app, db := newDBApp(t, nil)
	ctx := context.Background()

	req := &models.SaveIngredientRequest{
		Name:             "Flour " + uuid.NewString()[:8],
		BaseUnit:         "g",
		UnitEquivalences: []models.UnitEquivalence{{UnitName: "cup", ConversionFactor: 120}},
	}
	if err := req.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	ing, err := db.CreateIngredient(ctx, req)
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	t.Cleanup(func() { _ = db.DeleteIngredient(context.Background(), ing.ID, true) })

	list, err := db.CreateShoppingList(ctx, &models.SaveListRequest{Name: "Baking", StartDate: "2024-01-08", EndDate: "2024-01-14"},
		[]*models.ShoppingListItem{{Ingredient: *ing, TotalQuantity: 240, Recipes: []models.Provenance{}}})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	t.Cleanup(func() { _ = db.DeleteShoppingList(context.Background(), list.ID) })

	itemPath := "/api/lists/" + list.ID + "/items/" + ing.ID
	status, out := do(t, app, "POST", itemPath+"/toggle", "")
	if status != fiber.StatusConflict || out.Error != "only copied lists can be edited" {
		t.Fatalf("expected 409 toggling an original list, got %d %+v", status, out)
	}
	status, _ = do(t, app, "PUT", itemPath, `{"customQuantity":2,"customUnit":"cup"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 overriding an original list, got %d", status)
	}

	status, out = do(t, app, "POST", "/api/lists/"+list.ID+"/copy", "")
	if status != fiber.StatusCreated {
		t.Fatalf("expected copy to succeed, got %d %+v", status, out)
	}
	copied, _ := out.Data.(map[string]interface{})
	copyID, _ := copied["id"].(string)
	if copyID == "" {
		t.Fatalf("expected copy id, got %+v", out.Data)
	}

	copyPath := "/api/lists/" + copyID + "/items/" + ing.ID
	status, out = do(t, app, "PUT", copyPath, `{"customQuantity":2,"customUnit":"bag"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for an undeclared unit, got %d %+v", status, out)
	}
	status, out = do(t, app, "PUT", copyPath, `{"customQuantity":2,"customUnit":"cup"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected override on copy to succeed, got %d %+v", status, out)
	}
}
