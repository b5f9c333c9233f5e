package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recetario/internal/config"
	"github.com/foxxcyber/recetario/internal/handlers"
	"github.com/foxxcyber/recetario/internal/middleware"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/services"
)

const someID = "5b4bd5ea-1d69-4a39-93a4-2c1a8b58c0f4"

// newApp builds the API without a database; only paths that fail before
// reaching the database may be exercised
func newApp(t *testing.T, cfg *config.Config, images *services.ImageSearchService) *fiber.App {
	t.Helper()
	h := handlers.New(nil, cfg, nil, nil)
	if images != nil {
		h.WithImageSearch(images)
	}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/health", h.Health)
	handlers.RegisterRoutes(app.Group("/api", middleware.AuthRequired(cfg)), h)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, handlers.APIResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out handlers.APIResponse
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newApp(t, &config.Config{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", resp.StatusCode, body)
	}
}

func TestListUnits(t *testing.T) {
	t.Parallel()
	app := newApp(t, &config.Config{}, nil)

	status, out := do(t, app, "GET", "/api/units", "")
	if status != fiber.StatusOK || !out.Success {
		t.Fatalf("expected success, got %d %+v", status, out)
	}
	units, ok := out.Data.([]interface{})
	if !ok || len(units) != len(models.StandardUnits) {
		t.Fatalf("expected %d units, got %v", len(models.StandardUnits), out.Data)
	}
}

func TestAPIRequiresTokenWhenSecretSet(t *testing.T) {
	t.Parallel()
	app := newApp(t, &config.Config{JWTSecret: "secret"}, nil)

	status, _ := do(t, app, "GET", "/api/units", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestSearchImages(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"urls": {"regular": "https://img/1"}}]}`))
	}))
	defer ts.Close()

	app := newApp(t, &config.Config{}, services.NewImageSearchService("demo").WithBaseURL(ts.URL))

	status, out := do(t, app, "GET", "/api/search-images?query=tomato", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, out)
	}
	urls, ok := out.Data.([]interface{})
	if !ok || len(urls) != 1 || urls[0] != "https://img/1" {
		t.Fatalf("unexpected urls %v", out.Data)
	}

	status, out = do(t, app, "GET", "/api/search-images?query=%20", "")
	if status != fiber.StatusBadRequest || out.Error != "Query parameter is required" {
		t.Fatalf("expected 400 for blank query, got %d %+v", status, out)
	}
}

func TestSearchImagesWithoutKey(t *testing.T) {
	t.Parallel()
	app := newApp(t, &config.Config{}, nil)

	status, out := do(t, app, "GET", "/api/search-images?query=tomato", "")
	if status != fiber.StatusInternalServerError || out.Error != "Unsplash API key is missing" {
		t.Fatalf("expected 500 for missing key, got %d %+v", status, out)
	}
}

func TestRejectedBeforeDatabase(t *testing.T) {
	t.Parallel()
	app := newApp(t, &config.Config{}, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad ingredient id", "GET", "/api/ingredients/not-a-uuid", "", fiber.StatusBadRequest},
		{"bad recipe id", "GET", "/api/recipes/42", "", fiber.StatusBadRequest},
		{"ingredient without name", "POST", "/api/ingredients", `{"base_unit":"g"}`, fiber.StatusBadRequest},
		{"ingredient with negative nutrition", "POST", "/api/ingredients", `{"name":"Rice","base_unit":"g","calories":-1}`, fiber.StatusBadRequest},
		{"ingredient unit collides with base", "POST", "/api/ingredients", `{"name":"Rice","base_unit":"g","unit_equivalences":[{"unit_name":"g","conversion_factor":1}]}`, fiber.StatusBadRequest},
		{"recipe without ingredients", "POST", "/api/recipes", `{"name":"Soup","ingredients":[]}`, fiber.StatusBadRequest},
		{"recipe with blank step", "POST", "/api/recipes", `{"name":"Soup","instructions":["boil"," "],"ingredients":[{"ingredient_id":"` + someID + `","quantity":1,"unit_name":"g"}]}`, fiber.StatusBadRequest},
		{"recipe with zero quantity", "PUT", "/api/recipes/" + someID, `{"name":"Soup","ingredients":[{"ingredient_id":"` + someID + `","quantity":0,"unit_name":"g"}]}`, fiber.StatusBadRequest},
		{"malformed body", "POST", "/api/persons", `{"name":`, fiber.StatusBadRequest},
		{"blank meal type", "POST", "/api/meal-types", `{"name":"  "}`, fiber.StatusBadRequest},
		{"reorder without ids", "PUT", "/api/meal-types/order", `{"ids":[]}`, fiber.StatusBadRequest},
		{"reorder with bad id", "PUT", "/api/meal-types/order", `{"ids":["x"]}`, fiber.StatusBadRequest},
		{"meal plan bad date", "POST", "/api/meal-plans", `{"date":"19/10/2026","meal_type_id":"` + someID + `","recipe_id":"` + someID + `"}`, fiber.StatusBadRequest},
		{"meal plan zero portions", "PUT", "/api/meal-plans/" + someID, `{"porciones":0}`, fiber.StatusBadRequest},
		{"meal plans reversed range", "GET", "/api/meal-plans?start=2026-10-19&end=2026-10-12", "", fiber.StatusBadRequest},
		{"daily bad start", "GET", "/api/meal-plans/daily?start=monday", "", fiber.StatusBadRequest},
		{"live list bad end", "GET", "/api/shopping/live?start=2026-10-19&end=soon", "", fiber.StatusBadRequest},
		{"save list bad range", "POST", "/api/lists", `{"start_date":"2026-10-19","end_date":"2026-10-01"}`, fiber.StatusBadRequest},
		{"item override without quantity", "PUT", "/api/lists/" + someID + "/items/" + someID, `{"customUnit":"cup"}`, fiber.StatusBadRequest},
		{"item override without unit", "PUT", "/api/lists/" + someID + "/items/" + someID, `{"customQuantity":2}`, fiber.StatusBadRequest},
		{"toggle bad ingredient id", "POST", "/api/lists/" + someID + "/items/rice/toggle", "", fiber.StatusBadRequest},
		{"export without storage", "POST", "/api/lists/" + someID + "/export", "", fiber.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			status, out := do(t, app, tc.method, tc.path, tc.body)
			if status != tc.status {
				t.Fatalf("expected %d, got %d %+v", tc.status, status, out)
			}
			if out.Success || out.Error == "" {
				t.Fatalf("expected error envelope, got %+v", out)
			}
		})
	}
}
