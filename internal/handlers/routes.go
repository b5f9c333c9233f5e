package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the API on router, normally the /api group
func RegisterRoutes(api fiber.Router, h *Handler) {
	api.Get("/units", h.ListUnits)
	api.Get("/tags", h.ListTags)
	api.Get("/search-images", h.SearchImages)

	ingredients := api.Group("/ingredients")
	ingredients.Get("/", h.ListIngredients)
	ingredients.Post("/", h.CreateIngredient)
	ingredients.Get("/:id", h.GetIngredient)
	ingredients.Get("/:id/usage", h.GetIngredientUsage)
	ingredients.Put("/:id", h.UpdateIngredient)
	ingredients.Delete("/:id", h.DeleteIngredient)

	recipes := api.Group("/recipes")
	recipes.Get("/", h.ListRecipes)
	recipes.Post("/", h.CreateRecipe)
	recipes.Get("/:id", h.GetRecipe)
	recipes.Put("/:id", h.UpdateRecipe)
	recipes.Delete("/:id", h.DeleteRecipe)

	persons := api.Group("/persons")
	persons.Get("/", h.ListPersons)
	persons.Post("/", h.CreatePerson)
	persons.Put("/:id", h.UpdatePerson)
	persons.Delete("/:id", h.DeletePerson)

	mealTypes := api.Group("/meal-types")
	mealTypes.Get("/", h.ListMealTypes)
	mealTypes.Post("/", h.CreateMealType)
	mealTypes.Put("/order", h.ReorderMealTypes)
	mealTypes.Delete("/:id", h.DeleteMealType)

	plans := api.Group("/meal-plans")
	plans.Get("/", h.ListMealPlans)
	plans.Get("/daily", h.GetDailyPlans)
	plans.Post("/", h.CreateMealPlan)
	plans.Put("/:id", h.UpdateMealPlan)
	plans.Delete("/:id", h.DeleteMealPlan)

	api.Get("/shopping/live", h.GetLiveShoppingList)

	lists := api.Group("/lists")
	lists.Get("/", h.ListShoppingLists)
	lists.Post("/", h.SaveShoppingList)
	lists.Get("/:id", h.GetShoppingList)
	lists.Delete("/:id", h.DeleteShoppingList)
	lists.Post("/:id/copy", h.CopyShoppingList)
	lists.Post("/:id/export", h.ExportShoppingList)
	lists.Put("/:id/items/:ingredient_id", h.UpdateListItem)
	lists.Post("/:id/items/:ingredient_id/toggle", h.ToggleListItem)
}
