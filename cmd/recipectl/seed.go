package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import ingredients from a CSV file, or a small sample set",
	Long: `Import ingredients from CSV. Expected columns (header required):
name,base_unit,base_quantity,calories,protein,carbs,fat,fiber,sugar,tags,units
tags are separated by '|' and units are written as cup=240|tbsp=15.
Without --file a sample set of ingredients and one recipe is imported.
Ingredients are matched by name: existing ones are replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var reqs []models.SaveIngredientRequest
		if seedFile != "" {
			file, err := os.Open(seedFile)
			if err != nil {
				return fmt.Errorf("open %s: %w", seedFile, err)
			}
			defer file.Close()
			reqs, err = parseIngredientCSV(file)
			if err != nil {
				return err
			}
		} else {
			reqs = sampleIngredients()
		}

		log.Infof("Found %d ingredients to import", len(reqs))
		if seedDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "DRY RUN - No changes will be made")
			for _, r := range reqs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%g %s)\n", r.Name, *r.BaseQuantity, r.BaseUnit)
			}
			return nil
		}

		return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
			ids, created, updated, err := importIngredients(ctx, db, reqs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import complete: %d new ingredients, %d updated\n", created, updated)

			if seedFile == "" {
				recipe, err := db.CreateRecipe(ctx, sampleRecipe(ids))
				if err != nil {
					return fmt.Errorf("create sample recipe: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %s (%s)\n", recipe.Name, recipe.ID)
			}
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "CSV file of ingredients")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Preview changes without writing to database")
	rootCmd.AddCommand(seedCmd)
}

// parseIngredientCSV reads ingredient requests from CSV. Every request is
// normalized, so defaults are filled and invalid rows are reported by line.
func parseIngredientCSV(reader io.Reader) ([]models.SaveIngredientRequest, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "base_unit"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var reqs []models.SaveIngredientRequest
	line := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(col string) string {
			if i, ok := colMap[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		num := func(col string) (*float64, error) {
			s := get(col)
			if s == "" {
				return nil, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, col, s)
			}
			return &v, nil
		}

		req := models.SaveIngredientRequest{
			Name:     get("name"),
			BaseUnit: get("base_unit"),
		}
		fields := []struct {
			col string
			dst **float64
		}{
			{"base_quantity", &req.BaseQuantity},
			{"calories", &req.Calories},
			{"protein", &req.Protein},
			{"carbs", &req.Carbs},
			{"fat", &req.Fat},
			{"fiber", &req.Fiber},
			{"sugar", &req.Sugar},
		}
		for _, f := range fields {
			v, err := num(f.col)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		if tags := get("tags"); tags != "" {
			req.Tags = strings.Split(tags, "|")
		}
		units, err := parseUnits(get("units"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		req.UnitEquivalences = units

		if err := req.Normalize(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// parseUnits parses "cup=240|tbsp=15"
func parseUnits(s string) ([]models.UnitEquivalence, error) {
	if s == "" {
		return nil, nil
	}
	var out []models.UnitEquivalence
	for _, part := range strings.Split(s, "|") {
		name, factor, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid unit %q, expected name=factor", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(factor), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid conversion factor in %q", part)
		}
		out = append(out, models.UnitEquivalence{UnitName: strings.TrimSpace(name), ConversionFactor: f})
	}
	return out, nil
}

// importIngredients creates or replaces ingredients matched by name and
// returns their IDs keyed by name
func importIngredients(ctx context.Context, db *database.DB, reqs []models.SaveIngredientRequest) (map[string]string, int, int, error) {
	ids := make(map[string]string, len(reqs))
	var created, updated int

	for i := range reqs {
		req := &reqs[i]
		existing, _, err := db.ListIngredients(ctx, &models.IngredientListParams{Search: req.Name, Limit: 50})
		if err != nil {
			return nil, created, updated, err
		}

		var match *models.Ingredient
		for _, ing := range existing {
			if strings.EqualFold(ing.Name, req.Name) {
				match = ing
				break
			}
		}

		var ing *models.Ingredient
		if match != nil {
			ing, err = db.UpdateIngredient(ctx, match.ID, req)
			updated++
		} else {
			ing, err = db.CreateIngredient(ctx, req)
			created++
		}
		if err != nil {
			return nil, created, updated, fmt.Errorf("save %s: %w", req.Name, err)
		}
		ids[ing.Name] = ing.ID
	}
	return ids, created, updated, nil
}

func f64(v float64) *float64 { return &v }

func sampleIngredients() []models.SaveIngredientRequest {
	reqs := []models.SaveIngredientRequest{
		{
			Name: "Rice", BaseUnit: "g", BaseQuantity: f64(100),
			Calories: f64(130), Protein: f64(2.7), Carbs: f64(28), Fat: f64(0.3), Fiber: f64(0.4), Sugar: f64(0.1),
			Tags:             []string{"Cereal"},
			UnitEquivalences: []models.UnitEquivalence{{UnitName: "cup", ConversionFactor: 185}},
		},
		{
			Name: "Olive oil", BaseUnit: "ml", BaseQuantity: f64(100),
			Calories: f64(884), Fat: f64(100),
			Tags:             []string{"Oil"},
			UnitEquivalences: []models.UnitEquivalence{{UnitName: "tbsp", ConversionFactor: 15}, {UnitName: "tsp", ConversionFactor: 5}},
		},
		{
			Name: "Chicken breast", BaseUnit: "g", BaseQuantity: f64(100),
			Calories: f64(165), Protein: f64(31), Fat: f64(3.6),
			Tags:             []string{"Meat"},
			UnitEquivalences: []models.UnitEquivalence{{UnitName: "u", ConversionFactor: 200}},
		},
		{
			Name: "Tomato", BaseUnit: "g", BaseQuantity: f64(100),
			Calories: f64(18), Protein: f64(0.9), Carbs: f64(3.9), Fat: f64(0.2), Fiber: f64(1.2), Sugar: f64(2.6),
			Tags:             []string{"Vegetable"},
			UnitEquivalences: []models.UnitEquivalence{{UnitName: "u", ConversionFactor: 120}},
		},
	}
	for i := range reqs {
		// sample data is valid, Normalize only fills defaults here
		_ = reqs[i].Normalize()
	}
	return reqs
}

func sampleRecipe(ids map[string]string) *models.SaveRecipeRequest {
	portions := 2
	return &models.SaveRecipeRequest{
		Name:      "Chicken and rice",
		Porciones: &portions,
		Tags:      []string{"Lunch", "Dinner"},
		Instructions: []string{
			"Cook the rice.",
			"Brown the chicken in the oil.",
			"Add the chopped tomatoes and simmer for ten minutes.",
		},
		Ingredients: []models.RecipeIngredientInput{
			{IngredientID: ids["Rice"], Quantity: 1, UnitName: "cup"},
			{IngredientID: ids["Olive oil"], Quantity: 1, UnitName: "tbsp"},
			{IngredientID: ids["Chicken breast"], Quantity: 300, UnitName: "g"},
			{IngredientID: ids["Tomato"], Quantity: 2, UnitName: "u"},
		},
	}
}
