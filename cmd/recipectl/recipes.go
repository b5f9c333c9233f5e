package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/models"
	"github.com/foxxcyber/recetario/internal/nutrition"
)

var recalcCmd = &cobra.Command{
	Use:   "recalc-nutrition",
	Short: "Recompute the cached total nutrition of every recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
			n, err := db.RecalculateRecipeNutrition(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated %d recipes\n", n)
			return nil
		})
	},
}

var showPortions int

var showRecipeCmd = &cobra.Command{
	Use:   "show-recipe <id>",
	Short: "Show a recipe with live nutrition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid recipe id %q", args[0])
		}
		return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
			recipe, err := db.GetRecipeByID(ctx, id.String())
			if err != nil {
				return err
			}
			rows, err := db.GetRecipeIngredients(ctx, []string{recipe.ID})
			if err != nil {
				return err
			}
			var live *int
			if showPortions > 0 {
				live = &showPortions
			}
			view := nutrition.BuildRecipeView(*recipe, rows[recipe.ID], live)
			printRecipe(cmd, &view)
			return nil
		})
	},
}

func printRecipe(cmd *cobra.Command, v *models.RecipeWithNutrition) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\nName: %s\nPortions: %d\n\n", v.ID, v.Name, v.BasePortions)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tQUANTITY\tKCAL")
	for _, row := range v.Ingredients {
		name := row.IngredientID
		if row.Ingredient != nil {
			name = row.Ingredient.Name
		}
		qty := fmt.Sprintf("%g %s %s", row.Quantity, row.UnitName, row.ConversionText)
		fmt.Fprintf(w, "%s\t%s\t%.0f\n", name, strings.TrimSpace(qty), row.Nutrition.Calories)
	}
	w.Flush()

	total := nutrition.Round(v.LiveTotalNutrition)
	per := nutrition.Round(v.PerPortion)
	fmt.Fprintf(out, "\nTotal:       %.0f kcal, P %.0fg, C %.0fg, F %.0fg, fiber %.0fg, sugar %.0fg\n",
		total.Calories, total.Protein, total.Carbs, total.Fat, total.Fiber, total.Sugar)
	fmt.Fprintf(out, "Per portion: %.0f kcal, P %.0fg, C %.0fg, F %.0fg, fiber %.0fg, sugar %.0fg\n",
		per.Calories, per.Protein, per.Carbs, per.Fat, per.Fiber, per.Sugar)

	for _, warning := range v.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
}

var listTag string

var listIngredientsCmd = &cobra.Command{
	Use:   "list-ingredients [search]",
	Short: "List ingredients",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &models.IngredientListParams{Limit: 200, Tag: listTag}
		if len(args) == 1 {
			params.Search = args[0]
		}
		return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
			ingredients, total, err := db.ListIngredients(ctx, params)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBASE\tKCAL\tP\tC\tF\tUNITS")
			for _, ing := range ingredients {
				var units []string
				for _, u := range nutrition.AvailableUnits(ing)[1:] {
					units = append(units, fmt.Sprintf("%s=%g", u.Name, u.ConversionFactor))
				}
				fmt.Fprintf(w, "%s\t%s\t%g %s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
					ing.ID, ing.Name, ing.BaseQuantity, ing.BaseUnit,
					ing.Calories, ing.Protein, ing.Carbs, ing.Fat, strings.Join(units, " "))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d ingredients\n", len(ingredients), total)
			return nil
		})
	},
}

func init() {
	showRecipeCmd.Flags().IntVar(&showPortions, "porciones", 0, "Override the recipe yield for per-portion values")
	listIngredientsCmd.Flags().StringVar(&listTag, "tag", "", "Only ingredients with this tag")
	rootCmd.AddCommand(recalcCmd, showRecipeCmd, listIngredientsCmd)
}
