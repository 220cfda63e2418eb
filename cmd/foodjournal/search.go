package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/model"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		logResult int
		serving   int
		servings  float64
		date      string
	)

	cmd := &cobra.Command{
		Use:   "search <food>...",
		Short: "Search FatSecret for a food, optionally logging one of the results",
		Example: `  foodjournal search apple
  foodjournal search greek yogurt --log 2 --serving 1 --servings 1.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()
			search := a.openSearch(journal)

			data, err := search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			foods := data.FoodsSearch.Results.Food
			if len(foods) == 0 {
				fmt.Fprintln(out, "No foods found.")
				return nil
			}

			if logResult == 0 {
				printSearchResults(out, foods)
				return nil
			}

			if logResult < 1 || logResult > len(foods) {
				return apperror.ValidationFailed("log", fmt.Sprintf("--log must be between 1 and %d", len(foods)))
			}
			food := foods[logResult-1]
			if n := len(food.Servings.Serving); n > 0 && (serving < 1 || serving > n) {
				return apperror.ValidationFailed("serving", fmt.Sprintf("--serving must be between 1 and %d", n))
			}
			if date == "" {
				date = journal.Today()
			}

			entry, err := search.LogSearchResult(cmd.Context(), date, food, serving-1, servings)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Logged %g x %s on %s (%g kcal, id %s)\n",
				entry.Servings, entry.FoodName, entry.Date, entry.Macros.Calories, entry.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&logResult, "log", 0, "log the Nth result instead of listing (1-based)")
	cmd.Flags().IntVar(&serving, "serving", 1, "serving option of the logged result (1-based)")
	cmd.Flags().Float64VarP(&servings, "servings", "s", 1, "number of servings to log")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day to log on, YYYY-MM-DD (default: today)")
	return cmd
}

func printSearchResults(out io.Writer, foods []model.FoodSearchResult) {
	for i, f := range foods {
		fmt.Fprintf(out, "%d. %s\n", i+1, f.FoodName)
		for j, s := range f.Servings.Serving {
			fmt.Fprintf(out, "   %d) %s: %s kcal, fat %s g, protein %s g, sodium %s mg, sugar %s g\n",
				j+1, orDash(s.ServingDescription), orDash(s.Calories), orDash(s.Fat),
				orDash(s.Protein), orDash(s.Sodium), orDash(s.Sugar))
		}
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
