package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/nutrition"
)

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Add, list and remove food log entries",
	}
	cmd.AddCommand(newLogAddCmd(a), newLogListCmd(a), newLogRmCmd(a))
	return cmd
}

func newLogAddCmd(a *app) *cobra.Command {
	var (
		date       string
		servings   float64
		perServing bool
		macros     struct{ calories, fat, protein, sodium, sugar float64 }
	)

	cmd := &cobra.Command{
		Use:   "add <food name>",
		Short: "Log a food with its nutrients for the given servings",
		Long: `Log a food with its nutrients.

The nutrient flags are totals for --servings unless --per-serving is set, in
which case they describe one serving and are multiplied by --servings.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			if date == "" {
				date = journal.Today()
			}

			given := model.Macros{
				Calories: model.Quantity(macros.calories),
				Fat:      model.Quantity(macros.fat),
				Protein:  model.Quantity(macros.protein),
				Sodium:   model.Quantity(macros.sodium),
				Sugar:    model.Quantity(macros.sugar),
			}
			if perServing {
				given = nutrition.ScaleMacros(given, servings)
			}

			entry, err := journal.LogFood(cmd.Context(), date, model.FoodLogEntry{
				FoodName: args[0],
				Servings: servings,
				Macros:   given,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s (id %s)\n", entry.FoodName, entry.Date, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to log on, YYYY-MM-DD (default: today)")
	cmd.Flags().Float64VarP(&servings, "servings", "s", 1, "number of servings")
	cmd.Flags().BoolVar(&perServing, "per-serving", false, "nutrient flags are per serving; multiply them by --servings")
	cmd.Flags().Float64Var(&macros.calories, "calories", 0, "calories (kcal)")
	cmd.Flags().Float64Var(&macros.fat, "fat", 0, "fat (g)")
	cmd.Flags().Float64Var(&macros.protein, "protein", 0, "protein (g)")
	cmd.Flags().Float64Var(&macros.sodium, "sodium", 0, "sodium (mg)")
	cmd.Flags().Float64Var(&macros.sugar, "sugar", 0, "sugar (g)")
	return cmd
}

func newLogListCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries logged on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			if date == "" {
				date = journal.Today()
			}
			entries, err := journal.EntriesForDate(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No entries for %s.\n", date)
				return nil
			}
			printEntries(out, entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to list, YYYY-MM-DD (default: today)")
	return cmd
}

func newLogRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <entry id>",
		Short: "Remove a log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := journal.RemoveFood(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or set the daily nutrition goal",
	}
	cmd.AddCommand(newGoalShowCmd(a), newGoalSetCmd(a))
	return cmd
}

func newGoalShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			goal, isDefault, err := journal.CurrentGoal(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isDefault {
				fmt.Fprintln(out, "No goal saved; showing defaults.")
			}
			printGoal(out, goal)
			return nil
		},
	}
}

func newGoalSetCmd(a *app) *cobra.Command {
	var g model.UserGoal

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the daily goal (replaces any existing goal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			saved, err := journal.SaveGoal(cmd.Context(), g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Goal saved.")
			printGoal(cmd.OutOrStdout(), *saved)
			return nil
		},
	}

	d := model.DefaultGoal()
	cmd.Flags().Float64Var(&g.CalorieLimit, "calories", d.CalorieLimit, "daily calorie limit (kcal)")
	cmd.Flags().Float64Var(&g.SodiumLimit, "sodium", d.SodiumLimit, "daily sodium limit (mg)")
	cmd.Flags().Float64Var(&g.FatLimit, "fat", d.FatLimit, "daily fat limit (g)")
	cmd.Flags().Float64Var(&g.SugarLimit, "sugar", d.SugarLimit, "daily sugar limit (g)")
	cmd.Flags().Float64Var(&g.ProteinGoal, "protein", d.ProteinGoal, "daily protein goal (g)")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a day's totals and progress toward the goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := a.openJournal()
			if err != nil {
				return err
			}
			defer closeFn()

			if date == "" {
				date = journal.Today()
			}
			sum, err := journal.Summary(cmd.Context(), date)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to summarise, YYYY-MM-DD (default: today)")
	return cmd
}

func printEntries(out io.Writer, entries []model.FoodLogEntry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFOOD\tSERVINGS\tCALORIES\tFAT\tPROTEIN\tSODIUM\tSUGAR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\n",
			e.ID, e.FoodName, e.Servings,
			e.Macros.Calories, e.Macros.Fat, e.Macros.Protein, e.Macros.Sodium, e.Macros.Sugar)
	}
	tw.Flush()
}

func printGoal(out io.Writer, g model.UserGoal) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Calories\t%g kcal\n", g.CalorieLimit)
	fmt.Fprintf(tw, "Sodium\t%g mg\n", g.SodiumLimit)
	fmt.Fprintf(tw, "Fat\t%g g\n", g.FatLimit)
	fmt.Fprintf(tw, "Sugar\t%g g\n", g.SugarLimit)
	fmt.Fprintf(tw, "Protein\t%g g\n", g.ProteinGoal)
	tw.Flush()
}

func printSummary(out io.Writer, s *model.DaySummary) {
	fmt.Fprintf(out, "Summary for %s\n", s.Date)
	if len(s.Entries) == 0 {
		fmt.Fprintln(out, "No entries.")
	} else {
		printEntries(out, s.Entries)
	}
	fmt.Fprintln(out)

	goalNote := ""
	if s.GoalIsDefault {
		goalNote = " (default goal)"
	}
	fmt.Fprintf(out, "Progress%s\n", goalNote)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUTRIENT\tTOTAL\tTARGET\tPERCENT")
	fmt.Fprintf(tw, "Calories\t%g\t%g\t%d%%\n", s.Totals.Calories, s.Goal.CalorieLimit, s.Progress.Calories)
	fmt.Fprintf(tw, "Sodium\t%g\t%g\t%d%%\n", s.Totals.Sodium, s.Goal.SodiumLimit, s.Progress.Sodium)
	fmt.Fprintf(tw, "Fat\t%g\t%g\t%d%%\n", s.Totals.Fat, s.Goal.FatLimit, s.Progress.Fat)
	fmt.Fprintf(tw, "Sugar\t%g\t%g\t%d%%\n", s.Totals.Sugar, s.Goal.SugarLimit, s.Progress.Sugar)
	fmt.Fprintf(tw, "Protein\t%g\t%g\t%d%%\n", s.Totals.Protein, s.Goal.ProteinGoal, s.Progress.Protein)
	tw.Flush()
}
