package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
)

func newListCmd(o *options) *cobra.Command {
	var category, sortFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			mode := a.cfg.Settings.SortMode()
			if sortFlag != "" {
				if mode, err = habit.ParseSortMode(sortFlag); err != nil {
					return fmt.Errorf("list: %w", err)
				}
			}
			return o.printHabits(out(cmd), a.habits.FilterAndSort(category, mode))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only habits in this category (case-insensitive)")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Sort by created or streak (default: from settings.yaml)")
	return cmd
}

func newCategoriesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return o.printStrings(out(cmd), a.habits.UniqueCategories())
		},
	}
}
