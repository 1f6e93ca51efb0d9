package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
)

func newHistoryCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Add or remove completion dates",
	}

	cmd.AddCommand(
		newHistoryEditCmd(o, "add", "Record a completion on DATE (YYYY-MM-DD)",
			func(a *app, key, date string) (habit.Habit, error) {
				return a.habits.AddManualCompletion(key, date)
			}),
		newHistoryEditCmd(o, "rm", "Remove the completion on DATE (YYYY-MM-DD)",
			func(a *app, key, date string) (habit.Habit, error) {
				return a.habits.RemoveCompletion(key, date)
			}),
	)
	return cmd
}

func newHistoryEditCmd(o *options, name, short string, apply func(a *app, key, date string) (habit.Habit, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " KEY DATE",
		Short: short,
		Long:  short + ". The streak is left as is; run 'pixie streak recompute KEY' to rebuild it from the history.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("history %s: %w", name, err)
			}
			h, err := apply(a, key, args[1])
			if err != nil {
				return fmt.Errorf("history %s: %w", name, err)
			}
			return o.printHabit(out(cmd), h)
		},
	}
}
