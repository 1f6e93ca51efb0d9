package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hadinajem52/PixieHabitTracker/internal/habit"
)

func newDoneCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done KEY",
		Short: "Mark a habit done today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("done: %w", err)
			}

			h, err := a.habits.ToggleComplete(key)
			switch {
			case errors.Is(err, habit.ErrAlreadyCompleted):
				if o.format == formatJSON {
					return o.printHabit(out(cmd), h)
				}
				fmt.Fprintf(out(cmd), "%s is already done today (streak %d)\n", h.Title, h.Streak)
				return nil
			case err != nil:
				return fmt.Errorf("done: %w", err)
			}

			if o.format == formatJSON {
				return o.printHabit(out(cmd), h)
			}
			fmt.Fprintf(out(cmd), "Great job! %s done, streak %d\n", h.Title, h.Streak)
			return nil
		},
	}
}
