package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEditCmd(o *options) *cobra.Command {
	var title, category, timeLabel string

	cmd := &cobra.Command{
		Use:   "edit KEY",
		Short: "Change a habit's title, category or time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("category") && !flags.Changed("time") {
				return fmt.Errorf("edit: nothing to change (use --title, --category or --time)")
			}

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			h, err := a.habits.Get(key)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}

			t, c, tm := h.Title, h.Category, h.Time
			if flags.Changed("title") {
				t = title
			}
			if flags.Changed("category") {
				c = category
			}
			if flags.Changed("time") {
				tm = timeLabel
			}
			if h, err = a.habits.EditDetails(key, t, c, tm); err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			return o.printHabit(out(cmd), h)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "T", "", "New title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category (empty means General)")
	cmd.Flags().StringVarP(&timeLabel, "time", "t", "", "New time of day (empty clears it)")
	return cmd
}
