package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(o *options) *cobra.Command {
	var category, timeLabel string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			h, err := a.habits.Add(strings.Join(args, " "), category, timeLabel)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			return o.printHabit(out(cmd), h)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (default: General)")
	cmd.Flags().StringVarP(&timeLabel, "time", "t", "", "Time of day, e.g. Morning")
	return cmd
}
