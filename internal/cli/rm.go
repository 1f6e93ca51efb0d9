package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("refusing without --yes")

func newRmCmd(o *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm KEY",
		Short: "Delete a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			h, err := a.habits.Get(key)
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			if !yes {
				return fmt.Errorf("rm: %w: this deletes %q and its history", errNotConfirmed, h.Title)
			}

			if err := a.habits.Delete(key); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			if o.format == formatJSON {
				return writeJSON(out(cmd), map[string]any{"ok": true, "key": key})
			}
			fmt.Fprintf(out(cmd), "Deleted %s\n", h.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
