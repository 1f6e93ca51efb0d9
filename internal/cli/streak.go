package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStreakCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Reset or recompute a streak",
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset KEY",
		Short: "Set the streak to zero, keeping the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("streak reset: %w", err)
			}
			if !yes {
				return fmt.Errorf("streak reset: %w", errNotConfirmed)
			}
			h, err := a.habits.ResetStreak(key)
			if err != nil {
				return fmt.Errorf("streak reset: %w", err)
			}
			return o.printHabit(out(cmd), h)
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm reset")

	recompute := &cobra.Command{
		Use:   "recompute KEY",
		Short: "Rebuild the streak from the completion history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("streak recompute: %w", err)
			}
			h, err := a.habits.RecomputeStreak(key)
			if err != nil {
				return fmt.Errorf("streak recompute: %w", err)
			}
			return o.printHabit(out(cmd), h)
		},
	}

	cmd.AddCommand(reset, recompute)
	return cmd
}

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info KEY [TEXT...]",
		Short: "Set a habit's notes; no TEXT clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.resolve(args[0])
			if err != nil {
				return fmt.Errorf("info: %w", err)
			}
			h, err := a.habits.UpdateInfo(key, strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("info: %w", err)
			}
			return o.printHabit(out(cmd), h)
		},
	}
}

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(out(cmd), "pixie %s\n", o.version)
			return err
		},
	}
}
