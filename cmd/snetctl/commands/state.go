package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Read a component's blackboard state",
	}

	cmd.AddCommand(stateGetCmd())

	return cmd
}

func stateGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <component-id> <key>",
		Short: "Read one blackboard key for a component",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			path := fmt.Sprintf("/state/%s/%s", args[0], args[1])

			var view stateView
			if err := getJSON(path, &view); err != nil {
				return fmt.Errorf("get state: %w", err)
			}

			out, err := formatState(view, outputFormat)
			if err != nil {
				return fmt.Errorf("format state: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}
