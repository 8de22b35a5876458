package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func componentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Inspect the simulation's component tree",
	}

	cmd.AddCommand(componentsListCmd())

	return cmd
}

func componentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered components",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var views []componentView
			if err := getJSON("/components", &views); err != nil {
				return fmt.Errorf("list components: %w", err)
			}

			out, err := formatComponents(views, outputFormat)
			if err != nil {
				return fmt.Errorf("format components: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}
