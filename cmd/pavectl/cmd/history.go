package cmd

import (
	"github.com/spf13/cobra"

	"go.pavemaster.dev/integrations/domain"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded syncs in completion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var platform domain.Platform
			if platformFlag != "" {
				p, err := parsePlatformArg(platformFlag)
				if err != nil {
					return err
				}
				platform = p
			}
			history, err := c.app.Manager.History(cmd.Context(), platform)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), history)
		},
	}
	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "only show syncs of this platform")
	return cmd
}
