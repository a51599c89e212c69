package cmd

import (
	"github.com/spf13/cobra"

	"go.pavemaster.dev/integrations/domain"
)

func newSyncCmd(c *cli) *cobra.Command {
	var syncType string

	cmd := &cobra.Command{
		Use:   "sync [PLATFORM]",
		Short: "Run a sync against one platform",
		Long: `Runs a full or incremental sync and prints the resulting status.
A failed sync is reported in the status, not as a command error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := parsePlatformArg(args[0])
			if err != nil {
				return err
			}
			status, err := c.app.Manager.Sync(cmd.Context(), platform, domain.SyncType(syncType))
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().StringVarP(&syncType, "type", "t", string(domain.SyncTypeIncremental), "sync type: full or incremental")
	return cmd
}

func newSyncAllCmd(c *cli) *cobra.Command {
	var syncType string

	cmd := &cobra.Command{
		Use:   "sync-all",
		Short: "Sync every enabled platform concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.Manager.SyncAll(cmd.Context(), domain.SyncType(syncType))
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), statuses)
		},
	}
	cmd.Flags().StringVarP(&syncType, "type", "t", string(domain.SyncTypeIncremental), "sync type: full or incremental")
	return cmd
}
