package cmd

import (
	"github.com/spf13/cobra"
)

func newRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [PLATFORM]",
		Short: "Exchange the stored refresh token for a new access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := parsePlatformArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.app.Manager.RefreshAccessToken(ctx, platform); err != nil {
				return err
			}
			status, err := c.app.Manager.CredentialStatus(ctx, platform)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), status)
		},
	}
}
