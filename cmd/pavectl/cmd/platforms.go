package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/integration"
)

func newPlatformsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "platforms",
		Short:   "List enabled platforms and their credential status",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			platforms := c.app.Manager.Platforms()
			out := make([]integration.PlatformStatus, 0, len(platforms))
			for _, p := range platforms {
				st, err := c.app.Manager.CredentialStatus(ctx, p)
				if err != nil {
					return err
				}
				out = append(out, st)
			}
			return c.print(cmd.OutOrStdout(), out)
		},
	}
}

func parsePlatformArg(arg string) (domain.Platform, error) {
	p, err := domain.ParsePlatform(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, arg)
	}
	return p, nil
}
