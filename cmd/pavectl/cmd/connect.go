package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

type connectURLs struct {
	Platform   string `json:"platform" yaml:"platform"`
	ConnectURL string `json:"connect_url" yaml:"connect_url"`
	ConsentURL string `json:"consent_url,omitempty" yaml:"consent_url,omitempty"`
}

func newConnectURLCmd(c *cli) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "connect-url [PLATFORM]",
		Short: "Print the URL that starts the consent flow for a platform",
		Long: `Prints the server's connect endpoint for the platform. Opening it in a
browser issues a state and redirects to the platform's consent page.
With --state, the platform consent URL carrying that state is printed too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := parsePlatformArg(args[0])
			if err != nil {
				return err
			}
			out := connectURLs{
				Platform:   platform.String(),
				ConnectURL: strings.TrimSuffix(c.app.Config.RedirectBaseURL, "/") + "/integrations/" + platform.String() + "/connect",
			}
			if state != "" {
				consent, err := c.app.Manager.AuthCodeURL(cmd.Context(), platform, state)
				if err != nil {
					return err
				}
				out.ConsentURL = consent
			} else if _, err := c.app.Manager.Strategy(platform); err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state to embed in the platform consent URL")
	return cmd
}
