// Package cmd implements pavectl, the operator CLI for platform integrations.
// Commands run against the configured storage backend directly, so pavectl
// and the server share credentials and sync history.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.pavemaster.dev/integrations/config"
	"go.pavemaster.dev/integrations/internal/app"
	"go.pavemaster.dev/integrations/log"
)

// AppName is the binary name used in help output.
const AppName = "pavectl"

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	cfgFile string
	output  string
	app     *app.App
}

// Execute runs pavectl with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// Run executes one pavectl invocation and releases the store afterwards,
// whether or not the command succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		err = errors.Join(err, c.app.Close(context.WithoutCancel(ctx)))
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           AppName,
		Short:         "pavectl manages PaveMaster platform integrations",
		Long:          `A command-line interface for inspecting, refreshing and syncing the QuickBooks, ADP, SAP and Stripe integrations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "",
		"config file (default is ./pavemaster.yaml, /etc/pavemaster/ or $HOME/.pavemaster/)")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputJSON, "output format: json or yaml")

	root.AddCommand(
		newPlatformsCmd(c),
		newSyncCmd(c),
		newSyncAllCmd(c),
		newRefreshCmd(c),
		newHistoryCmd(c),
		newConnectURLCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	if err := validateOutput(c.output); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(c.cfgFile)
	if err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewZerologWriter(cmd.ErrOrStderr(), level, true)

	a, err := app.New(cmd.Context(), cfg, logger, app.Options{AuditOutput: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	c.app = a
	return nil
}
