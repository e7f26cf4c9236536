// Package cmd defines and implements the CLI commands for the showcase executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "showcase",
		Short: "Publishes AI-written showcase entries for a list of websites.",
		Long: `showcase visits each website in turn, summarizes its landing page with a
chat model, illustrates it with a generated image, and publishes the result as
a showcase entry on a WordPress site over XML-RPC.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file holding credentials (ignored when missing)")

	cmd.AddCommand(newRunCmd(opts))
	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "showcase: %v\n", err)
		stop()
		os.Exit(1)
	}
}
