package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gravitrone/feedback-form/internal/api"
	"github.com/gravitrone/feedback-form/internal/collector"
)

// CollectCmd returns the `feedback collect` command.
func CollectCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run a local collector that accepts submitted feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := LoadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "collector listening on %s\n", addr)
			return collector.New(rt.Config.APIKey, rt.Logger).Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}

// PingCmd returns the `feedback ping` command.
func PingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured collector is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := LoadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			client := rt.Client()
			if client == nil {
				client = api.NewDefaultClient(rt.Config.APIKey, rt.Config.Timeout)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), rt.Config.Timeout)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("collector %s unreachable: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", client.BaseURL(), status)
			return nil
		},
	}
}
