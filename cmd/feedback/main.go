package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/feedback-form/internal/cmd"
	"github.com/gravitrone/feedback-form/internal/form"
	"github.com/gravitrone/feedback-form/internal/outbox"
	"github.com/gravitrone/feedback-form/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "feedback",
		Short: "Feedback - tell us what you think",
		Long:  "Feedback CLI: fill in the feedback form in your terminal, or send it straight from flags.",
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.SubmitCmd())
	root.AddCommand(cmd.InitCmd())
	root.AddCommand(cmd.CollectCmd())
	root.AddCommand(cmd.PingCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(ctx context.Context) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("the form needs a terminal; use 'feedback submit' instead")
	}

	rt, err := cmd.LoadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	queue := outbox.New(rt.Sender(), rt.QueueOptions(), rt.Logger)
	ctrl := form.NewController(form.NewStore(), queue)
	app := ui.NewApp(ctrl, rt.Config)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return queue.Start(ctx)
	})
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
