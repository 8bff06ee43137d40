package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/ui"
	"github.com/mindtask/mindtask/internal/update"
	"github.com/mindtask/mindtask/internal/version"
)

// tuiCmd launches the Bubble Tea TUI.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal interface",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return withApp(func(a *app) error {
		opts := ui.Options{Config: a.cfg, Logger: a.log}
		// development builds have nothing to compare against
		if a.cfg.Update.Enabled && version.IsRelease() {
			opts.Checker = update.New(a.cfg.Update.URL, a.cfg.Update.UserAgent, version.Version, a.cfg.Update.Timeout, a.log)
		}
		a.log.Info("tui start", "version", version.GetVersion(), "backend", a.cfg.Storage.Backend)
		return ui.Run(ctx, a.ws, opts)
	})
}
