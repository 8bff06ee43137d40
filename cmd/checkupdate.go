package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/notify"
	"github.com/mindtask/mindtask/internal/update"
	"github.com/mindtask/mindtask/internal/version"
)

var (
	updateOpen   bool
	updateNotify bool
)

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for a newer release",
	Long: `Examples:
	mindtask check-update
	mindtask check-update --open      # open the release page in a browser
	mindtask check-update --notify    # desktop notification instead of output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := update.New(cfg.Update.URL, cfg.Update.UserAgent, version.GetVersion(), cfg.Update.Timeout, nil)
		rel, ok := c.Check(cmd.Context())
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "%s is up to date\n", version.GetShortVersion())
			return nil
		}
		if updateNotify {
			title, msg := notify.FormatUpdate(c.CurrentTag(), rel.Tag)
			if err := notify.Info(title, msg); err != nil {
				return fmt.Errorf("notify: %w", err)
			}
		} else {
			fmt.Fprintf(out, "New version %s available (current %s)\n", rel.Tag, c.CurrentTag())
			if rel.Changelog != "" {
				fmt.Fprintf(out, "\n%s\n", rel.Changelog)
			}
			fmt.Fprintln(out, rel.URL)
		}
		if updateOpen && rel.URL != "" {
			return update.OpenURL(rel.URL)
		}
		return nil
	},
}

func init() {
	checkUpdateCmd.Flags().BoolVar(&updateOpen, "open", false, "Open the release page")
	checkUpdateCmd.Flags().BoolVar(&updateNotify, "notify", false, "Send a desktop notification")
}
