package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/notify"
	"github.com/mindtask/mindtask/internal/schedule"
	"github.com/mindtask/mindtask/internal/view"
)

var remindWatch bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send a desktop reminder for due and overdue deadlines",
	Long: `Sends one notification and exits. With --watch it stays running and
reminds at reminder.time on reminder.workdays, skipping reminder.holidays.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !remindWatch {
			sent, err := remindOnce()
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing due")
			}
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Next reminder at %s\n", schedule.NextAt(time.Now(), cfg).Format("Mon 2006-01-02 15:04"))
		schedule.RunConfigured(ctx, cfg, func() {
			// reopen each time so edits made by other processes are seen
			if _, err := remindOnce(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "remind:", err)
			}
		})
		return ignoreCanceled(ctx.Err())
	},
}

// remindOnce notifies about today's and overdue deadlines. It reports
// whether anything was sent.
func remindOnce() (bool, error) {
	sent := false
	err := withApp(func(a *app) error {
		today, overdue := view.Due(a.ws.Nodes(), a.ws.Now())
		title, msg, ok := notify.FormatDueReminder(view.Texts(today), view.Texts(overdue))
		if !ok {
			return nil
		}
		a.log.Info("sending reminder", "today", len(today), "overdue", len(overdue))
		sent = true
		return notify.Info(title, msg)
	})
	return sent, err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	remindCmd.Flags().BoolVarP(&remindWatch, "watch", "w", false, "Keep running and remind on schedule")
}
