package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	unplanDay    string
	unplanPeriod string
	unplanYes    bool
)

var unplanCmd = &cobra.Command{
	Use:   "unplan <id>",
	Short: "Take a task out of a planner period",
	Long: `Removing a slot is immediate. Clearing a schedule or deleting a
planner-only task needs --yes.

Examples:
	mindtask unplan 3f2a9c1d --period afternoon
	mindtask unplan 9b1e07aa --period morning --day tomorrow --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := tree.ParsePeriod(unplanPeriod)
		if err != nil {
			return err
		}
		id := args[0]
		return withApp(func(a *app) error {
			day, err := dayFlag(unplanDay, a.ws)
			if err != nil {
				return err
			}
			n, ok := a.ws.Node(id)
			if !ok {
				return tree.NotFoundError{Kind: "node", ID: id}
			}
			if !view.InPeriod(n, day, p) {
				return fmt.Errorf("%s is not planned into %s %s", id, day, p)
			}
			removal, _ := a.ws.Removal(id, day, p)
			if removal.NeedsConfirm() && !unplanYes {
				what := "clears its schedule"
				if removal == view.RemovePlannerTask {
					what = "deletes the planner-only task"
				}
				return fmt.Errorf("removing %q %s; rerun with --yes", n.Text, what)
			}
			if _, err := applyIntent(a.ws, workspace.Intent{Kind: workspace.Unplan, ID: id, Day: day, Period: p}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s %s\n", id, day, p)
			return nil
		})
	},
}

func init() {
	unplanCmd.Flags().StringVarP(&unplanDay, "day", "d", "", "Planner day (default: today)")
	unplanCmd.Flags().StringVarP(&unplanPeriod, "period", "p", "", "morning | afternoon | evening")
	unplanCmd.Flags().BoolVarP(&unplanYes, "yes", "y", false, "Confirm clearing schedules and deleting planner tasks")
	_ = unplanCmd.MarkFlagRequired("period")
}
