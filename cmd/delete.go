package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/workspace"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and its subtasks",
	Long: `Tasks with subtasks are only deleted with --yes.

Examples:
	mindtask delete 3f2a9c1d
	mindtask rm 9b1e07aa --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApp(func(a *app) error {
			n, ok := a.ws.Node(id)
			if !ok {
				return tree.NotFoundError{Kind: "node", ID: id}
			}
			if n.IsRoot {
				return fmt.Errorf("%s is a page root: %w", id, tree.ErrRootNode)
			}
			if d := a.ws.Descendants(id); d > 0 && !deleteYes {
				return fmt.Errorf("%q has %d subtask(s); rerun with --yes to delete them too", n.Text, d)
			}
			res, err := applyIntent(a.ws, workspace.Intent{Kind: workspace.Delete, ID: id})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", len(res.Removed))
			return nil
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete subtasks without asking")
}
