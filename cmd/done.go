package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/workspace"
)

var doneUndo bool

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks as completed",
	Long: `Examples:
	mindtask done 3f2a9c1d
	mindtask done 3f2a9c1d 9b1e07aa
	mindtask done 3f2a9c1d --undo       # reopen`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			for _, id := range args {
				n, ok := a.ws.Node(id)
				if !ok {
					return tree.NotFoundError{Kind: "node", ID: id}
				}
				if !doneUndo && (n.IsRoot || a.ws.IsHeading(id)) {
					return fmt.Errorf("%s is a section heading, not a task: %w", id, tree.ErrHeadingTask)
				}
				p := tree.Patch{Completed: tree.Ptr(!doneUndo)}
				if _, err := applyIntent(a.ws, workspace.Intent{Kind: workspace.SetFields, ID: id, Patch: p}); err != nil {
					return err
				}
				state := "Completed"
				if doneUndo {
					state = "Reopened"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", state, id, n.Text)
			}
			return nil
		})
	},
}

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark as not completed")
}
