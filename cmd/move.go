package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	moveTo      string
	moveOutdent bool
	moveUp      bool
	moveDown    bool
)

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Reparent, outdent or reorder a task",
	Long: `Exactly one of --to, --outdent, --up or --down is required.

Examples:
	mindtask move 3f2a9c1d --to 9b1e07aa   # becomes the last child of 9b1e07aa
	mindtask move 3f2a9c1d --outdent       # becomes the next sibling of its parent
	mindtask move 3f2a9c1d --up`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		var in workspace.Intent
		set := 0
		if moveTo != "" {
			in, set = workspace.Intent{Kind: workspace.Reparent, ID: id, Target: moveTo}, set+1
		}
		if moveOutdent {
			in, set = workspace.Intent{Kind: workspace.Outdent, ID: id}, set+1
		}
		if moveUp {
			in, set = workspace.Intent{Kind: workspace.Reorder, ID: id, Dir: -1}, set+1
		}
		if moveDown {
			in, set = workspace.Intent{Kind: workspace.Reorder, ID: id, Dir: 1}, set+1
		}
		if set != 1 {
			return errors.New("specify exactly one of --to, --outdent, --up, --down")
		}
		return withApp(func(a *app) error {
			if _, err := applyIntent(a.ws, in); err != nil {
				return err
			}
			n, _ := a.ws.Node(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s under %s\n", id, n.ParentID)
			return nil
		})
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "", "New parent id")
	moveCmd.Flags().BoolVar(&moveOutdent, "outdent", false, "Move one level up")
	moveCmd.Flags().BoolVar(&moveUp, "up", false, "Swap with the previous sibling")
	moveCmd.Flags().BoolVar(&moveDown, "down", false, "Swap with the next sibling")
}
