package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	addUnder string
	addAfter string
	addPage  string
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task to the outline",
	Long: `Without --under or --after the task becomes the last child of the
page root.

Examples:
	mindtask add "Draft the brief"
	mindtask add "Collect quotes" --under 3f2a9c1d
	mindtask add "Book the venue" --after 9b1e07aa`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("task text is empty")
		}
		if addUnder != "" && addAfter != "" {
			return errors.New("use either --under or --after, not both")
		}
		return withApp(func(a *app) error {
			in := workspace.Intent{Kind: workspace.AddChild, ID: addUnder, Text: text}
			switch {
			case addAfter != "":
				in = workspace.Intent{Kind: workspace.AddSibling, ID: addAfter, Text: text}
			case addUnder == "":
				root, err := pageRoot(a.ws, addPage)
				if err != nil {
					return err
				}
				in.ID = root
			}
			res, err := applyIntent(a.ws, in)
			if err != nil {
				return err
			}
			// created from the command line, so never focused
			if _, err := applyIntent(a.ws, workspace.Intent{Kind: workspace.MarkSeen, ID: res.ID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", res.ID, text)
			return nil
		})
	},
}

func init() {
	addCmd.Flags().StringVarP(&addUnder, "under", "u", "", "Parent task id")
	addCmd.Flags().StringVarP(&addAfter, "after", "a", "", "Insert right after this task")
	addCmd.Flags().StringVarP(&addPage, "page", "p", "", "Page id when adding under the root (default: active page)")
}
