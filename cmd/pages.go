package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/view"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List and manage pages",
	Long: `Without a subcommand lists the pages; the active one is marked with *.

Examples:
	mindtask pages
	mindtask pages new "Garden"
	mindtask pages rename 3f2a9c1d "Backyard"
	mindtask pages use 3f2a9c1d`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			active, _ := a.ws.ActivePage()
			mark := lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
			if noColor {
				mark = lipgloss.NewStyle()
			}
			out := cmd.OutOrStdout()
			for _, p := range a.ws.Pages() {
				st := view.Summarize(a.ws.Nodes(), p.RootID)
				prefix := "  "
				if p.ID == active.ID {
					prefix = mark.Render("* ")
				}
				fmt.Fprintf(out, "%s%s  %-24s %d/%d done\n", prefix, p.ID, p.Title, st.Completed, st.Tasks)
			}
			return nil
		})
	},
}

var pagesNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a page and make it active",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, err := pageTitle(args)
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			p, err := a.ws.NewPage(title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created page %s: %s\n", p.ID, p.Title)
			return nil
		})
	},
}

var pagesRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a page",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, err := pageTitle(args[1:])
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			if err := a.ws.RenamePage(args[0], title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], title)
			return nil
		})
	},
}

var pagesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a page the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.ws.SetActive(args[0]); err != nil {
				return err
			}
			p, _ := a.ws.ActivePage()
			fmt.Fprintf(cmd.OutOrStdout(), "Active page: %s\n", p.Title)
			return nil
		})
	},
}

func pageTitle(args []string) (string, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", errors.New("page title is empty")
	}
	return title, nil
}

func init() {
	pagesCmd.AddCommand(pagesNewCmd, pagesRenameCmd, pagesUseCmd)
}
