package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	planDay    string
	planPeriod string
	planNew    string
)

var planCmd = &cobra.Command{
	Use:   "plan [<id>]",
	Short: "Show or fill the day planner",
	Long: `Without arguments prints the planner for the day. With an id the task
is planned into --period; scheduled tasks move to the period's start hour
and keep their duration, other tasks gain a slot. --new creates a task that
lives only in the planner.

Examples:
	mindtask plan
	mindtask plan --day tomorrow
	mindtask plan 3f2a9c1d --period afternoon
	mindtask plan --new "Call Ann" --period morning --day fri`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && planNew != "" {
			return errors.New("give either a task id or --new, not both")
		}
		return withApp(func(a *app) error {
			ws := a.ws
			day, err := dayFlag(planDay, ws)
			if err != nil {
				return err
			}
			if len(args) == 1 || planNew != "" {
				if planPeriod == "" {
					return errors.New("--period is required when planning a task")
				}
				p, err := tree.ParsePeriod(planPeriod)
				if err != nil {
					return err
				}
				in := workspace.Intent{Kind: workspace.AddPlannerTask, Day: day, Period: p, Text: strings.TrimSpace(planNew)}
				if len(args) == 1 {
					in = workspace.Intent{Kind: workspace.PlanInto, ID: args[0], Day: day, Period: p}
				}
				res, err := applyIntent(ws, in)
				if err != nil {
					return err
				}
				if in.Kind == workspace.AddPlannerTask {
					_, _ = ws.Apply(workspace.Intent{Kind: workspace.MarkSeen, ID: res.ID})
				}
				if !res.Changed {
					fmt.Fprintln(cmd.OutOrStdout(), "Already planned there")
				}
			}
			return printBoard(cmd, ws, day)
		})
	},
}

// dayFlag resolves a --day value, defaulting to today.
func dayFlag(s string, ws *workspace.Workspace) (string, error) {
	if strings.TrimSpace(s) == "" {
		return ws.Today(), nil
	}
	day, err := utils.ParseDay(s, ws.Now())
	if err != nil {
		return "", fmt.Errorf("--day: %w", err)
	}
	return day, nil
}

func printBoard(cmd *cobra.Command, ws *workspace.Workspace, day string) error {
	board := view.Board(ws.Nodes(), day)
	if outputFormat != "" && outputFormat != "default" {
		list := &utils.EntryList{Title: "Planner " + day, Filters: map[string]string{"day": day}}
		for _, p := range tree.Periods {
			for _, n := range board[p] {
				e := utils.NewEntry(n, 0, string(p), ws.Now())
				list.Entries = append(list.Entries, e)
			}
		}
		return render(cmd, ws.Now(), list)
	}
	writeBoard(cmd.OutOrStdout(), ws, day, board)
	return nil
}

func writeBoard(w io.Writer, ws *workspace.Workspace, day string, board map[tree.Period][]tree.Node) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	period := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	if noColor {
		title, period, dim = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}
	hours := ws.Hours()

	fmt.Fprintln(w, title.Render("Planner "+day))
	for _, p := range tree.Periods {
		fmt.Fprintf(w, "\n%s %s\n", period.Render(strings.ToUpper(string(p))), dim.Render(fmt.Sprintf("(%02d:00)", hours.For(p))))
		if len(board[p]) == 0 {
			fmt.Fprintln(w, dim.Render("  nothing planned"))
			continue
		}
		for _, n := range board[p] {
			box := "[ ]"
			if n.Completed {
				box = "[x]"
			}
			line := fmt.Sprintf("  %s %s", box, orDefault(n.Text, "(untitled)"))
			if n.Time.Kind == tree.TimeSchedule && (n.Time.ShowTime || !n.PlannerOnly()) {
				line += "  " + dim.Render(view.FormatSchedule(n.Time.Start, n.Time.End))
			}
			where := "planner"
			if pg, ok := ws.PageOf(n.ID); ok {
				where = pg.Title
			}
			fmt.Fprintf(w, "%s  %s\n", line, dim.Render(n.ID+" · "+where))
		}
	}
}

func init() {
	planCmd.Flags().StringVarP(&planDay, "day", "d", "", "Day to show or plan into (default: today)")
	planCmd.Flags().StringVarP(&planPeriod, "period", "p", "", "morning | afternoon | evening")
	planCmd.Flags().StringVarP(&planNew, "new", "n", "", "Create a planner-only task with this text")
}
