package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	agendaEnergy   int
	agendaRange    string
	agendaCalendar bool
	agendaMonth    string
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Tasks sorted by schedule and deadline",
	Long: `Lists scheduled tasks by start time and deadline tasks by due time.
--range limits both lists to today, tomorrow, week, next7days or month.
--calendar prints a month grid with the number of tasks per day.

Examples:
	mindtask agenda
	mindtask agenda --range week --energy 2
	mindtask agenda --calendar --month 2025-03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if agendaEnergy < 0 || agendaEnergy > tree.MaxEnergy {
			return fmt.Errorf("--energy must be between 0 and %d", tree.MaxEnergy)
		}
		return withApp(func(a *app) error {
			ws := a.ws
			now := ws.Now()
			if agendaCalendar {
				year, month, err := utils.ParseMonth(agendaMonth, now)
				if err != nil {
					return err
				}
				writeCalendar(cmd, ws, year, month)
				return nil
			}

			inRange := func(string) bool { return true }
			if agendaRange != "" {
				from, to, err := utils.GetDateRange(agendaRange, now)
				if err != nil {
					return err
				}
				inRange = func(stamp string) bool {
					t, ok := view.ParseStamp(stamp, now.Location())
					return ok && !t.Before(from) && t.Before(to)
				}
			}

			list := &utils.EntryList{Title: "Agenda", Filters: map[string]string{}}
			if agendaEnergy > 0 {
				list.Filters["energy"] = strconv.Itoa(agendaEnergy)
			}
			if agendaRange != "" {
				list.Filters["range"] = agendaRange
			}
			for _, n := range view.Schedules(ws.Nodes(), agendaEnergy) {
				if inRange(n.Time.Start) {
					list.Entries = append(list.Entries, entries(ws, []tree.Node{n})...)
				}
			}
			for _, n := range view.Deadlines(ws.Nodes(), agendaEnergy) {
				if inRange(n.Time.Deadline) {
					list.Entries = append(list.Entries, entries(ws, []tree.Node{n})...)
				}
			}
			return render(cmd, now, list)
		})
	},
}

func writeCalendar(cmd *cobra.Command, ws *workspace.Workspace, year int, month time.Month) {
	head := lipgloss.NewStyle().Bold(true)
	today := lipgloss.NewStyle().Reverse(true)
	if noColor {
		today = lipgloss.NewStyle()
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, head.Render(fmt.Sprintf("%s %d", month, year)))
	fmt.Fprintln(out, "Mon   Tue   Wed   Thu   Fri   Sat   Sun")
	for _, week := range view.MonthGrid(year, month) {
		var cells []string
		for _, d := range week {
			if d.IsZero() {
				cells = append(cells, "     ")
				continue
			}
			day := d.Format(view.DayLayout)
			cell := fmt.Sprintf("%2d", d.Day())
			if n := len(view.DayTasks(ws.Nodes(), day, agendaEnergy)); n > 0 {
				cell += fmt.Sprintf("·%-2d", n)
			} else {
				cell += "   "
			}
			if day == ws.Today() {
				cell = today.Render(cell)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintln(out, strings.Join(cells, " "))
	}
}

func init() {
	agendaCmd.Flags().IntVarP(&agendaEnergy, "energy", "e", 0, "Only tasks of this energy level (1-5)")
	agendaCmd.Flags().StringVarP(&agendaRange, "range", "r", "", "today | tomorrow | week | next7days | month")
	agendaCmd.Flags().BoolVarP(&agendaCalendar, "calendar", "c", false, "Print a month calendar")
	agendaCmd.Flags().StringVarP(&agendaMonth, "month", "m", "", "Calendar month as YYYY-MM (default: this month)")
}
