package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	editText      string
	editNotes     string
	editEnergy    int
	editDeadline  string
	editSchedule  string
	editEnd       string
	editShowTime  bool
	editClearTime bool
	editHeading   bool
)

var editFields = []string{"text", "notes", "energy", "deadline", "schedule", "end", "show-time", "clear-time", "heading"}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the attributes of a task",
	Long: `Dates accept today, tomorrow, +3, fri, "fri 14:00", 2006-01-02 and
2006-01-02T15:04.

Examples:
	mindtask edit 3f2a9c1d --text "Draft the brief" --energy 4
	mindtask edit 3f2a9c1d --deadline fri
	mindtask edit 3f2a9c1d --schedule "tomorrow 14:00" --end "tomorrow 16:00"
	mindtask edit 3f2a9c1d --clear-time --heading=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		changed := false
		for _, name := range editFields {
			changed = changed || flags.Changed(name)
		}
		if !changed {
			return fmt.Errorf("nothing to update - specify at least one field to edit")
		}
		if editClearTime && (editDeadline != "" || editSchedule != "") {
			return errors.New("--clear-time cannot be combined with --deadline or --schedule")
		}
		if editDeadline != "" && editSchedule != "" {
			return errors.New("a task has either a deadline or a schedule")
		}
		return withApp(func(a *app) error {
			id := args[0]
			n, ok := a.ws.Node(id)
			if !ok {
				return tree.NotFoundError{Kind: "node", ID: id}
			}
			now := a.ws.Now()

			var p tree.Patch
			if flags.Changed("text") {
				p.Text = tree.Ptr(strings.TrimSpace(editText))
			}
			if flags.Changed("notes") {
				p.Notes = tree.Ptr(editNotes)
			}
			if flags.Changed("energy") {
				p.Energy = tree.Ptr(editEnergy)
			}
			if flags.Changed("heading") {
				p.Heading = tree.Ptr(editHeading)
			}
			switch {
			case editClearTime:
				p.Time = tree.Ptr(tree.NoTime())
			case editDeadline != "":
				ddl, err := utils.ParseStamp(editDeadline, now)
				if err != nil {
					return fmt.Errorf("--deadline: %w", err)
				}
				p.Time = tree.Ptr(tree.DeadlineAt(ddl))
			case editSchedule != "" || flags.Changed("end") || flags.Changed("show-time"):
				t, err := scheduleFrom(n, now, flags.Changed("show-time"))
				if err != nil {
					return err
				}
				p.Time = &t
			}

			if _, err := applyIntent(a.ws, workspace.Intent{Kind: workspace.SetFields, ID: id, Patch: p}); err != nil {
				return err
			}
			n, _ = a.ws.Node(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", id, describeNode(n))
			return nil
		})
	},
}

// scheduleFrom merges the schedule flags over n's current schedule.
func scheduleFrom(n tree.Node, now time.Time, showChanged bool) (tree.TimeSpec, error) {
	cur := n.Time
	if cur.Kind != tree.TimeSchedule {
		cur = tree.ScheduleAt("", "", true)
	}
	if editSchedule != "" {
		start, err := utils.ParseStamp(editSchedule, now)
		if err != nil {
			return cur, fmt.Errorf("--schedule: %w", err)
		}
		if view.DateOnly(start) {
			start += "T09:00"
		}
		cur.Start = start
	}
	if editEnd != "" {
		end, err := utils.ParseStamp(editEnd, now)
		if err != nil {
			return cur, fmt.Errorf("--end: %w", err)
		}
		if view.DateOnly(end) {
			end += "T23:59"
		}
		cur.End = end
	}
	if showChanged {
		cur.ShowTime = editShowTime
	}
	if cur.Start == "" {
		return cur, errors.New("a schedule needs --schedule")
	}
	return tree.ScheduleAt(cur.Start, cur.End, cur.ShowTime), nil
}

// describeNode is the one-line summary printed after a change.
func describeNode(n tree.Node) string {
	parts := []string{fmt.Sprintf("%q", n.Text)}
	if n.Completed {
		parts = append(parts, "done")
	}
	if n.Heading {
		parts = append(parts, "heading")
	}
	if n.Energy > 0 {
		parts = append(parts, fmt.Sprintf("energy %d", n.Energy))
	}
	switch n.Time.Kind {
	case tree.TimeDeadline:
		parts = append(parts, "due "+view.FormatTime(n.Time.Deadline))
	case tree.TimeSchedule:
		parts = append(parts, "scheduled "+view.FormatSchedule(n.Time.Start, n.Time.End))
	}
	return strings.Join(parts, ", ")
}

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editText, "text", "t", "", "New text")
	f.StringVarP(&editNotes, "notes", "n", "", "Notes (markdown)")
	f.IntVarP(&editEnergy, "energy", "e", 0, "Energy 0-5")
	f.StringVarP(&editDeadline, "deadline", "d", "", "Deadline date or date-time")
	f.StringVarP(&editSchedule, "schedule", "s", "", "Schedule start date-time")
	f.StringVar(&editEnd, "end", "", "Schedule end date-time")
	f.BoolVar(&editShowTime, "show-time", true, "Show the schedule time in the planner")
	f.BoolVar(&editClearTime, "clear-time", false, "Remove the deadline or schedule")
	f.BoolVar(&editHeading, "heading", false, "Mark as a section heading")
}
