package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/view"
)

type pageSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	view.Stats
}

// summaryCmd prints task, completion and energy totals per page.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-page totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			var rows []pageSummary
			var total view.Stats
			for _, p := range a.ws.Pages() {
				st := view.Summarize(a.ws.Nodes(), p.RootID)
				rows = append(rows, pageSummary{ID: p.ID, Title: p.Title, Stats: st})
				total.Tasks += st.Tasks
				total.Completed += st.Completed
				total.Energy += st.Energy
				total.Headings += st.Headings
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				b, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			today, overdue := view.Due(a.ws.Nodes(), a.ws.Now())
			fmt.Fprintf(out, "Today (%s): %d due, %d overdue\n", a.ws.Today(), len(today), len(overdue))
			for _, r := range rows {
				fmt.Fprintf(out, "  %-20s %3d tasks, %3d done, %4d energy\n", r.Title, r.Tasks, r.Completed, r.Energy)
			}
			fmt.Fprintf(out, "  %-20s %3d tasks, %3d done, %4d energy\n", "TOTAL", total.Tasks, total.Completed, total.Energy)
			return nil
		})
	},
}
