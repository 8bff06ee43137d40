package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
)

var searchLimit int

// searchCmd finds tasks whose text or notes contain the query.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search task text and notes",
	Long: `Examples:
	mindtask search figma
	mindtask search "phase two" -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withApp(func(a *app) error {
			hits := view.Search(a.ws.Nodes(), query)
			if searchLimit > 0 && len(hits) > searchLimit {
				hits = hits[:searchLimit]
			}
			if outputFormat != "" && outputFormat != string(utils.FormatDefault) {
				return render(cmd, a.ws.Now(), &utils.EntryList{
					Title:   "Search",
					Query:   query,
					Entries: entries(a.ws, hits),
				})
			}

			// styles
			title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
			sep := lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
			meta := lipgloss.NewStyle().Faint(true)
			page := lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
			mark := lipgloss.NewStyle().Bold(true)
			if noColor {
				title, sep, meta, page = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
			}
			w := utils.DefaultRenderConfig().Width

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, title.Render("Search")+"  "+sep.Render("query: ")+query)
			fmt.Fprintln(out, sep.Render(strings.Repeat("─", min(w, 120))))
			for _, e := range entries(a.ws, hits) {
				line := meta.Render("["+e.ID+"]") + "  " + snippet(e.Text, query, mark)
				if e.Page != "" {
					line += "  " + page.Render("("+e.Page+")")
				}
				fmt.Fprintln(out, line)
				if e.Notes != "" && strings.Contains(strings.ToLower(e.Notes), strings.ToLower(query)) {
					fmt.Fprintln(out, "    "+meta.Render("notes: ")+snippet(e.Notes, query, mark))
				}
			}
			if len(hits) == 0 {
				fmt.Fprintln(out, meta.Render("no results"))
			}
			return nil
		})
	},
}

// snippet returns a window of s around the first case-insensitive match of q,
// with the match highlighted.
func snippet(s, q string, mark lipgloss.Style) string {
	s = strings.Join(strings.Fields(s), " ")
	rs, lower := []rune(s), strings.ToLower(s)
	i := strings.Index(lower, strings.ToLower(q))
	if i < 0 || q == "" || len([]rune(lower)) != len(rs) {
		return s
	}
	at := utf8.RuneCountInString(lower[:i])
	n := min(utf8.RuneCountInString(strings.ToLower(q)), len(rs)-at)
	const ctx = 30
	start, end := max(0, at-ctx), min(len(rs), at+n+ctx)
	prefix, suffix := "", ""
	if start > 0 {
		prefix = "…"
	}
	if end < len(rs) {
		suffix = "…"
	}
	return prefix + string(rs[start:at]) + mark.Render(string(rs[at:at+n])) + string(rs[at+n:end]) + suffix
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 200, "Max results (0 for no limit)")
}
