package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
)

var (
	listPage          string
	listEnergy        int
	listHideCompleted bool
	listAll           bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the outline of a page",
	Long: `Examples:
	mindtask list                       # active page
	mindtask list --page 3f2a9c1d       # a specific page
	mindtask list --all                 # every page
	mindtask list --energy 3            # dim tasks of other energy levels
	mindtask list --hide-completed -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listEnergy < 0 || listEnergy > tree.MaxEnergy {
			return fmt.Errorf("--energy must be between 0 and %d", tree.MaxEnergy)
		}
		return withApp(func(a *app) error {
			ws := a.ws
			pagesToShow := ws.Pages()
			if !listAll {
				root, err := pageRoot(ws, listPage)
				if err != nil {
					return err
				}
				pagesToShow = pagesToShow[:0]
				for _, p := range ws.Pages() {
					if p.RootID == root {
						pagesToShow = append(pagesToShow, p)
					}
				}
			}

			filter := view.Filter{Energy: listEnergy, ShowCompleted: !listHideCompleted}
			list := &utils.EntryList{
				Title:   "Outline",
				Filters: map[string]string{},
			}
			if listEnergy > 0 {
				list.Filters["energy"] = strconv.Itoa(listEnergy)
			}
			if listHideCompleted {
				list.Filters["completed"] = "hidden"
			}
			for _, p := range pagesToShow {
				if len(pagesToShow) == 1 {
					list.Title = p.Title
				}
				for _, row := range view.Outline(ws.Nodes(), p.RootID, filter) {
					e := utils.NewEntry(row.Node, row.Depth, p.Title, ws.Now())
					e.Heading = row.Heading
					e.Dimmed = row.Dimmed
					list.Entries = append(list.Entries, e)
				}
			}
			return render(cmd, ws.Now(), list)
		})
	},
}

func init() {
	listCmd.Flags().StringVarP(&listPage, "page", "p", "", "Page id (default: active page)")
	listCmd.Flags().IntVarP(&listEnergy, "energy", "e", 0, "Energy level to highlight (1-5)")
	listCmd.Flags().BoolVar(&listHideCompleted, "hide-completed", false, "Hide completed tasks")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Show every page")
}
