package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the stored outline for structural problems",
	Long: `Verifies that every parent and child link is mutual, that no node is
its own ancestor and that every page points at an existing root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:   %s\n", orDefault(cfgPath, "(default)"))
			fmt.Fprintf(out, "Data dir: %s\n", a.cfg.DataDir)
			fmt.Fprintf(out, "Storage:  %s\n", a.cfg.Storage.Backend)
			fmt.Fprintf(out, "Pages:    %d\n", len(a.ws.Pages()))
			for _, p := range a.ws.Pages() {
				if _, ok := a.ws.Node(p.RootID); !ok {
					return fmt.Errorf("page %s (%s) has no root node %s", p.ID, p.Title, p.RootID)
				}
			}
			if err := a.ws.Validate(); err != nil {
				return fmt.Errorf("outline is inconsistent: %w", err)
			}
			fmt.Fprintln(out, "OK")
			return nil
		})
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
