package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/mindtask/mindtask/internal/config"
	"github.com/mindtask/mindtask/internal/db"
	"github.com/mindtask/mindtask/internal/logging"
	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

var (
	cfgPath      string
	dataDirFlag  string
	outputFormat string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "mindtask",
	Short: "Mind-map task outliner with a day planner",
	Long: `MindTask keeps projects as outlines of tasks, plans them into
morning, afternoon and evening slots, and sorts them by deadline.

Run without a subcommand to open the terminal interface.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.config/mindtask/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "default", "Output format: default|json|csv|compact|quiet")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(tuiCmd, listCmd, addCmd, editCmd, doneCmd, moveCmd, deleteCmd,
		planCmd, unplanCmd, agendaCmd, searchCmd, pagesCmd, summaryCmd, doctorCmd,
		checkUpdateCmd, remindCmd)
	addVersion(rootCmd)
}

// app is what a command needs at run time: config, logger and the opened
// workspace.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	ws   *workspace.Workspace
	logc io.Closer
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if dataDirFlag != "" {
		if cfg.DataDir, err = homedir.Expand(dataDirFlag); err != nil {
			return cfg, fmt.Errorf("--data-dir: %w", err)
		}
	}
	return cfg, nil
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, logc, err := logging.New(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	kv, err := db.Open(db.Options{
		Backend:    cfg.Storage.Backend,
		Dir:        cfg.DataDir,
		Passphrase: cfg.Storage.Passphrase,
		Logger:     log,
	})
	if err != nil {
		_ = logc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	loc := cfg.Location()
	view.SetZone(loc)
	ws, err := workspace.Open(kv, workspace.Options{
		HistoryLimit: cfg.History.Limit,
		Hours: view.Hours{
			Morning:   cfg.Planner.MorningHour,
			Afternoon: cfg.Planner.AfternoonHour,
			Evening:   cfg.Planner.EveningHour,
		},
		Now:    func() time.Time { return time.Now().In(loc) },
		Logger: log,
	})
	if err != nil {
		_ = errors.Join(kv.Close(), logc.Close())
		if errors.Is(err, db.ErrWrongPassphrase) {
			return nil, fmt.Errorf("open workspace: stored data did not decrypt, check storage.passphrase: %w", err)
		}
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return &app{cfg: cfg, log: log, ws: ws, logc: logc}, nil
}

func (a *app) Close() error {
	return errors.Join(a.ws.Close(), a.logc.Close())
}

// withApp opens the workspace around fn.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newRenderer(now time.Time) (*utils.Renderer, error) {
	f, err := utils.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	rc := utils.DefaultRenderConfig()
	rc.Format = f
	rc.Color = !noColor
	rc.Now = now
	return utils.NewRenderer(rc), nil
}

// entries flattens nodes for the renderer, labelling each with its page.
func entries(ws *workspace.Workspace, nodes []tree.Node) []utils.Entry {
	out := make([]utils.Entry, 0, len(nodes))
	for _, n := range nodes {
		page := ""
		if p, ok := ws.PageOf(n.ID); ok {
			page = p.Title
		} else if n.PlannerOnly() {
			page = "planner"
		}
		out = append(out, utils.NewEntry(n, 0, page, ws.Now()))
	}
	return out
}

func render(cmd *cobra.Command, now time.Time, list *utils.EntryList) error {
	r, err := newRenderer(now)
	if err != nil {
		return err
	}
	out, err := r.RenderEntryList(list)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// applyIntent runs in, naming the intent in any error.
func applyIntent(ws *workspace.Workspace, in workspace.Intent) (workspace.Result, error) {
	res, err := ws.Apply(in)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", in.Kind, in.ID, err)
	}
	return res, nil
}

// pageRoot resolves a page id (or "" for the active page) to its root.
func pageRoot(ws *workspace.Workspace, pageID string) (string, error) {
	if pageID == "" {
		return ws.ActiveRoot(), nil
	}
	for _, p := range ws.Pages() {
		if p.ID == pageID {
			return p.RootID, nil
		}
	}
	return "", tree.NotFoundError{Kind: "page", ID: pageID}
}
