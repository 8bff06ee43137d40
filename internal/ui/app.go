// Package ui is the terminal front end: an outline of the active page, a
// day planner, a sorter with a calendar, and the panels that edit them. Every
// change goes through workspace intents.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mindtask/mindtask/internal/config"
	"github.com/mindtask/mindtask/internal/notify"
	"github.com/mindtask/mindtask/internal/schedule"
	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/update"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

type screen int
type mode int
type focusPane int

const (
	screenMap screen = iota
	screenPlanner
	screenSorter
	screenSplit
)

const (
	modeNormal mode = iota
	modeText        // editing a node's text inline
	modePageTitle   // naming or renaming a page
	modeConfirm
	modePanel
	modePicker
	modeHelp
	modeDayDetail
	modeUpdate
)

const (
	paneMap focusPane = iota
	panePlanner
)

// confirmation is a pending destructive intent.
type confirmation struct {
	prompt string
	intent workspace.Intent
}

// plannerCell is one selectable line of the planner: a period header when
// node is empty, otherwise a task in that period.
type plannerCell struct {
	period tree.Period
	node   tree.Node
}

type Model struct {
	ws      *workspace.Workspace
	cfg     config.Config
	log     *slog.Logger
	checker *update.Checker
	ctx     context.Context

	width  int
	height int
	screen screen
	mode   mode
	pane   focusPane
	st     style
	mono   bool

	filter view.Filter
	cursor string // focused outline node

	day   string // planner day
	pcell int    // index into plannerCells()

	calendar bool
	month    time.Time // first of the sorter month
	calDay   string
	scell    int // index into sorterRows()

	input     textinput.Model
	editingID string
	renaming  string // page id being renamed, "" when creating

	confirm *confirmation
	panel   panel
	picker  picker
	release update.Release

	status string
}

// Options wires the model to the rest of the application.
type Options struct {
	Config  config.Config
	Logger  *slog.Logger
	Checker *update.Checker // nil skips the startup update check
}

func New(ctx context.Context, ws *workspace.Workspace, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	in := textinput.New()
	in.CharLimit = 500
	in.Width = 48

	today := ws.Today()
	now := ws.Now()
	m := Model{
		ws:      ws,
		cfg:     opts.Config,
		log:     log,
		checker: opts.Checker,
		ctx:     ctx,
		st:      newStyle(opts.Config.Theme),
		mono:    opts.Config.Theme == ThemeMono,
		filter:  view.Filter{ShowCompleted: true},
		day:     today,
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		calDay:  today,
		input:   in,
	}
	m.cursor = ws.ActiveRoot()
	return m
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, ws *workspace.Workspace, opts Options) error {
	p := tea.NewProgram(New(ctx, ws, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ---------- messages & commands ----------

type releaseMsg struct{ rel update.Release }
type openedMsg struct{ err error }
type reminderMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkUpdateCmd(), m.reminderCmd())
}

// reminderCmd sleeps until the next configured reminder time.
func (m Model) reminderCmd() tea.Cmd {
	if !m.cfg.Reminder.Enabled {
		return nil
	}
	ctx, cfg, now := m.ctx, m.cfg, m.ws.Now
	return func() tea.Msg {
		next := schedule.NextAt(now(), cfg)
		if !schedule.After(ctx, time.Until(next), func() {}) {
			return nil
		}
		return reminderMsg{}
	}
}

// remind posts the due/overdue notification and re-arms the reminder.
func (m Model) remind() tea.Cmd {
	today, overdue := view.Due(m.ws.Nodes(), m.ws.Now())
	title, msg, ok := notify.FormatDueReminder(view.Texts(today), view.Texts(overdue))
	if !ok {
		return m.reminderCmd()
	}
	log := m.log
	post := func() tea.Msg {
		if err := notify.Info(title, msg); err != nil {
			log.Warn("reminder notification", "err", err)
		}
		return nil
	}
	return tea.Batch(post, m.reminderCmd())
}

// checkUpdateCmd waits out the configured delay and asks the checker once.
// tea runs it on its own goroutine.
func (m Model) checkUpdateCmd() tea.Cmd {
	if m.checker == nil || !m.cfg.Update.Enabled {
		return nil
	}
	ctx, checker, delay := m.ctx, m.checker, m.cfg.Update.Delay
	return func() tea.Msg {
		var (
			rel   update.Release
			found bool
		)
		schedule.After(ctx, delay, func() { rel, found = checker.Check(ctx) })
		if !found {
			return nil
		}
		return releaseMsg{rel: rel}
	}
}

func openCmd(url string) tea.Cmd {
	return func() tea.Msg { return openedMsg{err: update.OpenURL(url)} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.panel.id != "" {
			m.panel.resize(msg.Width)
		}
		return m, nil
	case releaseMsg:
		m.release = msg.rel
		if m.mode == modeNormal {
			m.mode = modeUpdate
		} else {
			m.status = fmt.Sprintf("Update available: %s", msg.rel.Tag)
		}
		return m, nil
	case reminderMsg:
		return m, m.remind()
	case openedMsg:
		if msg.err != nil {
			m.log.Warn("open release page", "err", msg.err)
			m.status = "Could not open the browser: " + m.release.URL
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m.forward(msg)
}

// forward hands non-key messages (cursor blink and the like) to the active
// input widget.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeText, modePageTitle:
		m.input, cmd = m.input.Update(msg)
	case modePanel:
		m.panel, cmd = m.panel.update(msg)
	case modePicker:
		m.picker, cmd = m.picker.update(msg)
	}
	return m, cmd
}

func (m Model) updateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeText:
		return m.updateText(k)
	case modePageTitle:
		return m.updatePageTitle(k)
	case modeConfirm:
		return m.updateConfirm(k)
	case modePanel:
		return m.updatePanel(k)
	case modePicker:
		return m.updatePicker(k)
	case modeHelp:
		m.mode = modeNormal
		return m, nil
	case modeDayDetail:
		return m.updateDayDetail(k)
	case modeUpdate:
		return m.updatePrompt(k)
	}
	return m.updateNormal(k)
}

// ---------- intents ----------

// apply runs an intent and reports failures on the status line. Errors that
// only mean "nothing to do" are dropped.
func (m *Model) apply(in workspace.Intent) (workspace.Result, bool) {
	res, err := m.ws.Apply(in)
	if err != nil {
		if !tree.IsNoop(err) {
			m.status = describe(err)
		}
		return res, false
	}
	return res, true
}

func describe(err error) string {
	switch {
	case errors.Is(err, tree.ErrRootNode):
		return "A page root cannot do that"
	case errors.Is(err, tree.ErrCycle):
		return "Cannot move a task under itself"
	case errors.Is(err, tree.ErrHeadingDepth):
		return fmt.Sprintf("Headings only go %d levels deep", tree.MaxHeadingDepth)
	case errors.Is(err, tree.ErrPlannerOnly):
		return "Planner tasks live outside the map"
	case errors.Is(err, tree.ErrHeadingTask):
		return "Headings are section labels and cannot be completed"
	}
	msg := err.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// focus moves the outline cursor. Focusing a new node clears its new flag.
func (m *Model) focus(id string) {
	m.cursor = id
	if n, ok := m.ws.Node(id); ok && n.New {
		m.apply(workspace.Intent{Kind: workspace.MarkSeen, ID: id})
	}
}

func (m Model) rows() []view.Row {
	return view.Outline(m.ws.Nodes(), m.ws.ActiveRoot(), m.filter)
}

// settle keeps the cursor on a visible row, falling back to the row at
// index prev.
func (m *Model) settle(prev int) {
	rows := m.rows()
	if len(rows) == 0 {
		m.cursor = ""
		return
	}
	if view.IndexOf(rows, m.cursor) >= 0 {
		return
	}
	m.focus(rows[clamp(prev, 0, len(rows)-1)].Node.ID)
}

func (m *Model) beginText(id string) tea.Cmd {
	n, _ := m.ws.Node(id)
	m.editingID = id
	m.input.SetValue(n.Text)
	m.input.Placeholder = "Task text"
	m.input.CursorEnd()
	m.mode = modeText
	return m.input.Focus()
}

func (m Model) updateText(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		m.apply(workspace.Intent{Kind: workspace.SetText, ID: m.editingID, Text: strings.TrimSpace(m.input.Value())})
		fallthrough
	case "esc":
		m.input.Blur()
		m.mode = modeNormal
		m.editingID = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m *Model) beginPageTitle(renaming string) tea.Cmd {
	m.renaming = renaming
	m.input.SetValue("")
	m.input.Placeholder = workspace.NewPageTitle
	if p, ok := m.ws.ActivePage(); ok && renaming != "" {
		m.input.SetValue(p.Title)
		m.input.CursorEnd()
	}
	m.mode = modePageTitle
	return m.input.Focus()
}

func (m Model) updatePageTitle(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if m.renaming != "" {
			if err := m.ws.RenamePage(m.renaming, title); err != nil {
				m.status = describe(err)
			}
		} else {
			if title == "" {
				title = workspace.NewPageTitle
			}
			p, err := m.ws.NewPage(title)
			if err != nil {
				m.status = describe(err)
			} else {
				m.focus(p.RootID)
				m.status = fmt.Sprintf("Created page %q", p.Title)
			}
		}
		fallthrough
	case "esc":
		m.input.Blur()
		m.mode = modeNormal
		m.renaming = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m Model) updateConfirm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch k.String() {
	case "y", "Y", "enter":
		m.mode = modeNormal
		m.confirm = nil
		prev := view.IndexOf(m.rows(), m.cursor)
		if res, ok := m.apply(c.intent); ok && len(res.Removed) > 0 {
			m.status = fmt.Sprintf("Deleted %d task(s)", len(res.Removed))
		}
		m.settle(prev)
		m.clampPlanner()
	case "n", "N", "esc", "q":
		m.mode = modeNormal
		m.confirm = nil
	}
	return m, nil
}

func (m Model) updatePrompt(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "y", "Y", "enter":
		m.mode = modeNormal
		return m, openCmd(m.release.URL)
	case "n", "N", "esc", "q":
		m.mode = modeNormal
	}
	return m, nil
}

// ---------- view ----------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	top := m.renderTopBar()
	status := m.statusBar()
	innerH := max(m.height-lipgloss.Height(top)-lipgloss.Height(status), 6)

	var body string
	switch m.screen {
	case screenPlanner:
		body = m.st.borderFocus.Width(m.width - 2).Height(innerH - 2).Render(m.renderPlanner(m.width-4, innerH-2))
	case screenSorter:
		body = m.st.borderFocus.Width(m.width - 2).Height(innerH - 2).Render(m.renderSorter(m.width-4, innerH-2))
	case screenSplit:
		leftW := m.width / 2
		rightW := m.width - leftW
		left := m.st.border(m.pane == paneMap).Width(leftW - 2).Height(innerH - 2).Render(m.renderMap(leftW-4, innerH-2))
		right := m.st.border(m.pane == panePlanner).Width(rightW - 2).Height(innerH - 2).Render(m.renderPlanner(rightW-4, innerH-2))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	default:
		body = m.st.borderFocus.Width(m.width - 2).Height(innerH - 2).Render(m.renderMap(m.width-4, innerH-2))
	}
	ui := lipgloss.JoinVertical(lipgloss.Left, top, body, status)

	switch m.mode {
	case modeHelp:
		return overlayCenter(ui, m.modal("Keys", m.helpView()))
	case modeConfirm:
		return overlayCenter(ui, m.modal("Confirm", m.confirm.prompt+"\n\n"+m.st.textDim.Render("y confirm • n cancel")))
	case modePanel:
		return overlayCenter(ui, m.panel.view(m.st, m.mono))
	case modePicker:
		return overlayCenter(ui, m.modal("Move under…", m.picker.view(m.st)))
	case modePageTitle:
		title := "New page"
		if m.renaming != "" {
			title = "Rename page"
		}
		return overlayCenter(ui, m.modal(title, m.input.View()+"\n\n"+m.st.textDim.Render("enter save • esc cancel")))
	case modeDayDetail:
		return overlayCenter(ui, m.modal(m.calDay, m.renderDayDetail()))
	case modeUpdate:
		return overlayCenter(ui, m.modal("New version available", m.renderUpdatePrompt()))
	}
	return ui
}

func (m Model) renderTopBar() string {
	title := "MindTask"
	if p, ok := m.ws.ActivePage(); ok {
		title += " › " + p.Title
	}
	var tags []string
	if m.filter.Energy > 0 {
		tags = append(tags, fmt.Sprintf("⚡%d", m.filter.Energy))
	}
	if !m.filter.ShowCompleted {
		tags = append(tags, "hiding done")
	}
	right := m.st.textDim.Render(strings.Join(tags, "  "))
	left := m.st.topBar.Render(title)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) statusBar() string {
	name := "MAP"
	switch m.screen {
	case screenPlanner:
		name = "PLANNER"
	case screenSorter:
		name = "SORTER"
		if m.calendar {
			name = "CALENDAR"
		}
	case screenSplit:
		name = "SPLIT"
	}
	hints := "? help • p planner • s sorter • v split • q quit"
	if m.status != "" {
		hints = m.status
	}
	return m.st.statusBar.Width(m.width).Render(fmt.Sprintf("%s   |   %s", name, hints))
}

func (m Model) modal(title, content string) string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		m.st.modalTitle.Render(title),
		"",
		content,
	)
	return m.st.modalBox.Render(box)
}

func overlayCenter(base, modal string) string {
	baseH := lipgloss.Height(base)
	mh := lipgloss.Height(modal)
	topPad := max(0, (baseH-mh)/3)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Repeat("\n", topPad), lipgloss.PlaceHorizontal(lipgloss.Width(base), lipgloss.Center, modal), "")
}

func (m Model) renderUpdatePrompt() string {
	var b strings.Builder
	current := "this version"
	if m.checker != nil {
		current = m.checker.CurrentTag()
	}
	fmt.Fprintf(&b, "%s is out (you have %s).\n", m.st.textBold.Render(m.release.Tag), current)
	if notes := renderMarkdown(m.release.Changelog, 56, m.mono); notes != "" {
		b.WriteString("\n" + truncateLines(notes, 12) + "\n")
	}
	b.WriteString("\n" + m.st.textDim.Render("y open release page • n later"))
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
