package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

// updateNormal handles the keys shared by every screen, then dispatches to
// the focused one.
func (m Model) updateNormal(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	key := k.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
		return m, nil
	case "ctrl+z", "u":
		prev := view.IndexOf(m.rows(), m.cursor)
		if err := m.ws.Undo(); err != nil {
			if errors.Is(err, workspace.ErrNothingToUndo) {
				m.status = "Nothing to undo"
			} else {
				m.status = describe(err)
			}
			return m, nil
		}
		m.settle(prev)
		m.clampPlanner()
		m.status = "Undone"
		return m, nil
	case "1", "2", "3", "4", "5":
		m.filter.Energy = int(key[0] - '0')
		m.settle(view.IndexOf(m.rows(), m.cursor))
		return m, nil
	case "0":
		m.filter.Energy = 0
		return m, nil
	case "c":
		prev := view.IndexOf(m.rows(), m.cursor)
		m.filter.ShowCompleted = !m.filter.ShowCompleted
		m.settle(prev)
		return m, nil
	case "[", "]":
		offset := 1
		if key == "[" {
			offset = -1
		}
		if err := m.ws.CyclePage(offset); err != nil {
			m.status = describe(err)
		}
		m.focus(m.ws.ActiveRoot())
		return m, nil
	case "N":
		return m, m.beginPageTitle("")
	case "R":
		if p, ok := m.ws.ActivePage(); ok {
			return m, m.beginPageTitle(p.ID)
		}
		return m, nil
	case "p":
		m.screen = toggleScreen(m.screen, screenPlanner)
		m.clampPlanner()
		return m, nil
	case "s":
		m.screen = toggleScreen(m.screen, screenSorter)
		return m, nil
	case "v":
		m.screen = toggleScreen(m.screen, screenSplit)
		m.pane = paneMap
		m.clampPlanner()
		return m, nil
	}

	switch m.screen {
	case screenPlanner:
		return m.updatePlanner(k)
	case screenSorter:
		if m.calendar {
			return m.updateCalendar(k)
		}
		return m.updateSorter(k)
	case screenSplit:
		if key == "w" {
			if m.pane == paneMap {
				m.pane = panePlanner
			} else {
				m.pane = paneMap
			}
			return m, nil
		}
		if m.pane == panePlanner {
			return m.updatePlanner(k)
		}
	}
	return m.updateMap(k)
}

func toggleScreen(cur, want screen) screen {
	if cur == want {
		return screenMap
	}
	return want
}

// ---------- map ----------

func (m Model) updateMap(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	idx := view.IndexOf(rows, m.cursor)
	if idx < 0 && len(rows) > 0 {
		m.settle(0)
		rows = m.rows()
		idx = view.IndexOf(rows, m.cursor)
	}
	if idx < 0 {
		return m, nil
	}
	cur := rows[idx].Node

	switch k.String() {
	case "j", "down":
		if idx+1 < len(rows) {
			m.focus(rows[idx+1].Node.ID)
		}
	case "k", "up":
		if idx > 0 {
			m.focus(rows[idx-1].Node.ID)
		}
	case "g", "home":
		m.focus(rows[0].Node.ID)
	case "G", "end":
		m.focus(rows[len(rows)-1].Node.ID)
	case "enter":
		kind := workspace.AddSibling
		if cur.IsRoot {
			kind = workspace.AddChild
		}
		if res, ok := m.apply(workspace.Intent{Kind: kind, ID: cur.ID}); ok {
			m.focus(res.ID)
			return m, m.beginText(res.ID)
		}
	case "tab":
		if res, ok := m.apply(workspace.Intent{Kind: workspace.AddChild, ID: cur.ID}); ok {
			m.focus(res.ID)
			return m, m.beginText(res.ID)
		}
	case "shift+tab":
		m.apply(workspace.Intent{Kind: workspace.Outdent, ID: cur.ID})
	case "e":
		return m, m.beginText(cur.ID)
	case " ":
		m.apply(workspace.Intent{Kind: workspace.ToggleCompleted, ID: cur.ID})
		m.settle(idx)
	case "z":
		if len(cur.Children) > 0 {
			m.apply(workspace.Intent{Kind: workspace.ToggleCollapsed, ID: cur.ID})
		}
	case "left", "h":
		if len(cur.Children) > 0 && !cur.Collapsed {
			m.apply(workspace.Intent{Kind: workspace.ToggleCollapsed, ID: cur.ID})
		} else if view.IndexOf(rows, cur.ParentID) >= 0 {
			m.focus(cur.ParentID)
		}
	case "right", "l":
		if cur.Collapsed {
			m.apply(workspace.Intent{Kind: workspace.ToggleCollapsed, ID: cur.ID})
		}
	case "K":
		m.apply(workspace.Intent{Kind: workspace.Reorder, ID: cur.ID, Dir: -1})
	case "J":
		m.apply(workspace.Intent{Kind: workspace.Reorder, ID: cur.ID, Dir: 1})
	case "m":
		if cur.IsRoot {
			m.status = describe(tree.ErrRootNode)
			return m, nil
		}
		m.picker = newPicker(m.ws, cur.ID)
		m.mode = modePicker
		return m, m.picker.focus()
	case "d", "delete":
		return m.requestDelete(cur)
	case "o":
		m.panel = newPanel(m.ws, cur, m.width)
		m.mode = modePanel
		return m, m.panel.focus()
	}
	return m, nil
}

func (m Model) requestDelete(n tree.Node) (tea.Model, tea.Cmd) {
	if n.IsRoot {
		m.status = "Page roots cannot be deleted"
		return m, nil
	}
	in := workspace.Intent{Kind: workspace.Delete, ID: n.ID}
	if below := m.ws.Descendants(n.ID); below > 0 {
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete %q and its %d subtask(s)?", displayText(n), below),
			intent: in,
		}
		m.mode = modeConfirm
		return m, nil
	}
	prev := view.IndexOf(m.rows(), n.ID)
	m.apply(in)
	m.settle(prev)
	return m, nil
}

// ---------- planner ----------

func (m Model) plannerCells() []plannerCell {
	var cells []plannerCell
	for _, p := range tree.Periods {
		cells = append(cells, plannerCell{period: p})
		for _, n := range view.Bucket(m.ws.Nodes(), m.day, p) {
			if m.filter.ShowCompleted || !n.Completed {
				cells = append(cells, plannerCell{period: p, node: n})
			}
		}
	}
	return cells
}

func (m *Model) clampPlanner() {
	m.pcell = clamp(m.pcell, 0, len(m.plannerCells())-1)
}

func (m Model) updatePlanner(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	cells := m.plannerCells()
	m.pcell = clamp(m.pcell, 0, len(cells)-1)
	cell := cells[m.pcell]

	switch k.String() {
	case "h", "left":
		m.day = view.ShiftDay(m.day, -1)
		m.pcell = 0
	case "l", "right":
		m.day = view.ShiftDay(m.day, 1)
		m.pcell = 0
	case "t":
		m.day = m.ws.Today()
		m.pcell = 0
	case "j", "down":
		m.pcell = clamp(m.pcell+1, 0, len(cells)-1)
	case "k", "up":
		m.pcell = clamp(m.pcell-1, 0, len(cells)-1)
	case "a":
		res, ok := m.apply(workspace.Intent{Kind: workspace.AddPlannerTask, Day: m.day, Period: cell.period})
		if ok {
			m.selectPlanned(res.ID, cell.period)
			return m, m.beginText(res.ID)
		}
	case "g":
		if n, ok := m.ws.Node(m.cursor); !ok || n.IsRoot {
			m.status = "Focus a task in the map first"
			return m, nil
		}
		res, ok := m.apply(workspace.Intent{Kind: workspace.PlanInto, ID: m.cursor, Day: m.day, Period: cell.period})
		switch {
		case ok && !res.Changed:
			m.status = "Already planned there"
		case ok:
			m.selectPlanned(m.cursor, cell.period)
		}
	case "x", "d":
		if cell.node.ID == "" {
			return m, nil
		}
		return m.requestUnplan(cell)
	case "e":
		if cell.node.ID != "" {
			return m, m.beginText(cell.node.ID)
		}
	case " ":
		if cell.node.ID != "" {
			m.apply(workspace.Intent{Kind: workspace.ToggleCompleted, ID: cell.node.ID})
			m.clampPlanner()
		}
	case "o":
		if cell.node.ID != "" {
			m.panel = newPanel(m.ws, cell.node, m.width)
			m.mode = modePanel
			return m, m.panel.focus()
		}
	case "enter":
		if cell.node.ID != "" {
			m.jumpTo(cell.node.ID)
		}
	}
	return m, nil
}

func (m *Model) selectPlanned(id string, p tree.Period) {
	for i, c := range m.plannerCells() {
		if c.node.ID == id && c.period == p {
			m.pcell = i
			if c.node.New {
				m.apply(workspace.Intent{Kind: workspace.MarkSeen, ID: id})
			}
			return
		}
	}
}

func (m Model) requestUnplan(cell plannerCell) (tea.Model, tea.Cmd) {
	in := workspace.Intent{Kind: workspace.Unplan, ID: cell.node.ID, Day: m.day, Period: cell.period}
	removal, ok := m.ws.Removal(cell.node.ID, m.day, cell.period)
	if !ok {
		return m, nil
	}
	if removal.NeedsConfirm() {
		prompt := fmt.Sprintf("Clear the schedule of %q?", displayText(cell.node))
		if removal == view.RemovePlannerTask {
			prompt = fmt.Sprintf("Delete planner task %q?", displayText(cell.node))
		}
		m.confirm = &confirmation{prompt: prompt, intent: in}
		m.mode = modeConfirm
		return m, nil
	}
	m.apply(in)
	m.clampPlanner()
	return m, nil
}

// jumpTo shows id in the map: its page becomes active and collapsed
// ancestors open.
func (m *Model) jumpTo(id string) {
	page, ok, err := m.ws.JumpTo(id)
	if err != nil {
		m.status = describe(err)
		return
	}
	if !ok {
		m.status = "Planner tasks have no page"
		return
	}
	path := m.ws.Path(id)
	for _, anc := range path[:max(len(path)-1, 0)] {
		if n, ok := m.ws.Node(anc); ok && n.Collapsed {
			m.apply(workspace.Intent{Kind: workspace.ToggleCollapsed, ID: anc})
		}
	}
	if view.IndexOf(m.rows(), id) < 0 {
		m.filter.ShowCompleted = true
	}
	if m.screen == screenSplit {
		m.pane = paneMap
	} else {
		m.screen = screenMap
	}
	m.focus(id)
	m.status = "Jumped to " + page.Title
}

// ---------- sorter ----------

type sorterRow struct {
	deadline bool
	node     tree.Node
}

func (m Model) sorterRows() []sorterRow {
	var rows []sorterRow
	for _, n := range view.Schedules(m.ws.Nodes(), m.filter.Energy) {
		rows = append(rows, sorterRow{node: n})
	}
	for _, n := range view.Deadlines(m.ws.Nodes(), m.filter.Energy) {
		rows = append(rows, sorterRow{deadline: true, node: n})
	}
	return rows
}

func (m Model) updateSorter(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.sorterRows()
	switch k.String() {
	case "tab":
		m.calendar = true
	case "j", "down":
		m.scell = clamp(m.scell+1, 0, max(len(rows)-1, 0))
	case "k", "up":
		m.scell = clamp(m.scell-1, 0, max(len(rows)-1, 0))
	case "enter":
		if m.scell < len(rows) {
			m.jumpTo(rows[m.scell].node.ID)
		}
	case " ":
		if m.scell < len(rows) {
			m.apply(workspace.Intent{Kind: workspace.ToggleCompleted, ID: rows[m.scell].node.ID})
		}
	}
	return m, nil
}

func (m Model) updateCalendar(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "tab":
		m.calendar = false
	case "h":
		m.shiftMonth(-1)
	case "l":
		m.shiftMonth(1)
	case "left":
		m.moveCalDay(-1)
	case "right":
		m.moveCalDay(1)
	case "up":
		m.moveCalDay(-7)
	case "down":
		m.moveCalDay(7)
	case "t":
		m.calDay = m.ws.Today()
		m.moveCalDay(0)
	case "enter":
		m.mode = modeDayDetail
		m.scell = 0
	}
	return m, nil
}

func (m *Model) shiftMonth(offset int) {
	m.month = m.month.AddDate(0, offset, 0)
	m.calDay = m.month.Format(view.DayLayout)
}

// moveCalDay moves the selected day and keeps the month in step with it.
func (m *Model) moveCalDay(offset int) {
	m.calDay = view.ShiftDay(m.calDay, offset)
	if d, err := time.ParseInLocation(view.DayLayout, m.calDay, m.month.Location()); err == nil {
		m.month = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	}
}

func (m Model) updateDayDetail(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := view.DayTasks(m.ws.Nodes(), m.calDay, m.filter.Energy)
	switch k.String() {
	case "esc", "q":
		m.mode = modeNormal
	case "j", "down":
		m.scell = clamp(m.scell+1, 0, max(len(tasks)-1, 0))
	case "k", "up":
		m.scell = clamp(m.scell-1, 0, max(len(tasks)-1, 0))
	case "enter":
		m.mode = modeNormal
		if m.scell < len(tasks) {
			m.calendar = false
			m.jumpTo(tasks[m.scell].ID)
		}
	}
	return m, nil
}

// ---------- panels ----------

func (m Model) updatePanel(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "ctrl+s":
		patch, err := m.panel.patch(m.ws.Now())
		if err != nil {
			m.panel.err = describe(err)
			return m, nil
		}
		if _, ok := m.apply(workspace.Intent{Kind: workspace.SetFields, ID: m.panel.id, Patch: patch}); !ok {
			m.panel.err = m.status
			m.status = ""
			return m, nil
		}
		m.mode = modeNormal
		m.settle(view.IndexOf(m.rows(), m.cursor))
		m.clampPlanner()
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.update(k)
	return m, cmd
}

func (m Model) updatePicker(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "enter":
		target, ok := m.picker.selected()
		m.mode = modeNormal
		if !ok {
			return m, nil
		}
		if _, ok := m.apply(workspace.Intent{Kind: workspace.Reparent, ID: m.picker.id, Target: target}); ok {
			m.jumpTo(m.picker.id)
			m.status = "Moved"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.update(k)
	return m, cmd
}
