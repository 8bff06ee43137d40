package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
)

func displayText(n tree.Node) string {
	if strings.TrimSpace(n.Text) == "" {
		return "(untitled)"
	}
	return n.Text
}

// ---------- map ----------

func (m Model) renderMap(w, h int) string {
	rows := m.rows()
	detail := m.renderDetail(w)
	listH := max(h-lipgloss.Height(detail)-1, 3)
	if detail == "" {
		listH = h
	}

	idx := max(view.IndexOf(rows, m.cursor), 0)
	start := 0
	if idx >= listH {
		start = idx - listH + 1
	}
	end := min(start+listH, len(rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		line := m.renderRow(rows[i], w)
		if rows[i].Node.ID == m.cursor && (m.screen != screenSplit || m.pane == paneMap) {
			line = m.st.cursor.Render(padRight(line, w))
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(rows) == 0 {
		b.WriteString(m.st.textDim.Render("Nothing to show. Press c to show completed tasks."))
	}
	if detail == "" {
		return b.String()
	}
	list := lipgloss.NewStyle().Height(listH).Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, list, m.st.textDim.Render(strings.Repeat("─", w)), detail)
}

func (m Model) renderRow(r view.Row, w int) string {
	n := r.Node
	indent := strings.Repeat("  ", r.Depth)
	if n.IsRoot {
		return m.st.heading.Render("◆ " + displayText(n))
	}

	branch := "• "
	if r.HasChildren {
		branch = "▾ "
		if n.Collapsed {
			branch = "▸ "
		}
	}
	box := "[ ] "
	if n.Completed {
		box = "[x] "
	}

	text := displayText(n)
	if r.Heading {
		// section label: no completion box, no task attributes
		style := m.st.heading
		if r.Dimmed {
			style = m.st.textDim
		}
		return lipgloss.NewStyle().MaxWidth(w).Render(indent + branch + style.Render(text))
	}
	switch {
	case r.Dimmed:
		text = m.st.textDim.Render(text)
	case n.Completed:
		text = m.st.done.Render(text)
	}

	var meta []string
	if n.Energy > 0 {
		meta = append(meta, m.st.energy.Render(fmt.Sprintf("⚡%d", n.Energy)))
	}
	switch n.Time.Kind {
	case tree.TimeDeadline:
		u := view.DeadlineUrgency(n.Time.Deadline, m.ws.Now())
		meta = append(meta, m.st.urgency(u).Render("due "+view.FormatTime(n.Time.Deadline)))
	case tree.TimeSchedule:
		meta = append(meta, m.st.sched.Render("⏱ "+view.FormatSchedule(n.Time.Start, n.Time.End)))
	}
	if len(n.Slots) > 0 {
		meta = append(meta, m.st.textDim.Render(fmt.Sprintf("@%d", len(n.Slots))))
	}
	if n.Notes != "" {
		meta = append(meta, m.st.textDim.Render("✎"))
	}

	line := indent + branch + box + text
	if len(meta) > 0 {
		line += "  " + strings.Join(meta, " ")
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(line)
}

// renderDetail shows the focused node's path and notes under the outline.
func (m Model) renderDetail(w int) string {
	n, ok := m.ws.Node(m.cursor)
	if !ok || n.IsRoot || n.Notes == "" {
		return ""
	}
	var crumbs []string
	for _, id := range m.ws.Path(n.ID) {
		if p, ok := m.ws.Node(id); ok {
			crumbs = append(crumbs, displayText(p))
		}
	}
	head := m.st.label.Render(strings.Join(crumbs, " › "))
	return head + "\n" + truncateLines(renderMarkdown(n.Notes, w, m.mono), 8)
}

// ---------- planner ----------

func periodLabel(p tree.Period) string {
	switch p {
	case tree.Morning:
		return "Morning"
	case tree.Afternoon:
		return "Afternoon"
	}
	return "Evening"
}

func (m Model) renderPlanner(w, h int) string {
	var b strings.Builder
	day := m.day
	if day == m.ws.Today() {
		day = m.st.today.Render(day + " (today)")
	} else {
		day = m.st.textBold.Render(day)
	}
	b.WriteString("‹ " + day + " ›\n")

	focused := m.screen != screenSplit || m.pane == panePlanner
	cells := m.plannerCells()
	for i, c := range cells {
		var line string
		if c.node.ID == "" {
			line = "\n" + m.st.period.Render(fmt.Sprintf("%s  %02d:00", periodLabel(c.period), m.ws.Hours().For(c.period)))
			if i == m.pcell && focused {
				line = "\n" + m.st.cursor.Render(padRight(strings.TrimPrefix(line, "\n"), w))
			}
		} else {
			line = m.renderPlannerTask(c, w)
			if i == m.pcell && focused {
				line = m.st.cursor.Render(padRight(line, w))
			}
		}
		b.WriteString(line + "\n")
	}
	return lipgloss.NewStyle().MaxHeight(h).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderPlannerTask(c plannerCell, w int) string {
	n := c.node
	box := "[ ] "
	text := displayText(n)
	switch {
	case m.ws.IsHeading(n.ID):
		box = "§ "
		text = m.st.heading.Render(text)
	case n.Completed:
		box = "[x] "
		text = m.st.done.Render(text)
	}
	line := "  " + box + text
	if n.Time.Kind == tree.TimeSchedule && n.Time.ShowTime && view.InPeriod(tree.Node{Time: n.Time}, m.day, c.period) {
		line += "  " + m.st.sched.Render(view.FormatSchedule(n.Time.Start, n.Time.End))
	}
	if n.PlannerOnly() {
		line += " " + m.st.textDim.Render("·planner")
	}
	if n.Energy > 0 && !m.ws.IsHeading(n.ID) {
		line += " " + m.st.energy.Render(fmt.Sprintf("⚡%d", n.Energy))
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(line)
}

// ---------- sorter ----------

func (m Model) renderSorter(w, h int) string {
	if m.calendar {
		return m.renderCalendar(w, h)
	}
	rows := m.sorterRows()
	colW := max(w/2-1, 20)
	var sched, ddl []string
	sched = append(sched, m.st.panelTitle.Render("Schedule"))
	ddl = append(ddl, m.st.panelTitle.Render("Deadlines"))
	for i, r := range rows {
		n := r.node
		var line string
		if r.deadline {
			u := view.DeadlineUrgency(n.Time.Deadline, m.ws.Now())
			line = padRight(m.st.urgency(u).Render(view.FormatTime(n.Time.Deadline)), 12) + displayText(n)
		} else {
			line = padRight(m.st.sched.Render(view.FormatSchedule(n.Time.Start, n.Time.End)), 20) + displayText(n)
		}
		if n.Completed {
			line = m.st.done.Render(line)
		}
		line = lipgloss.NewStyle().MaxWidth(colW).Render(line)
		if i == m.scell {
			line = m.st.cursor.Render(padRight(line, colW))
		}
		if r.deadline {
			ddl = append(ddl, line)
		} else {
			sched = append(sched, line)
		}
	}
	if len(sched) == 1 {
		sched = append(sched, m.st.textDim.Render("No scheduled tasks"))
	}
	if len(ddl) == 1 {
		ddl = append(ddl, m.st.textDim.Render("No deadlines"))
	}
	left := lipgloss.NewStyle().Width(colW).MaxHeight(h).Render(strings.Join(sched, "\n"))
	right := lipgloss.NewStyle().Width(colW).MaxHeight(h).Render(strings.Join(ddl, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func (m Model) renderCalendar(w, h int) string {
	var b strings.Builder
	b.WriteString(m.st.textBold.Render("‹ "+m.month.Format("January 2006")+" ›") + "\n\n")
	cellW := 7
	for _, d := range weekdayHeader {
		b.WriteString(m.st.label.Render(padRight(d, cellW)))
	}
	b.WriteString("\n")
	today := m.ws.Today()
	for _, week := range view.MonthGrid(m.month.Year(), m.month.Month()) {
		for _, d := range week {
			if d.IsZero() {
				b.WriteString(strings.Repeat(" ", cellW))
				continue
			}
			day := d.Format(view.DayLayout)
			cell := fmt.Sprintf("%2d", d.Day())
			if n := len(view.DayTasks(m.ws.Nodes(), day, m.filter.Energy)); n > 0 {
				cell += fmt.Sprintf("·%d", n)
			}
			cell = padRight(cell, cellW-1)
			switch {
			case day == m.calDay:
				cell = m.st.cursor.Render(cell)
			case day == today:
				cell = m.st.today.Render(cell)
			}
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + m.st.panelTitle.Render(m.calDay) + "\n")
	tasks := view.DayTasks(m.ws.Nodes(), m.calDay, m.filter.Energy)
	if len(tasks) == 0 {
		b.WriteString(m.st.textDim.Render("Nothing due or scheduled"))
	}
	for _, n := range tasks {
		b.WriteString(m.taskLine(n) + "\n")
	}
	return lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) taskLine(n tree.Node) string {
	when := ""
	switch n.Time.Kind {
	case tree.TimeDeadline:
		u := view.DeadlineUrgency(n.Time.Deadline, m.ws.Now())
		when = m.st.urgency(u).Render("due " + view.FormatTime(n.Time.Deadline))
	case tree.TimeSchedule:
		when = m.st.sched.Render(view.FormatSchedule(n.Time.Start, n.Time.End))
	}
	text := displayText(n)
	if n.Completed {
		text = m.st.done.Render(text)
	}
	return text + "  " + when
}

func (m Model) renderDayDetail() string {
	tasks := view.DayTasks(m.ws.Nodes(), m.calDay, m.filter.Energy)
	if len(tasks) == 0 {
		return m.st.textDim.Render("Nothing due or scheduled.") + "\n\n" + m.st.textDim.Render("esc close")
	}
	var lines []string
	for i, n := range tasks {
		line := m.taskLine(n)
		if i == m.scell {
			line = m.st.cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n\n" + m.st.textDim.Render("enter jump • esc close")
}

// ---------- help ----------

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"Map", [][2]string{
		{"enter / tab", "add sibling / child"},
		{"shift+tab", "outdent"},
		{"e", "edit text"},
		{"space", "toggle done"},
		{"z ← →", "collapse / expand"},
		{"K / J", "move up / down"},
		{"m", "move under…"},
		{"d", "delete"},
		{"o", "properties"},
	}},
	{"Planner", [][2]string{
		{"h / l", "previous / next day"},
		{"j / k", "select"},
		{"a", "new task in period"},
		{"g", "plan focused map task here"},
		{"x", "remove from planner"},
		{"enter", "jump to task"},
	}},
	{"Sorter", [][2]string{
		{"tab", "lists / calendar"},
		{"h / l", "previous / next month"},
		{"arrows", "select day"},
		{"enter", "day detail"},
	}},
	{"Everywhere", [][2]string{
		{"u / ctrl+z", "undo"},
		{"1-5 / 0", "energy filter / clear"},
		{"c", "show completed"},
		{"[ / ]", "previous / next page"},
		{"N / R", "new / rename page"},
		{"p s v", "planner, sorter, split (w switches pane)"},
		{"q", "quit"},
	}},
}

func (m Model) helpView() string {
	var b strings.Builder
	for i, sec := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.st.panelTitle.Render(sec.title) + "\n")
		for _, kv := range sec.keys {
			b.WriteString("  " + m.st.label.Render(padRight(kv[0], 14)) + kv[1] + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
