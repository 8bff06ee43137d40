package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/utils"
	"github.com/mindtask/mindtask/internal/view"
	"github.com/mindtask/mindtask/internal/workspace"
)

type field int

const (
	fieldText field = iota
	fieldTimeKind
	fieldDeadline
	fieldStart
	fieldEnd
	fieldShowTime
	fieldEnergy
	fieldHeading
	fieldCompleted
	fieldNotes
	fieldCount
)

var timeKinds = []tree.TimeKind{tree.TimeNone, tree.TimeDeadline, tree.TimeSchedule}

// panel edits every attribute of one node. Nothing is written until the
// whole form is saved as a single SetFields intent.
type panel struct {
	id         string
	root       bool
	canHeading bool
	origHead   bool
	at         field

	text     textinput.Model
	deadline textinput.Model
	start    textinput.Model
	end      textinput.Model
	notes    textarea.Model

	kind      tree.TimeKind
	showTime  bool
	heading   bool
	completed bool
	energy    int

	width int
	err   string
}

func newPanel(ws *workspace.Workspace, n tree.Node, width int) panel {
	mk := func(placeholder, value string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 500
		in.Width = 40
		in.SetValue(value)
		return in
	}
	notes := textarea.New()
	notes.Placeholder = "Notes (markdown)"
	notes.SetHeight(6)
	notes.SetWidth(52)
	notes.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("#313244"))
	notes.SetValue(n.Notes)

	p := panel{
		id:         n.ID,
		root:       n.IsRoot,
		canHeading: ws.CanHeading(n.ID),
		origHead:   n.Heading,
		text:       mk("Task text", n.Text),
		deadline:   mk("tomorrow | fri 17:00 | 2006-01-02", n.Time.Deadline),
		start:      mk("today 14:00 | 2006-01-02T15:04", n.Time.Start),
		end:        mk("2006-01-02T15:04 (optional)", n.Time.End),
		notes:      notes,
		kind:       n.Time.Kind,
		showTime:   n.Time.ShowTime,
		heading:    n.Heading,
		completed:  n.Completed,
		energy:     n.Energy,
	}
	if n.Time.Kind != tree.TimeSchedule {
		p.showTime = true
	}
	p.resize(width)
	return p
}

func (p *panel) resize(width int) {
	p.width = width
	w := clamp(width-24, 20, 52)
	for _, in := range []*textinput.Model{&p.text, &p.deadline, &p.start, &p.end} {
		in.Width = w
	}
	p.notes.SetWidth(w + 4)
}

// isHeading reports whether the form currently describes a heading, which
// carries no time, energy or completion.
func (p panel) isHeading() bool { return p.canHeading && p.heading }

func (p panel) visible(f field) bool {
	switch f {
	case fieldDeadline:
		return !p.isHeading() && p.kind == tree.TimeDeadline
	case fieldStart, fieldEnd, fieldShowTime:
		return !p.isHeading() && p.kind == tree.TimeSchedule
	case fieldHeading:
		return p.canHeading
	case fieldTimeKind, fieldEnergy, fieldCompleted:
		return !p.root && !p.isHeading()
	}
	return true
}

func (p *panel) focus() tea.Cmd {
	p.text.Blur()
	p.deadline.Blur()
	p.start.Blur()
	p.end.Blur()
	p.notes.Blur()
	switch p.at {
	case fieldText:
		return p.text.Focus()
	case fieldDeadline:
		return p.deadline.Focus()
	case fieldStart:
		return p.start.Focus()
	case fieldEnd:
		return p.end.Focus()
	case fieldNotes:
		return p.notes.Focus()
	}
	return nil
}

func (p *panel) move(dir int) tea.Cmd {
	f := p.at
	for range fieldCount {
		f = (f + field(dir) + fieldCount) % fieldCount
		if p.visible(f) {
			break
		}
	}
	p.at = f
	return p.focus()
}

func (p panel) update(msg tea.Msg) (panel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		p.err = ""
		switch k.String() {
		case "tab":
			return p, p.move(1)
		case "shift+tab":
			return p, p.move(-1)
		}
		if p.updateChoice(k.String()) {
			return p, nil
		}
	}
	var cmd tea.Cmd
	switch p.at {
	case fieldText:
		p.text, cmd = p.text.Update(msg)
	case fieldDeadline:
		p.deadline, cmd = p.deadline.Update(msg)
	case fieldStart:
		p.start, cmd = p.start.Update(msg)
	case fieldEnd:
		p.end, cmd = p.end.Update(msg)
	case fieldNotes:
		p.notes, cmd = p.notes.Update(msg)
	}
	return p, cmd
}

// updateChoice handles the fields that are picked rather than typed.
func (p *panel) updateChoice(key string) bool {
	step := 0
	switch key {
	case "left", "h":
		step = -1
	case "right", "l", " ", "enter":
		step = 1
	}
	switch p.at {
	case fieldTimeKind:
		if step != 0 {
			i := (int(p.kind) + step + len(timeKinds)) % len(timeKinds)
			p.kind = timeKinds[i]
		}
	case fieldEnergy:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '0'+tree.MaxEnergy {
			p.energy = int(key[0] - '0')
			return true
		}
		if step != 0 {
			p.energy = clamp(p.energy+step, 0, tree.MaxEnergy)
		}
	case fieldShowTime:
		if step != 0 {
			p.showTime = !p.showTime
		}
	case fieldHeading:
		if step != 0 {
			p.heading = !p.heading
		}
	case fieldCompleted:
		if step != 0 {
			p.completed = !p.completed
		}
	default:
		return false
	}
	return true
}

var (
	errDateRequired  = errors.New("a deadline needs a date")
	errStartRequired = errors.New("a schedule needs a start time")
)

// patch turns the form into the change set for SetFields. Free-form dates go
// through the flexible parser.
func (p panel) patch(now time.Time) (tree.Patch, error) {
	patch := tree.Patch{
		Text:  tree.Ptr(strings.TrimSpace(p.text.Value())),
		Notes: tree.Ptr(p.notes.Value()),
	}
	if p.heading != p.origHead {
		patch.Heading = tree.Ptr(p.heading)
	}
	if p.root || p.isHeading() {
		return patch, nil
	}
	patch.Energy = tree.Ptr(p.energy)
	patch.Completed = tree.Ptr(p.completed)

	switch p.kind {
	case tree.TimeDeadline:
		ddl, err := parseOptional(p.deadline.Value(), now)
		if err != nil {
			return patch, fmt.Errorf("deadline: %w", err)
		}
		if ddl == "" {
			return patch, errDateRequired
		}
		patch.Time = tree.Ptr(tree.DeadlineAt(ddl))
	case tree.TimeSchedule:
		start, err := parseOptional(p.start.Value(), now)
		if err != nil {
			return patch, fmt.Errorf("start: %w", err)
		}
		if start == "" {
			return patch, errStartRequired
		}
		if view.DateOnly(start) {
			start += "T09:00"
		}
		end, err := parseOptional(p.end.Value(), now)
		if err != nil {
			return patch, fmt.Errorf("end: %w", err)
		}
		if end != "" && view.DateOnly(end) {
			end += "T23:59"
		}
		patch.Time = tree.Ptr(tree.ScheduleAt(start, end, p.showTime))
	default:
		patch.Time = tree.Ptr(tree.NoTime())
	}
	return patch, nil
}

func parseOptional(s string, now time.Time) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return utils.ParseStamp(s, now)
}

func (p panel) view(st style, mono bool) string {
	var b strings.Builder
	b.WriteString(st.modalTitle.Render("Properties") + "\n\n")
	row := func(f field, label, value string) {
		if !p.visible(f) {
			return
		}
		marker := "  "
		if p.at == f {
			marker = "› "
		}
		b.WriteString(marker + st.label.Render(padRight(label, 11)) + value + "\n")
	}
	toggle := func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	}

	row(fieldText, "Text", p.text.View())
	row(fieldTimeKind, "Time", fmt.Sprintf("‹ %s ›", p.kind))
	row(fieldDeadline, "Deadline", p.deadline.View())
	row(fieldStart, "Start", p.start.View())
	row(fieldEnd, "End", p.end.View())
	row(fieldShowTime, "Show time", toggle(p.showTime))
	row(fieldEnergy, "Energy", st.energy.Render(strings.Repeat("⚡", p.energy)+strings.Repeat("·", tree.MaxEnergy-p.energy)))
	row(fieldHeading, "Heading", toggle(p.heading))
	row(fieldCompleted, "Done", toggle(p.completed))
	if p.at == fieldNotes {
		b.WriteString("› " + st.label.Render("Notes") + "\n" + p.notes.View() + "\n")
	} else {
		b.WriteString("  " + st.label.Render("Notes") + "\n")
		if md := renderMarkdown(p.notes.Value(), 52, mono); md != "" {
			b.WriteString(truncateLines(md, 8) + "\n")
		} else {
			b.WriteString(st.textDim.Render("    (none)") + "\n")
		}
	}
	if p.err != "" {
		b.WriteString("\n" + st.errText.Render(p.err) + "\n")
	}
	b.WriteString("\n" + st.textDim.Render("tab next • ←/→ change • ctrl+s save • esc cancel"))
	return st.modalBox.Render(b.String())
}
