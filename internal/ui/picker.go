package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/workspace"
)

const maxSuggestions = 8

// candidate is a node the picked task may move under.
type candidate struct {
	id    string
	label string // "Page › parent › node"
}

// picker is a text input with a filtered suggestion list of move targets.
type picker struct {
	id          string // node being moved
	input       textinput.Model
	all         []candidate
	suggestions []candidate
	selectedIdx int
}

// newPicker lists every node of every page except id, its subtree and its
// current parent.
func newPicker(ws *workspace.Workspace, id string) picker {
	in := textinput.New()
	in.Placeholder = "Type to filter targets..."
	in.CharLimit = 100
	in.Width = 48

	n, _ := ws.Node(id)
	var all []candidate
	for _, p := range ws.Pages() {
		var walk func(nid string, trail []string)
		walk = func(nid string, trail []string) {
			if nid == id {
				return
			}
			node, ok := ws.Node(nid)
			if !ok {
				return
			}
			label := p.Title
			if !node.IsRoot {
				label = strings.Join(append(slices.Clone(trail), displayText(node)), " › ")
			}
			if nid != n.ParentID {
				all = append(all, candidate{id: nid, label: label})
			}
			for _, c := range node.Children {
				walk(c, append(slices.Clone(trail), labelOrTitle(node, p.Title)))
			}
		}
		walk(p.RootID, nil)
	}
	pk := picker{id: id, input: in, all: all}
	pk.filter()
	return pk
}

func labelOrTitle(n tree.Node, title string) string {
	if n.IsRoot {
		return title
	}
	return displayText(n)
}

func (p *picker) focus() tea.Cmd {
	return p.input.Focus()
}

func (p *picker) filter() {
	q := strings.ToLower(strings.TrimSpace(p.input.Value()))
	var out []candidate
	for _, c := range p.all {
		if q == "" || strings.Contains(strings.ToLower(c.label), q) {
			out = append(out, c)
		}
	}
	p.suggestions = out
	p.selectedIdx = clamp(p.selectedIdx, 0, max(len(p.suggestions)-1, 0))
}

func (p picker) update(msg tea.Msg) (picker, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyTab, tea.KeyDown:
			if len(p.suggestions) > 0 {
				p.selectedIdx = (p.selectedIdx + 1) % len(p.suggestions)
			}
			return p, nil
		case tea.KeyShiftTab, tea.KeyUp:
			if len(p.suggestions) > 0 {
				p.selectedIdx = (p.selectedIdx - 1 + len(p.suggestions)) % len(p.suggestions)
			}
			return p, nil
		}
	}
	old := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != old {
		p.selectedIdx = 0
		p.filter()
	}
	return p, cmd
}

func (p picker) selected() (string, bool) {
	if p.selectedIdx < len(p.suggestions) {
		return p.suggestions[p.selectedIdx].id, true
	}
	return "", false
}

func (p picker) view(st style) string {
	var b strings.Builder
	b.WriteString(p.input.View() + "\n\n")
	if len(p.suggestions) == 0 {
		b.WriteString(st.textDim.Render("No matching tasks") + "\n")
	}
	// keep the selection inside the visible window
	start := max(0, p.selectedIdx-maxSuggestions+1)
	end := min(len(p.suggestions), start+maxSuggestions)
	for i := start; i < end; i++ {
		s := p.suggestions[i]
		if i == p.selectedIdx {
			b.WriteString(st.cursor.Render("▶ "+s.label) + "\n")
		} else {
			b.WriteString(st.textDim.Render("  "+s.label) + "\n")
		}
	}
	b.WriteString("\n" + st.textDim.Render("↑/↓ select • enter move • esc cancel"))
	return b.String()
}
