package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mindtask/mindtask/internal/view"
)

type style struct {
	topBar      lipgloss.Style
	statusBar   lipgloss.Style
	panelTitle  lipgloss.Style
	borderFocus lipgloss.Style
	borderDim   lipgloss.Style

	textDim  lipgloss.Style
	textBold lipgloss.Style
	cursor   lipgloss.Style
	heading  lipgloss.Style
	done     lipgloss.Style
	energy   lipgloss.Style
	sched    lipgloss.Style
	period   lipgloss.Style
	today    lipgloss.Style
	errText  lipgloss.Style

	overdue  lipgloss.Style
	dueToday lipgloss.Style
	dueSoon  lipgloss.Style

	modalBox   lipgloss.Style
	modalTitle lipgloss.Style
	label      lipgloss.Style
}

// Palettes. The default one follows Catppuccin Mocha.
const (
	ThemeDefault = "default"
	ThemeMono    = "mono"
)

func newStyle(theme string) style {
	if theme == ThemeMono {
		return monoStyle()
	}
	return style{
		topBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true).Padding(0, 1),
		statusBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Background(lipgloss.Color("#313244")).Padding(0, 1),
		panelTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de")).Bold(true),
		borderFocus: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(0, 1),
		borderDim:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#585b70")).Padding(0, 1),

		textDim:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
		textBold: lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Background(lipgloss.Color("#313244")).Foreground(lipgloss.Color("#f5e0dc")),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#6c7086")),
		energy:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		sched:    lipgloss.NewStyle().Foreground(lipgloss.Color("#94E2D5")),
		period:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBA6F7")),
		today:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		errText:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),

		overdue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		dueToday: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),
		dueSoon:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),

		modalBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(1, 2).Width(64),
		modalTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4")),
		label:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	}
}

func monoStyle() style {
	plain := lipgloss.NewStyle()
	box := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	return style{
		topBar:      plain.Bold(true).Padding(0, 1),
		statusBar:   plain.Reverse(true).Padding(0, 1),
		panelTitle:  plain.Bold(true),
		borderFocus: box.BorderStyle(lipgloss.ThickBorder()),
		borderDim:   box,
		textDim:     plain.Faint(true),
		textBold:    plain.Bold(true),
		cursor:      plain.Reverse(true),
		heading:     plain.Bold(true).Underline(true),
		done:        plain.Strikethrough(true).Faint(true),
		energy:      plain,
		sched:       plain.Italic(true),
		period:      plain.Bold(true),
		today:       plain.Bold(true),
		errText:     plain.Bold(true),
		overdue:     plain.Bold(true).Underline(true),
		dueToday:    plain.Bold(true),
		dueSoon:     plain,
		modalBox:    plain.Border(lipgloss.NormalBorder()).Padding(1, 2).Width(64),
		modalTitle:  plain.Bold(true),
		label:       plain.Faint(true),
	}
}

func (s style) border(focused bool) lipgloss.Style {
	if focused {
		return s.borderFocus
	}
	return s.borderDim
}

func (s style) urgency(u view.Urgency) lipgloss.Style {
	switch u {
	case view.Overdue:
		return s.overdue
	case view.DueToday:
		return s.dueToday
	case view.DueSoon:
		return s.dueSoon
	}
	return s.textDim
}
