package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
	FormatQuiet   OutputFormat = "quiet"
)

func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatDefault:
		return FormatDefault, nil
	case FormatJSON, FormatCSV, FormatCompact, FormatQuiet:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want default|json|csv|compact|quiet)", s)
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format   OutputFormat
	Width    int
	ShowID   bool
	ShowMeta bool
	Color    bool
	Now      time.Time
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}

	return &RenderConfig{
		Format:   FormatDefault,
		Width:    width,
		ShowID:   true,
		ShowMeta: true,
		Color:    true,
		Now:      time.Now(),
	}
}

// Entry is one node prepared for output.
type Entry struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Depth     int         `json:"depth"`
	Page      string      `json:"page,omitempty"`
	Completed bool        `json:"completed"`
	Root      bool        `json:"isRoot,omitempty"`
	Heading   bool        `json:"heading,omitempty"`
	Dimmed    bool        `json:"-"`
	Energy    int         `json:"energy"`
	TimeType  string      `json:"timeType,omitempty"`
	Deadline  string      `json:"ddl,omitempty"`
	Start     string      `json:"scheduleStart,omitempty"`
	End       string      `json:"scheduleEnd,omitempty"`
	Urgency   string      `json:"urgency,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Slots     []tree.Slot `json:"plannedSlots,omitempty"`
}

// NewEntry flattens n for output; now grades deadline urgency.
func NewEntry(n tree.Node, depth int, page string, now time.Time) Entry {
	e := Entry{
		ID:        n.ID,
		Text:      n.Text,
		Depth:     depth,
		Page:      page,
		Completed: n.Completed,
		Root:      n.IsRoot,
		Heading:   n.Heading,
		Energy:    n.Energy,
		Notes:     n.Notes,
		Slots:     n.Slots,
	}
	switch n.Time.Kind {
	case tree.TimeDeadline:
		e.TimeType = "ddl"
		e.Deadline = n.Time.Deadline
		e.Urgency = view.DeadlineUrgency(n.Time.Deadline, now).String()
	case tree.TimeSchedule:
		e.TimeType = "schedule"
		e.Start = n.Time.Start
		e.End = n.Time.End
	}
	return e
}

// EntryList is a titled group of entries.
type EntryList struct {
	Title   string            `json:"title"`
	Entries []Entry           `json:"entries"`
	Total   int               `json:"total"`
	Query   string            `json:"query,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Heading   lipgloss.Style
	Text      lipgloss.Style
	Done      lipgloss.Style
	Dim       lipgloss.Style
	Energy    lipgloss.Style
	Schedule  lipgloss.Style
	Highlight lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
}

// NewRenderer creates a new renderer with the given config
func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	return &Renderer{
		config: config,
		styles: initStyles(config.Color),
	}
}

func (r *Renderer) Styles() *Styles { return r.styles }

// initStyles initializes the style set
func initStyles(color bool) *Styles {
	styles := &Styles{}

	if color {
		styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
		styles.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
		styles.Meta = lipgloss.NewStyle().Faint(true)
		styles.ID = lipgloss.NewStyle().Faint(true)
		styles.Heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBA6F7"))
		styles.Text = lipgloss.NewStyle()
		styles.Done = lipgloss.NewStyle().Faint(true).Strikethrough(true)
		styles.Dim = lipgloss.NewStyle().Faint(true)
		styles.Energy = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
		styles.Schedule = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
		styles.Highlight = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF"))
		styles.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
		styles.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
		styles.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))
	} else {
		// Monochrome styles
		styles.Title = lipgloss.NewStyle().Bold(true)
		styles.Separator = lipgloss.NewStyle()
		styles.Meta = lipgloss.NewStyle()
		styles.ID = lipgloss.NewStyle()
		styles.Heading = lipgloss.NewStyle().Bold(true)
		styles.Text = lipgloss.NewStyle()
		styles.Done = lipgloss.NewStyle()
		styles.Dim = lipgloss.NewStyle()
		styles.Energy = lipgloss.NewStyle()
		styles.Schedule = lipgloss.NewStyle()
		styles.Highlight = lipgloss.NewStyle().Bold(true)
		styles.Success = lipgloss.NewStyle()
		styles.Error = lipgloss.NewStyle()
		styles.Warning = lipgloss.NewStyle()
	}

	return styles
}

// UrgencyStyle colors a deadline badge the way the map view does.
func (s *Styles) UrgencyStyle(u string) lipgloss.Style {
	switch u {
	case view.Overdue.String():
		return s.Error
	case view.DueToday.String():
		return s.Warning
	case view.DueSoon.String():
		return s.Highlight
	default:
		return s.Success
	}
}

// RenderEntryList renders a list of entries according to the configured format
func (r *Renderer) RenderEntryList(list *EntryList) (string, error) {
	list.Total = len(list.Entries)
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(list)
	case FormatCSV:
		return r.renderCSV(list)
	case FormatCompact:
		return r.renderCompact(list)
	case FormatQuiet:
		return r.renderQuiet(list)
	default:
		return r.renderDefault(list)
	}
}

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

// renderDefault renders entries as an indented outline
func (r *Renderer) renderDefault(list *EntryList) (string, error) {
	var builder strings.Builder

	// Header
	builder.WriteString(r.styles.Title.Render(list.Title))
	if list.Query != "" {
		builder.WriteString("  ")
		builder.WriteString(r.styles.Separator.Render("query: "))
		builder.WriteString(list.Query)
	}
	for k, v := range list.Filters {
		builder.WriteString("  ")
		builder.WriteString(r.styles.Meta.Render(k + "=" + v))
	}
	builder.WriteString("\n")
	builder.WriteString(r.rule())
	builder.WriteString("\n")

	if len(list.Entries) == 0 {
		builder.WriteString(r.styles.Meta.Render("  (nothing here)"))
		builder.WriteString("\n")
	}
	for _, entry := range list.Entries {
		builder.WriteString(r.RenderEntry(entry))
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// RenderEntry renders one outline line.
func (r *Renderer) RenderEntry(e Entry) string {
	var parts []string
	indent := strings.Repeat("  ", e.Depth)

	box := "[ ]"
	if e.Completed {
		box = "[x]"
	}
	text := e.Text
	if text == "" {
		text = "(untitled)"
	}
	switch {
	case e.Root:
		parts = append(parts, r.styles.Title.Render(text))
	case e.Heading:
		parts = append(parts, r.styles.Heading.Render("# "+text))
	case e.Completed:
		parts = append(parts, box, r.styles.Done.Render(text))
	case e.Dimmed:
		parts = append(parts, box, r.styles.Dim.Render(text))
	default:
		parts = append(parts, box, r.styles.Text.Render(text))
	}

	if r.config.ShowMeta && !e.Heading && !e.Root {
		if e.Energy > 0 {
			parts = append(parts, r.styles.Energy.Render(strings.Repeat("⚡", e.Energy)))
		}
		switch e.TimeType {
		case "ddl":
			parts = append(parts, r.styles.UrgencyStyle(e.Urgency).Render("due "+view.FormatTime(e.Deadline)))
		case "schedule":
			parts = append(parts, r.styles.Schedule.Render(view.FormatSchedule(e.Start, e.End)))
		}
		for _, s := range e.Slots {
			parts = append(parts, r.styles.Meta.Render(fmt.Sprintf("@%s/%s", view.FormatTime(s.Date), s.Period)))
		}
	}
	if r.config.ShowID {
		parts = append(parts, r.styles.ID.Render("["+e.ID+"]"))
	}
	return indent + strings.Join(parts, " ")
}

// renderJSON renders entries as JSON
func (r *Renderer) renderJSON(list *EntryList) (string, error) {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// renderCSV renders entries as CSV
func (r *Renderer) renderCSV(list *EntryList) (string, error) {
	var builder strings.Builder

	builder.WriteString("id,page,depth,text,completed,energy,time_type,ddl,schedule_start,schedule_end\n")
	for _, e := range list.Entries {
		row := []string{
			e.ID,
			escapeCSV(e.Page),
			strconv.Itoa(e.Depth),
			escapeCSV(e.Text),
			strconv.FormatBool(e.Completed),
			strconv.Itoa(e.Energy),
			e.TimeType,
			e.Deadline,
			e.Start,
			e.End,
		}
		builder.WriteString(strings.Join(row, ","))
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// renderCompact renders one unstyled-prefix line per entry
func (r *Renderer) renderCompact(list *EntryList) (string, error) {
	var builder strings.Builder

	for _, e := range list.Entries {
		text := strings.ReplaceAll(e.Text, "\n", " ")
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		mark := "-"
		if e.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("%s %s %s", r.styles.ID.Render(e.ID), mark, text)
		switch e.TimeType {
		case "ddl":
			line += " " + r.styles.UrgencyStyle(e.Urgency).Render("due "+view.FormatTime(e.Deadline))
		case "schedule":
			line += " " + r.styles.Schedule.Render(view.FormatSchedule(e.Start, e.End))
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// renderQuiet renders only the ids (for scripting)
func (r *Renderer) renderQuiet(list *EntryList) (string, error) {
	var builder strings.Builder

	for _, e := range list.Entries {
		builder.WriteString(e.ID)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
