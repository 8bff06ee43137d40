package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdMu sync.Mutex
	// Keyed by style and wrap width. A fixed style keeps glamour from
	// querying the terminal background.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders notes and changelogs. It falls back to the raw text
// when glamour fails.
func renderMarkdown(md string, width int, mono bool) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)
	styleName := "dark"
	if mono {
		styleName = "notty"
	}
	key := styleName + ":" + strconv.Itoa(width)

	mdMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styleName),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
