// Package pages keeps the ordered list of project pages. Each page names the
// root node of its own tree in the node store.
package pages

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/mindtask/mindtask/internal/tree"
)

// SeedPageID is the sample page shipped on first start.
const SeedPageID = "page-1"

type Page struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	RootID string `json:"rootId"`
}

// Index is the ordered page list.
type Index struct {
	pages []Page
}

func NewIndex(pages ...Page) *Index {
	return &Index{pages: append([]Page(nil), pages...)}
}

// Seed returns the index matching tree.Seed.
func Seed() *Index {
	return NewIndex(Page{ID: SeedPageID, Title: "My first project", RootID: tree.SeedRootID})
}

// Append adds a page for rootID and returns it.
func (x *Index) Append(title, rootID string) Page {
	p := Page{ID: uuid.NewString()[:8], Title: strings.TrimSpace(title), RootID: rootID}
	x.pages = append(x.pages, p)
	return p
}

// Rename changes a page title. Unknown ids report false.
func (x *Index) Rename(id, title string) bool {
	for i := range x.pages {
		if x.pages[i].ID == id {
			x.pages[i].Title = strings.TrimSpace(title)
			return true
		}
	}
	return false
}

func (x *Index) Find(id string) (Page, bool) {
	for _, p := range x.pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

func (x *Index) ByRoot(rootID string) (Page, bool) {
	for _, p := range x.pages {
		if p.RootID == rootID {
			return p, true
		}
	}
	return Page{}, false
}

// OwnerOf finds the page whose tree contains nodeID.
func (x *Index) OwnerOf(s *tree.Store, nodeID string) (Page, bool) {
	root, ok := s.RootOf(nodeID)
	if !ok {
		return Page{}, false
	}
	return x.ByRoot(root)
}

// Neighbor returns the page offset steps away from id, wrapping around.
func (x *Index) Neighbor(id string, offset int) (Page, bool) {
	if len(x.pages) == 0 {
		return Page{}, false
	}
	at := 0
	for i, p := range x.pages {
		if p.ID == id {
			at = i
			break
		}
	}
	n := len(x.pages)
	return x.pages[((at+offset)%n+n)%n], true
}

func (x *Index) List() []Page { return append([]Page(nil), x.pages...) }
func (x *Index) Len() int     { return len(x.pages) }

func (x *Index) Clone() *Index { return NewIndex(x.pages...) }

func (x *Index) MarshalJSON() ([]byte, error) {
	if x.pages == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(x.pages)
}

func (x *Index) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &x.pages)
}
