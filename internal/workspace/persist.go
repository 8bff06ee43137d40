package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindtask/mindtask/internal/db"
	"github.com/mindtask/mindtask/internal/pages"
	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
)

// Storage keys. Pages, nodes and the active page are saved separately.
const (
	KeyPages  = "mindtask-pages"
	KeyNodes  = "mindtask-nodes"
	KeyActive = "mindtask-activePageId"
)

// errUnusable marks a key that is absent or holds undecodable JSON. Those fall
// back to the seed; any other storage error is returned from Open.
var errUnusable = errors.New("unusable stored value")

// Open loads the workspace from kv. Missing keys and corrupt JSON fall back to
// the seed data. A value the backend cannot read, such as one sealed with a
// different passphrase, is an error so the seed never overwrites it.
func Open(kv db.KV, opts Options) (*Workspace, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Hours == (view.Hours{}) {
		opts.Hours = view.DefaultHours
	}
	w := &Workspace{
		kv:      kv,
		log:     opts.Logger,
		now:     opts.Now,
		hours:   opts.Hours,
		history: tree.NewHistory(opts.HistoryLimit),
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workspace) load() error {
	w.store = tree.NewStore()
	if err := w.read(KeyNodes, w.store); err != nil || w.store.Len() == 0 {
		if err != nil && !errors.Is(err, errUnusable) {
			return err
		}
		w.log.Warn("using seed nodes", "key", KeyNodes, "err", err)
		w.store = tree.Seed(w.Today())
	}
	w.pages = pages.NewIndex()
	if err := w.read(KeyPages, w.pages); err != nil || w.pages.Len() == 0 {
		if err != nil && !errors.Is(err, errUnusable) {
			return err
		}
		w.log.Warn("using seed pages", "key", KeyPages, "err", err)
		w.pages = pages.Seed()
	}
	v, ok, err := w.kv.Load(KeyActive)
	if err != nil {
		return fmt.Errorf("load %s: %w", KeyActive, err)
	}
	if ok {
		w.active = v
	}
	w.reconcile()
	if err := tree.Validate(w.store); err != nil {
		w.log.Warn("stored tree has problems", "err", err)
	}
	return nil
}

// read decodes key into dst. Absent keys and bad JSON wrap errUnusable.
func (w *Workspace) read(key string, dst json.Unmarshaler) error {
	v, ok, err := w.kv.Load(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s not stored: %w", key, errUnusable)
	}
	if err := dst.UnmarshalJSON([]byte(v)); err != nil {
		return fmt.Errorf("decode %s: %w: %w", key, errUnusable, err)
	}
	return nil
}

// reconcile repairs pages and nodes that were loaded from different sources:
// every page gets a root node and the active page always exists.
func (w *Workspace) reconcile() {
	for _, p := range w.pages.List() {
		if n, ok := w.store.Node(p.RootID); ok && n.IsRoot {
			continue
		}
		if p.RootID == tree.SeedRootID {
			seed := tree.Seed(w.Today())
			seed.Each(func(n tree.Node) bool {
				if !w.store.Has(n.ID) {
					w.store.Put(n)
				}
				return true
			})
			continue
		}
		w.log.Warn("page root missing, recreating", "page", p.ID, "root", p.RootID)
		w.store.Put(tree.Node{ID: p.RootID, Text: NewRootText, IsRoot: true})
	}
	for _, root := range w.store.Roots() {
		if _, ok := w.pages.ByRoot(root); !ok {
			n, _ := w.store.Node(root)
			w.pages.Append(n.Text, root)
		}
	}
	if _, ok := w.pages.Find(w.active); !ok {
		w.active = w.pages.List()[0].ID
	}
}

func (w *Workspace) save(key string, v json.Marshaler) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := w.kv.Save(key, string(b)); err != nil {
		w.log.Error("save failed", "key", key, "err", err)
		return err
	}
	return nil
}

func (w *Workspace) saveNodes() error { return w.save(KeyNodes, w.store) }
func (w *Workspace) savePages() error { return w.save(KeyPages, w.pages) }

func (w *Workspace) saveActive() error {
	if err := w.kv.Save(KeyActive, w.active); err != nil {
		w.log.Error("save failed", "key", KeyActive, "err", err)
		return err
	}
	return nil
}

// Flush writes every key.
func (w *Workspace) Flush() error {
	if err := w.saveNodes(); err != nil {
		return err
	}
	if err := w.savePages(); err != nil {
		return err
	}
	return w.saveActive()
}
