package utils

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mindtask/mindtask/internal/tree"
)

func seedEntries(now time.Time) []Entry {
	s := tree.Seed("2024-06-01")
	var out []Entry
	for _, id := range []string{"root-1", "node-1", "node-1-1", "node-2"} {
		n, _ := s.Node(id)
		out = append(out, NewEntry(n, s.DepthOf(id), "My first project", now))
	}
	return out
}

func TestRenderFormats(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	list := &EntryList{Title: "My first project", Entries: seedEntries(now)}

	cfg := DefaultRenderConfig()
	cfg.Color = false
	cfg.Now = now

	cfg.Format = FormatDefault
	out, err := NewRenderer(cfg).RenderEntryList(list)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Phase one: requirements", "    [x] Survey competing products", "6/1 14:00 - 16:00", "[node-2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("default output missing %q:\n%s", want, out)
		}
	}

	cfg.Format = FormatJSON
	out, err = NewRenderer(cfg).RenderEntryList(list)
	if err != nil {
		t.Fatal(err)
	}
	var decoded EntryList
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Total != 4 || decoded.Entries[1].Urgency != "due-24h" {
		t.Fatalf("json = %+v", decoded)
	}

	cfg.Format = FormatQuiet
	out, _ = NewRenderer(cfg).RenderEntryList(list)
	if out != "root-1\nnode-1\nnode-1-1\nnode-2\n" {
		t.Fatalf("quiet = %q", out)
	}

	cfg.Format = FormatCSV
	out, _ = NewRenderer(cfg).RenderEntryList(list)
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 5 || !strings.HasPrefix(lines[4], "node-2,My first project,1,") {
		t.Fatalf("csv = %q", out)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error")
	}
}
