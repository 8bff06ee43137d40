package db

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestBackends(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T, dir string) KV
	}{
		{"memory", func(t *testing.T, dir string) KV { return NewMemory() }},
		{"sqlite", func(t *testing.T, dir string) KV {
			kv, err := OpenSQLite(dir)
			if err != nil {
				t.Fatal(err)
			}
			return kv
		}},
		{"diskv", func(t *testing.T, dir string) KV {
			kv, err := OpenDiskv(dir)
			if err != nil {
				t.Fatal(err)
			}
			return kv
		}},
		{"sealed", func(t *testing.T, dir string) KV {
			kv, err := Open(Options{Backend: BackendSQLite, Dir: dir, Passphrase: "pw"})
			if err != nil {
				t.Fatal(err)
			}
			return kv
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := tt.open(t, t.TempDir())
			defer kv.Close()

			if _, ok, err := kv.Load("mindtask-nodes"); err != nil || ok {
				t.Fatalf("Load of missing key = ok %v, err %v", ok, err)
			}
			if err := kv.Save("mindtask-nodes", `{"a":1}`); err != nil {
				t.Fatal(err)
			}
			if err := kv.Save("mindtask-nodes", `{"a":2}`); err != nil {
				t.Fatal(err)
			}
			v, ok, err := kv.Load("mindtask-nodes")
			if err != nil || !ok || v != `{"a":2}` {
				t.Fatalf("Load = %q, %v, %v", v, ok, err)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Save("mindtask-activePageId", "page-1"); err != nil {
		t.Fatal(err)
	}
	if at, err := kv.UpdatedAt("mindtask-activePageId"); err != nil || at == "" {
		t.Fatalf("UpdatedAt = %q, %v", at, err)
	}
	kv.Close()

	kv, err = OpenSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	if v, ok, _ := kv.Load("mindtask-activePageId"); !ok || v != "page-1" {
		t.Fatalf("after reopen Load = %q, %v", v, ok)
	}
}

func TestSealedStoresCiphertext(t *testing.T) {
	dir := t.TempDir()
	inner := NewMemory()
	sealed, err := NewSealed(inner, "pw", SaltPath(dir), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := sealed.Save("k", "secret plan"); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := inner.Load("k")
	if !strings.HasPrefix(raw, sealedPrefix) || strings.Contains(raw, "secret") {
		t.Fatalf("raw value not sealed: %q", raw)
	}

	// values saved before a passphrase was configured still load
	_ = inner.Save("plain", "hello")
	if v, ok, err := sealed.Load("plain"); err != nil || !ok || v != "hello" {
		t.Fatalf("Load(plain) = %q, %v, %v", v, ok, err)
	}

	other, err := NewSealed(inner, "other", SaltPath(dir), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := other.Load("k"); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("Load with wrong passphrase = %v", err)
	}
}

func TestSealedWarnsOnNewSalt(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	if _, err := NewSealed(NewMemory(), "pw", SaltPath(dir), log); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "new salt") {
		t.Fatalf("no warning for a created salt:\n%s", buf.String())
	}
	buf.Reset()
	if _, err := NewSealed(NewMemory(), "pw", SaltPath(dir), log); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("warned about an existing salt:\n%s", buf.String())
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Options{Backend: "etcd", Dir: t.TempDir()}); err == nil {
		t.Fatalf("expected error")
	}
}
