package db

import (
	"fmt"
	"log/slog"
	"sync"
)

// KV is the persistence contract: string snapshots stored under fixed keys.
// Load reports ok=false when the key has never been saved.
type KV interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string
	Passphrase string
	Logger     *slog.Logger
}

// Open builds the configured backend, sealing it when a passphrase is set.
func Open(opts Options) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch opts.Backend {
	case "", BackendSQLite:
		kv, err = OpenSQLite(opts.Dir)
	case BackendDiskv:
		kv, err = OpenDiskv(opts.Dir)
	case BackendMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want sqlite|diskv|memory)", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Passphrase == "" {
		return kv, nil
	}
	sealed, err := NewSealed(kv, opts.Passphrase, SaltPath(opts.Dir), opts.Logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return sealed, nil
}

// Memory keeps values in process memory. Used by tests and --storage memory.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	saves  int
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.saves++
	return nil
}

// Saves counts Save calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
