package db

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores each key as a file under <dir>/kv.
type Diskv struct {
	d *diskv.Diskv
}

func OpenDiskv(dir string) (*Diskv, error) {
	base := filepath.Join(dir, "kv")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:     base,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (k *Diskv) Load(key string) (string, bool, error) {
	if !k.d.Has(key) {
		return "", false, nil
	}
	b, err := k.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (k *Diskv) Save(key, value string) error {
	return k.d.Write(key, []byte(value))
}

func (k *Diskv) Close() error { return nil }
