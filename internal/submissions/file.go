package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileLog keeps every kind in one JSON document and rewrites it on each
// append via a temp file and rename, so a crash never leaves a torn file.
type FileLog struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	entries map[Kind][]Entry
}

func OpenFileLog(fs afero.Fs, path string) (*FileLog, error) {
	entries, err := loadEntries(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load submissions %s: %w", path, err)
	}
	return &FileLog{fs: fs, path: path, entries: entries}, nil
}

func loadEntries(fs afero.Fs, path string) (map[Kind][]Entry, error) {
	blob, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[Kind][]Entry{}, nil
		}
		return nil, err
	}
	var entries map[Kind][]Entry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[Kind][]Entry{}
	}
	return entries, nil
}

func (f *FileLog) Append(_ context.Context, kind Kind, payload any) (Entry, error) {
	e, err := newEntry(kind, payload)
	if err != nil {
		return Entry{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[kind] = append(f.entries[kind], e)
	if err := f.save(); err != nil {
		f.entries[kind] = f.entries[kind][:len(f.entries[kind])-1]
		return Entry{}, err
	}
	return e, nil
}

func (f *FileLog) save() error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, blob, 0o644); err != nil {
		return err
	}
	return f.fs.Rename(tmp, f.path)
}

func (f *FileLog) List(_ context.Context, kind Kind) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.entries[kind]...), nil
}

func (f *FileLog) Close() error { return nil }
