package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// SeedFile is the bundled JSON array of completions. Writes rewrite the
// whole file; the mutex only serialises writers inside this process.
type SeedFile struct {
	path string
	mu   sync.Mutex
}

// NewSeedFile returns a seed file at path.
func NewSeedFile(path string) *SeedFile {
	return &SeedFile{path: path}
}

// Path returns the file location.
func (f *SeedFile) Path() string { return f.path }

func (f *SeedFile) load() ([]record.Completion, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []record.Completion{}, nil
	}
	if err != nil {
		return nil, &StorageError{Kind: KindUnavailable, Op: "read " + f.path, Err: err}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []record.Completion{}, nil
	}
	if trimmed[0] != '[' {
		return nil, &StorageError{Kind: KindCorrupt, Op: f.path + " is not an array"}
	}
	var items []record.Completion
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &StorageError{Kind: KindCorrupt, Op: "parse " + f.path, Err: err}
	}
	if items == nil {
		items = []record.Completion{}
	}
	return items, nil
}

func (f *SeedFile) save(items []record.Completion) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return &StorageError{Kind: KindUnavailable, Op: "create data dir", Err: err}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed rows: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return &StorageError{Kind: KindUnavailable, Op: "write " + f.path, Err: err}
	}
	return nil
}

// Load returns the file's completions in file order. A missing file is empty.
func (f *SeedFile) Load() ([]record.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Prepend inserts c at the head of the file and returns the new length.
func (f *SeedFile) Prepend(c record.Completion) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return 0, err
	}
	items = append([]record.Completion{c}, items...)
	if err := f.save(items); err != nil {
		return 0, err
	}
	return len(items), nil
}
