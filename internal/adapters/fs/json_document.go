package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

// jsonDocument is a registry persisted as one JSON document. Saves replace
// the whole file through a temp file and a rename; update cycles are
// serialized by mu.
type jsonDocument[T ~map[string]V, V any] struct {
	path string
	mu   sync.Mutex
}

func newJSONDocument[T ~map[string]V, V any](path string) *jsonDocument[T, V] {
	return &jsonDocument[T, V]{path: path}
}

// load reads the document. Absent and malformed documents are both
// reported as a RegistryError.
func (d *jsonDocument[T, V]) load() (T, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, &domain.RegistryError{Path: d.path, Err: err}
	}

	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.RegistryError{Path: d.path, Err: fmt.Errorf("malformed document: %w", err)}
	}
	if doc == nil {
		doc = T{}
	}
	return doc, nil
}

func (d *jsonDocument[T, V]) save(doc T) error {
	if doc == nil {
		doc = T{}
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}
	data = append(data, '\n')

	// Write to temp file first
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.RegistryError{Path: d.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}

	// Atomic rename
	if err := os.Rename(tmpPath, d.path); err != nil {
		return &domain.RegistryError{Path: d.path, Err: err}
	}
	return nil
}

func (d *jsonDocument[T, V]) Load(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

func (d *jsonDocument[T, V]) Save(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(doc)
}

// Update loads the document, applies fn and saves the result. An absent
// document starts empty; a malformed one aborts without writing. Nothing is
// written when fn fails.
func (d *jsonDocument[T, V]) Update(ctx context.Context, fn func(T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		doc = T{}
	}

	if err := fn(doc); err != nil {
		return err
	}
	return d.save(doc)
}
