// Package store persists raw schedule payloads in a diskv key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrStorage marks failures of the underlying blob store.
var ErrStorage = errors.New("store: storage failure")

// Blob is the key-value contract the app layer persists through. Values are
// opaque; Get reports ok=false for absent keys.
type Blob interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Load creates a Blob backed by diskv at cfg.BasePath().
func Load(cfg Config) (Blob, error) {
	if cfg == nil {
		return nil, errors.New("store: no config")
	}
	basePath := cfg.BasePath()
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: ensure base path: %v", ErrStorage, err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// No read cache: another process may rewrite a blob and Watch
		// consumers must see the new bytes.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Get(key string) ([]byte, bool, error) {
	if !p.d.Has(key) {
		return nil, false, nil
	}
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %v", ErrStorage, key, err)
	}
	return val, true, nil
}

func (p *persistence) Set(key string, value []byte) error {
	if err := p.d.Write(key, value); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (p *persistence) Delete(key string) error {
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("%w: erase %s: %v", ErrStorage, key, err)
	}
	return nil
}

const blobExt = ".json"

// keyToPathTransform keeps every blob flat in the base directory as <key>.json.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: key + blobExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, blobExt)
}
