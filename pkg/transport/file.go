// Package transport exchanges schedule payloads with the filesystem.
package transport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// ErrTransport wraps file exchange failures.
var ErrTransport = errors.New("transport: file exchange failed")

// File writes exports into Dir and imports from Source. An empty Source means
// the user chose nothing.
type File struct {
	Dir    string
	Source string
}

// Export writes data to Dir/name and returns the full path.
func (f File) Export(name string, data []byte) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: bad file name %q", ErrTransport, name)
	}
	dir, err := expand(f.Dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return path, nil
}

// Import reads Source.
func (f File) Import() ([]byte, bool, error) {
	if strings.TrimSpace(f.Source) == "" {
		return nil, false, nil
	}
	path, err := homedir.Expand(f.Source)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return data, true, nil
}

func expand(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	out, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return out, nil
}
