package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes blobs under Dir and returns URLs below BaseURL. Dir is served
// statically by the router under /uploads.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	// Flatten any path components a client may have smuggled into the name
	name = filepath.Base(name)

	dst, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return l.BaseURL + "/uploads/" + name, nil
}
