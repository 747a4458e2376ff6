package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned when a storage path would escape the root.
var ErrInvalidPath = errors.New("blob: invalid storage path")

// FSStore is a filesystem-backed Store. Files live under
// <root>/<organizationID>/<uuid>_<name> and are served by the HTTP server
// under the public base URL.
type FSStore struct {
	root       string
	publicBase string
}

// NewFSStore creates the root directory if needed and returns the store.
func NewFSStore(root, publicBase string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("blob.NewFSStore: %w", err)
	}

	return &FSStore{
		root:       root,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

func (s *FSStore) Put(_ context.Context, organizationID uuid.UUID, name string, r io.Reader) (*Object, error) {
	name = sanitizeName(name)
	if name == "" {
		return nil, fmt.Errorf("blob.FSStore.Put: %w", ErrInvalidPath)
	}

	key := path.Join(organizationID.String(), uuid.NewString()+"_"+name)

	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return nil, fmt.Errorf("blob.FSStore.Put: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("blob.FSStore.Put: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("blob.FSStore.Put: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("blob.FSStore.Put: %w", err)
	}

	return &Object{
		Name:      name,
		Path:      key,
		PublicURL: s.publicBase + "/" + key,
	}, nil
}

func (s *FSStore) Remove(_ context.Context, key string) error {
	clean := path.Clean("/" + key)[1:] // normalize, strip any leading ../
	if clean == "" || clean == "." || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("blob.FSStore.Remove: %w", ErrInvalidPath)
	}

	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			// Already gone; removal is idempotent.
			return nil
		}
		return fmt.Errorf("blob.FSStore.Remove: %w", err)
	}

	return nil
}

// Root returns the storage root directory, for wiring the file server.
func (s *FSStore) Root() string { return s.root }

// sanitizeName strips directory components and characters that would break
// storage keys or URLs.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	return strings.Trim(b.String(), ".")
}
