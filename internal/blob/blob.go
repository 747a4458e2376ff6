// Package blob stores receipt files (justificatifs). The Store interface is
// the seam to the storage provider; the filesystem implementation is the
// default for self-hosted deployments.
package blob

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Object describes a stored receipt file.
type Object struct {
	// Name is the original file name as uploaded.
	Name string `json:"name"`
	// Path is the storage key, used for removal.
	Path string `json:"path"`
	// PublicURL is what clients render to show the receipt.
	PublicURL string `json:"public_url"`
}

// Store persists receipt files grouped per organization.
type Store interface {
	Put(ctx context.Context, organizationID uuid.UUID, name string, r io.Reader) (*Object, error)
	Remove(ctx context.Context, path string) error
}
