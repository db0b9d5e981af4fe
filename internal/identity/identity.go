// Package identity manages the anonymous per-client state: the opaque client
// id distinguishing participants, and the "already viewed" markers used to
// deduplicate view counting. Neither is authenticated; a client id is
// trivially resettable by its owner and is explicitly not a security
// mechanism.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Provider yields the stable opaque client id of this process' profile.
type Provider interface {
	ClientID() (string, error)
}

// FileProvider persists the client id in a profile directory, generating it
// once on first use.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider storing the id under dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{path: filepath.Join(dir, "client_id")}
}

// ClientID returns the persisted id, creating it on first call.
func (p *FileProvider) ClientID() (string, error) {
	if data, err := os.ReadFile(p.path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return "", fmt.Errorf("create profile dir: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist client id: %w", err)
	}
	return id, nil
}

// Static is a fixed-id provider for tests.
type Static string

// ClientID returns the fixed id.
func (s Static) ClientID() (string, error) {
	return string(s), nil
}
