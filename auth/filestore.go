package auth

import (
	"os"
	"path/filepath"

	"github.com/dimplex-community/dimctl/client"
)

// FileStore persists the token record as a JSON file, the same flat blob
// the library's SaveTokens/LoadTokens use.
type FileStore struct {
	Path string
}

// NewFileStore creates a file-backed token store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultTokenPath returns the token file location, honoring the
// DIMCTL_TOKEN_FILE environment variable.
func DefaultTokenPath() string {
	if p := os.Getenv("DIMCTL_TOKEN_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dimctl_tokens.json"
	}
	return filepath.Join(home, ".dimctl", "tokens.json")
}

func (s *FileStore) GetTokenRecord() (*client.TokenState, error) {
	return client.LoadTokens(s.Path), nil
}

func (s *FileStore) UpsertTokenRecord(tokens *client.TokenState) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return client.SaveTokens(s.Path, tokens)
}
