package offerskit

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// TokenStore persists a single access token across process restarts so every
// new process does not burn a refresh. Absence or malformed content is a
// cache miss, never an error the auth layer has to care about.
type TokenStore interface {
	// Load returns the stored token, or (nil, nil) when nothing usable is
	// stored.
	Load(ctx context.Context) (*AccessToken, error)
	Save(ctx context.Context, token *AccessToken) error
	Clear(ctx context.Context) error
}

// FileTokenStore keeps the token as a small JSON document on disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store at path, creating parent directories as
// needed on first save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load implements TokenStore. Expired tokens are treated as a miss.
func (s *FileTokenStore) Load(_ context.Context) (*AccessToken, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var token AccessToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, nil
	}
	if token.Token == "" || token.ExpiresAt <= 0 {
		return nil, nil
	}
	if !token.Valid(time.Now()) {
		return nil, nil
	}
	return &token, nil
}

// Save implements TokenStore.
func (s *FileTokenStore) Save(_ context.Context, token *AccessToken) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear implements TokenStore.
func (s *FileTokenStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore holds the token in memory only. Useful for tests and
// processes that should never touch the filesystem.
type MemoryTokenStore struct {
	token *AccessToken
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load implements TokenStore.
func (s *MemoryTokenStore) Load(_ context.Context) (*AccessToken, error) {
	if s.token == nil || !s.token.Valid(time.Now()) {
		return nil, nil
	}
	copied := *s.token
	return &copied, nil
}

// Save implements TokenStore.
func (s *MemoryTokenStore) Save(_ context.Context, token *AccessToken) error {
	copied := *token
	s.token = &copied
	return nil
}

// Clear implements TokenStore.
func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.token = nil
	return nil
}
