// Package auth supplies the bearer token the API client sends. Signing in
// happens elsewhere; this package only reads the result.
package auth

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/CrestNiraj12/reelhire/domain"
)

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// StaticToken is a fixed token, typically from the environment.
type StaticToken string

// AccessToken returns the token or ErrUnauthorized when it is blank.
func (s StaticToken) AccessToken() (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", fmt.Errorf("%w: no token configured", domain.ErrUnauthorized)
	}
	return token, nil
}

// FileTokenProvider reads a bearer token from a file on disk and rereads it
// only when the file changes, so a token refreshed by another tool is
// picked up without a restart.
type FileTokenProvider struct {
	path string

	mu      sync.Mutex
	token   string
	modTime time.Time
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken returns the trimmed token. A missing or empty file is reported
// as ErrUnauthorized.
func (f *FileTokenProvider) AccessToken() (string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return "", fmt.Errorf("%w: reading token from %s: %v", domain.ErrUnauthorized, f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token != "" && info.ModTime().Equal(f.modTime) {
		return f.token, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("%w: reading token from %s: %v", domain.ErrUnauthorized, f.path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", domain.ErrUnauthorized, f.path)
	}
	f.token = token
	f.modTime = info.ModTime()
	return token, nil
}
