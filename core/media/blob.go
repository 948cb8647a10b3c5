package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/CrestNiraj12/reelhire/domain"
)

// ErrUnknownBlob is returned for blob URLs the store never issued.
var ErrUnknownBlob = errors.New("unknown blob url")

type blobEntry struct {
	path    string
	refs    int
	revoke  bool
	revoked bool
}

// BlobStore stages local media under a directory and hands out blob: URLs for
// them. A revoked blob is removed exactly once, after its last reference is
// released.
type BlobStore struct {
	dir string

	mu      sync.Mutex
	entries map[string]*blobEntry
	remove  func(path string) error
}

// NewBlobStore stages files under dir, creating it if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &BlobStore{
		dir:     dir,
		entries: make(map[string]*blobEntry),
		remove:  os.Remove,
	}, nil
}

// Create copies src into the staging directory and returns its blob URL.
func (s *BlobStore) Create(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer in.Close()

	name := ulid.Make().String() + strings.ToLower(filepath.Ext(src))
	dst := filepath.Join(s.dir, name)
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("stage media: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("stage media: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("stage media: %w", err)
	}
	return s.Adopt(dst), nil
}

// Adopt registers an already staged file and returns its blob URL.
func (s *BlobStore) Adopt(path string) string {
	url := domain.BlobScheme + filepath.Base(path)
	s.mu.Lock()
	s.entries[url] = &blobEntry{path: path}
	s.mu.Unlock()
	return url
}

// Reattach registers url again after a restart when its staged file is still
// in the directory.
func (s *BlobStore) Reattach(url string) bool {
	name, ok := strings.CutPrefix(url, domain.BlobScheme)
	if !ok || name == "" || name != filepath.Base(name) {
		return false
	}
	if s.Has(url) {
		return true
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	s.Adopt(path)
	return true
}

// Path resolves a blob URL to its staged file.
func (s *BlobStore) Path(url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[url]
	if !ok || e.revoked {
		return "", ErrUnknownBlob
	}
	return e.path, nil
}

// Open opens the staged file behind url.
func (s *BlobStore) Open(url string) (*os.File, int64, error) {
	path, err := s.Path(url)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Retain records a mounted reference to url.
func (s *BlobStore) Retain(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[url]; ok && !e.revoked {
		e.refs++
	}
}

// Release drops a reference and completes a pending revoke.
func (s *BlobStore) Release(url string) {
	s.mu.Lock()
	e, ok := s.entries[url]
	if !ok || e.refs == 0 {
		s.mu.Unlock()
		return
	}
	e.refs--
	path, free := s.finishLocked(url, e)
	s.mu.Unlock()
	if free {
		_ = s.remove(path)
	}
}

// Revoke frees url now, or once its last reference is released. It reports
// whether the file was removed immediately.
func (s *BlobStore) Revoke(url string) bool {
	s.mu.Lock()
	e, ok := s.entries[url]
	if !ok || e.revoked {
		s.mu.Unlock()
		return false
	}
	e.revoke = true
	path, free := s.finishLocked(url, e)
	s.mu.Unlock()
	if free {
		_ = s.remove(path)
	}
	return free
}

func (s *BlobStore) finishLocked(url string, e *blobEntry) (string, bool) {
	if !e.revoke || e.refs > 0 || e.revoked {
		return "", false
	}
	e.revoked = true
	delete(s.entries, url)
	return e.path, true
}

// Refs returns the live reference count of url.
func (s *BlobStore) Refs(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[url]; ok {
		return e.refs
	}
	return 0
}

// Has reports whether url is still live.
func (s *BlobStore) Has(url string) bool {
	_, err := s.Path(url)
	return err == nil
}
