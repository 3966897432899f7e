package disclosure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrPageNotFound = errors.New("cached page not found")

// PageStore holds the raw markup of the last successful fetch per source id.
type PageStore interface {
	Read(ctx context.Context, id string) ([]byte, error)
	Write(ctx context.Context, id string, contents []byte) error
	Exists(ctx context.Context, id string) (bool, error)
}

func validStoreKey(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("invalid source id %q", id)
	}
	return nil
}

// FilesystemPageStore keeps one <id>.html file per source inside a directory.
type FilesystemPageStore struct {
	directory string
}

func NewFilesystemPageStore(directory string) FilesystemPageStore {
	return FilesystemPageStore{directory: directory}
}

func (s FilesystemPageStore) path(id string) (string, error) {
	err := validStoreKey(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.directory, id+".html"), nil
}

func (s FilesystemPageStore) Read(ctx context.Context, id string) ([]byte, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrPageNotFound
	}
	return contents, err
}

// Write replaces the page through a temporary file so readers never observe
// a partially written page.
func (s FilesystemPageStore) Write(ctx context.Context, id string, contents []byte) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	err = os.MkdirAll(s.directory, 0755)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, contents)
}

func (s FilesystemPageStore) Exists(ctx context.Context, id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func writeFileAtomic(path string, contents []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MemoryPageStore is a PageStore that lives only as long as the process.
type MemoryPageStore struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

func NewMemoryPageStore() *MemoryPageStore {
	return &MemoryPageStore{pages: map[string][]byte{}}
}

func (s *MemoryPageStore) Read(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents, ok := s.pages[id]
	if !ok {
		return nil, ErrPageNotFound
	}
	return append([]byte(nil), contents...), nil
}

func (s *MemoryPageStore) Write(ctx context.Context, id string, contents []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[id] = append([]byte(nil), contents...)
	return nil
}

func (s *MemoryPageStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pages[id]
	return ok, nil
}
