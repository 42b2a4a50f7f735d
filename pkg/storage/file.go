package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/apecglobal/logofield/pkg/layout"
)

// FileStore keeps one JSON layout file per tenant in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir, creating it if needed.
// An empty baseDir selects ~/.config/logofield/pins.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "logofield", "pins")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create pin dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the directory holding the pin files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) pinPath(tenant string) string {
	return filepath.Join(s.baseDir, tenant+".json")
}

func (s *FileStore) Get(ctx context.Context, tenant string) (layout.Layout, error) {
	if err := ValidateTenant(tenant); err != nil {
		return layout.Layout{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := layout.ReadFile(s.pinPath(tenant))
	if errors.Is(err, os.ErrNotExist) {
		return layout.Layout{}, ErrNotFound
	}
	return l, err
}

func (s *FileStore) Pin(ctx context.Context, l layout.Layout) error {
	l, err := prepare(l)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := layout.WriteFile(l, s.pinPath(l.Tenant)); err != nil {
		return fmt.Errorf("write pin file: %w", err)
	}
	return nil
}

func (s *FileStore) Unpin(ctx context.Context, tenant string) error {
	if err := ValidateTenant(tenant); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pinPath(tenant))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// List reads every pin file. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]layout.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read pin dir: %w", err)
	}
	out := []layout.Layout{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		l, err := layout.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b layout.Layout) int { return strings.Compare(a.Tenant, b.Tenant) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
