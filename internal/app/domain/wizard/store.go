package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

// Store persists wizard state under a key. Load returns models.ErrNotFound
// for unknown keys.
type Store interface {
	Load(ctx context.Context, key string) (*models.WizardState, error)
	Save(ctx context.Context, key string, state models.WizardState) error
	Delete(ctx context.Context, key string) error
}

// FileStore keeps every wizard state in one JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context, key string) (*models.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	state, ok := all[key]
	if !ok {
		return nil, fmt.Errorf("wizard state %q: %w", key, models.ErrNotFound)
	}
	return &state, nil
}

func (s *FileStore) Save(_ context.Context, key string, state models.WizardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[key] = state
	return s.write(all)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[key]; !ok {
		return nil
	}
	delete(all, key)
	return s.write(all)
}

func (s *FileStore) read() (map[string]models.WizardState, error) {
	all := make(map[string]models.WizardState)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return all, nil
		}
		return nil, fmt.Errorf("failed to read wizard store: %w", err)
	}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse wizard store: %w", err)
	}
	return all, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *FileStore) write(all map[string]models.WizardState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create wizard store directory: %w", err)
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize wizard store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wizard-*.json")
	if err != nil {
		return fmt.Errorf("failed to write wizard store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write wizard store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write wizard store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace wizard store: %w", err)
	}
	return nil
}
