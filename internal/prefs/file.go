package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps every user's PreferenceSet in a single JSON file. It is the
// default backend and good enough for a bot with a handful of users.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context, userID string) (*PreferenceSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}

	if set, ok := all[userID]; ok {
		return set, nil
	}
	return New(userID), nil
}

func (s *FileStore) Save(_ context.Context, set *PreferenceSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}

	all[set.UserID] = set
	return s.store(all)
}

func (s *FileStore) ActiveUsers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(all))
	for id, set := range all {
		if set.IsActive {
			users = append(users, id)
		}
	}
	sort.Strings(users)

	return users, nil
}

func (s *FileStore) load() (map[string]*PreferenceSet, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return map[string]*PreferenceSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening preferences file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return map[string]*PreferenceSet{}, nil
	}

	var all map[string]*PreferenceSet
	if err := json.NewDecoder(file).Decode(&all); err != nil {
		return nil, fmt.Errorf("decoding preferences file: %w", err)
	}
	return all, nil
}

func (s *FileStore) store(all map[string]*PreferenceSet) error {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening preferences file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(all)
}
