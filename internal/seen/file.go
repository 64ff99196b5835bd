package seen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps seen links as a JSON array on disk, loaded once and
// rewritten on every new link.
type FileStore struct {
	mu    sync.Mutex
	path  string
	links map[string]struct{}
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &FileStore{path: path, links: make(map[string]struct{})}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) FirstSeen(_ context.Context, link string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[link]; ok {
		return false, nil
	}

	s.links[link] = struct{}{}
	if err := s.store(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading seen jobs file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		return fmt.Errorf("decoding seen jobs file: %w", err)
	}
	for _, link := range links {
		s.links[link] = struct{}{}
	}
	return nil
}

func (s *FileStore) store() error {
	links := make([]string, 0, len(s.links))
	for link := range s.links {
		links = append(links, link)
	}

	data, err := json.Marshal(links)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
