package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore persists each key as one JSON file under a base directory.
// The ":" key separator maps to a subdirectory, so "euroleague:schedule"
// lands in <dir>/euroleague/schedule.json.
type FileStore struct {
	dir    string
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewFileStore(dir string, logger *logrus.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

func (s *FileStore) path(key string) string {
	parts := strings.Split(key, ":")
	return filepath.Join(s.dir, filepath.Join(parts...)) + ".json"
}

// Read loads the value stored under key into dest. A missing, empty or
// unparseable file counts as absent.
func (s *FileStore) Read(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache file %s: %w", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.WithField("key", key).Warnf("Unparseable cache file, treating as absent: %v", err)
		return false, nil
	}
	return true, nil
}

// Write overwrites the value stored under key, creating parent directories
// on first use.
func (s *FileStore) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", key, err)
	}
	return nil
}

// Append pushes one element onto the array value under key. Serialized with
// a process-wide mutex; concurrent appends from separate processes still
// race (last writer wins).
func (s *FileStore) Append(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []json.RawMessage
	if _, err := s.Read(ctx, key, &existing); err != nil {
		return err
	}

	element, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	existing = append(existing, element)

	return s.Write(ctx, key, existing)
}
