// Package session stores the per-instance state dictionary a host hands to
// a control at Init. State lives for one session: entries older than the
// store's TTL read as empty.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// entry is the JSON document persisted for one instance.
type entry struct {
	Key   string         `json:"key"`
	Saved int64          `json:"saved"` // UnixNano
	State map[string]any `json:"state"`
}

// Store is a directory of JSON state files, one per instance ID. Writes are
// atomic via temp-file-then-rename. It is safe for concurrent use.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
}

// Open creates the directory if needed and returns a store. A ttl of zero
// keeps state forever.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Load returns the saved state for id. A missing, expired or unreadable
// entry yields an empty map; only I/O errors other than "not found" are
// returned.
func (s *Store) Load(id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("session: read %q: %w", id, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != id {
		return map[string]any{}, nil
	}
	if s.expired(e) {
		return map[string]any{}, nil
	}
	if e.State == nil {
		e.State = map[string]any{}
	}
	return e.State, nil
}

// Save replaces the state for id.
func (s *Store) Save(id string, state map[string]any) error {
	data, err := json.Marshal(entry{Key: id, Saved: s.now().UnixNano(), State: state})
	if err != nil {
		return fmt.Errorf("session: marshal %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomicWrite(s.path(id), data, s.dir); err != nil {
		return fmt.Errorf("session: write %q: %w", id, err)
	}
	return nil
}

// Delete removes the state for id. Deleting a missing entry is a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: delete %q: %w", id, err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, hashKey(id)+".json")
}

func (s *Store) expired(e entry) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(time.Unix(0, e.Saved)) > s.ttl
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
