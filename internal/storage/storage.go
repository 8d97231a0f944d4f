package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nifty-condor-bot/internal/models"
)

// JSONStore keeps the open position and a closed-position history in one
// JSON file. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated state file.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	data *storeData
}

type storeData struct {
	OpenPosition *models.Position  `json:"open_position"`
	History      []models.Position `json:"history"`
	LastUpdated  time.Time         `json:"last_updated"`
}

// NewJSONStore opens or creates the state file at path.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path: path,
		data: &storeData{},
	}

	if _, err := os.Stat(path); err == nil {
		raw, err := os.ReadFile(path) // #nosec G304 -- path comes from config
		if err != nil {
			return nil, fmt.Errorf("reading state file: %w", err)
		}
		if err := json.Unmarshal(raw, s.data); err != nil {
			return nil, fmt.Errorf("parsing state file: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state dir: %w", err)
		}
	}

	return s, nil
}

// Save implements Store.
func (s *JSONStore) Save(pos *models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.OpenPosition != nil {
		return fmt.Errorf("position %s already open", s.data.OpenPosition.ID)
	}
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid position: %w", err)
	}

	s.data.OpenPosition = pos
	return s.flush()
}

// Load implements Store.
func (s *JSONStore) Load() (*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.OpenPosition == nil {
		return nil, ErrNoPosition
	}
	cp := *s.data.OpenPosition
	return &cp, nil
}

// Update implements Store.
func (s *JSONStore) Update(pos *models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.OpenPosition == nil {
		return ErrNoPosition
	}
	if s.data.OpenPosition.ID != pos.ID {
		return fmt.Errorf("position %s is not the open position", pos.ID)
	}

	s.data.OpenPosition = pos
	return s.flush()
}

// Clear implements Store. The closed position moves into history.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.OpenPosition == nil {
		return ErrNoPosition
	}

	s.data.History = append(s.data.History, *s.data.OpenPosition)
	s.data.OpenPosition = nil
	return s.flush()
}

// History returns the closed positions, oldest first.
func (s *JSONStore) History() []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Position, len(s.data.History))
	copy(out, s.data.History)
	return out
}

// flush writes the state file atomically. Callers hold the write lock.
func (s *JSONStore) flush() error {
	s.data.LastUpdated = time.Now().UTC()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
