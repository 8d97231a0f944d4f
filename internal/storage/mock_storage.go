package storage

import (
	"fmt"

	"nifty-condor-bot/internal/models"
)

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	pos     *models.Position
	History []models.Position
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save implements Store.
func (m *MemoryStore) Save(pos *models.Position) error {
	if m.pos != nil {
		return fmt.Errorf("position %s already open", m.pos.ID)
	}
	cp := *pos
	m.pos = &cp
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load() (*models.Position, error) {
	if m.pos == nil {
		return nil, ErrNoPosition
	}
	cp := *m.pos
	return &cp, nil
}

// Update implements Store.
func (m *MemoryStore) Update(pos *models.Position) error {
	if m.pos == nil {
		return ErrNoPosition
	}
	cp := *pos
	m.pos = &cp
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	if m.pos == nil {
		return ErrNoPosition
	}
	m.History = append(m.History, *m.pos)
	m.pos = nil
	return nil
}
