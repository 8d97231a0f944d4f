// Package storage persists the bot's single open position between runs.
package storage

import (
	"errors"

	"nifty-condor-bot/internal/models"
)

// ErrNoPosition is returned by Load when no open position is recorded.
var ErrNoPosition = errors.New("no open position")

// Store persists at most one open position. The engine trades one condor at
// a time; saving over an existing open position is an error.
type Store interface {
	// Save records a new open position. Fails if one is already open.
	Save(pos *models.Position) error
	// Load returns the open position, or ErrNoPosition.
	Load() (*models.Position, error)
	// Update rewrites the recorded position, typically after a state change.
	Update(pos *models.Position) error
	// Clear removes the recorded position after it is closed.
	Clear() error
}
