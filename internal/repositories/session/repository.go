// Package session provides the repository for combat session rows. The
// session row owns the active flag and the last-updated stamp that every
// mutation under the session bumps.
package session

import (
	"context"
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionrepomock github.com/KirkDiggler/combat-tracker/internal/repositories/session Repository

// CreateInput contains parameters for storing a new session
type CreateInput struct {
	Session *entities.Session
}

// CreateOutput contains the result of storing a session
type CreateOutput struct {
	Session *entities.Session
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	Code string
}

// GetOutput contains the result of retrieving a session
type GetOutput struct {
	Session *entities.Session
}

// TouchInput contains parameters for bumping a session's last-updated stamp
type TouchInput struct {
	Code string
}

// TouchOutput contains the stamp the session was bumped to
type TouchOutput struct {
	LastUpdated time.Time
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	Code string
}

// DeleteOutput contains the result of deleting a session
type DeleteOutput struct{}

// Repository defines the interface for session storage operations
type Repository interface {
	// Create stores a new session, failing with AlreadyExists if the code
	// is taken by a live session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by code
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Touch bumps the session's LastUpdated to now and returns the new
	// stamp. Every mutating operation under the session goes through this.
	Touch(ctx context.Context, input TouchInput) (*TouchOutput, error)

	// Delete removes the session row. Cascading monster and damage cleanup
	// is coordinated by the orchestrator.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
