// Package monster provides the repository for monster instances and their
// name-keyed groups. Group attributes (AC range, max HP, resistances) are
// stored once per (session, name) and referenced by every same-named
// instance, so a group write is visible to all of them at read time.
package monster

import (
	"context"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=monsterrepomock github.com/KirkDiggler/combat-tracker/internal/repositories/monster Repository

// CreateInput contains the instances to store. All must belong to the same
// session.
type CreateInput struct {
	Monsters []*entities.MonsterInstance
}

// CreateOutput contains the result of storing instances
type CreateOutput struct {
	Monsters []*entities.MonsterInstance
}

// GetInput contains parameters for retrieving an instance
type GetInput struct {
	ID string
}

// GetOutput contains the result of retrieving an instance
type GetOutput struct {
	Monster *entities.MonsterInstance
}

// UpdateInput contains the instance to persist
type UpdateInput struct {
	Monster *entities.MonsterInstance
}

// UpdateOutput contains the result of persisting an instance
type UpdateOutput struct {
	Monster *entities.MonsterInstance
}

// ListBySessionInput contains parameters for listing a session's instances
type ListBySessionInput struct {
	SessionCode string
}

// ListBySessionOutput contains the session's instances ordered by Number
type ListBySessionOutput struct {
	Monsters []*entities.MonsterInstance
}

// GetGroupInput contains parameters for retrieving a group
type GetGroupInput struct {
	SessionCode string
	Name        string
}

// GetGroupOutput contains the result of retrieving a group
type GetGroupOutput struct {
	Group *entities.MonsterGroup
}

// SetGroupInput contains the group to persist
type SetGroupInput struct {
	Group *entities.MonsterGroup
}

// SetGroupOutput contains the result of persisting a group
type SetGroupOutput struct {
	Group *entities.MonsterGroup
}

// DeleteBySessionInput contains parameters for the session cascade delete
type DeleteBySessionInput struct {
	SessionCode string
}

// DeleteBySessionOutput reports how many instances were removed
type DeleteBySessionOutput struct {
	MonstersDeleted int32
}

// Repository defines the interface for monster storage operations
type Repository interface {
	// Create stores new instances and indexes them under their session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an instance by ID
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update persists an instance's own fields (death flag, damage total,
	// notes). Group-shared attributes go through SetGroup.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListBySession returns all of a session's instances, dead included,
	// ordered by monster number
	ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error)

	// GetGroup retrieves the shared attributes for (session, name)
	GetGroup(ctx context.Context, input GetGroupInput) (*GetGroupOutput, error)

	// SetGroup persists the shared attributes for (session, name)
	SetGroup(ctx context.Context, input SetGroupInput) (*SetGroupOutput, error)

	// DeleteBySession removes every instance and group under the session
	DeleteBySession(ctx context.Context, input DeleteBySessionInput) (*DeleteBySessionOutput, error)
}
