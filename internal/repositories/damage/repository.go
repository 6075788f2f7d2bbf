// Package damage provides the repository for per-monster damage ledgers.
// A monster's ledger is stored as one document so aggregate recomputation
// always reads the full current row set, never an incremental view.
package damage

import (
	"context"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=damagerepomock github.com/KirkDiggler/combat-tracker/internal/repositories/damage Repository

// ListByMonsterInput contains parameters for reading a monster's ledger
type ListByMonsterInput struct {
	MonsterID string
}

// ListByMonsterOutput contains the ledger entries in insertion order
type ListByMonsterOutput struct {
	Entries []*entities.DamageEntry
}

// AppendInput contains new entries for a monster's ledger
type AppendInput struct {
	MonsterID string
	Entries   []*entities.DamageEntry
}

// AppendOutput contains the result of appending entries
type AppendOutput struct {
	Entries []*entities.DamageEntry
}

// UpdateBatchInput contains replacement entries keyed by their IDs
type UpdateBatchInput struct {
	MonsterID string
	Entries   []*entities.DamageEntry
}

// UpdateBatchOutput contains the result of a batch update
type UpdateBatchOutput struct {
	Entries []*entities.DamageEntry
}

// DeleteBatchInput contains the entry IDs to remove
type DeleteBatchInput struct {
	MonsterID string
	IDs       []string
}

// DeleteBatchOutput reports how many entries remain after the delete
type DeleteBatchOutput struct {
	Remaining int32
}

// DeleteByMonsterInput contains parameters for dropping a whole ledger
type DeleteByMonsterInput struct {
	MonsterID string
}

// DeleteByMonsterOutput contains the result of dropping a ledger
type DeleteByMonsterOutput struct{}

// Repository defines the interface for damage ledger storage operations
type Repository interface {
	// ListByMonster returns the monster's full ledger, oldest first.
	// A monster with no recorded damage yields an empty ledger, not an
	// error.
	ListByMonster(ctx context.Context, input ListByMonsterInput) (*ListByMonsterOutput, error)

	// Append adds entries to the end of the ledger
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// UpdateBatch replaces existing entries in place, matched by ID.
	// Fails with NotFound if any ID is absent; no partial write happens.
	UpdateBatch(ctx context.Context, input UpdateBatchInput) (*UpdateBatchOutput, error)

	// DeleteBatch removes entries by ID. Fails with NotFound if any ID is
	// absent; no partial delete happens.
	DeleteBatch(ctx context.Context, input DeleteBatchInput) (*DeleteBatchOutput, error)

	// DeleteByMonster drops the monster's entire ledger
	DeleteByMonster(ctx context.Context, input DeleteByMonsterInput) (*DeleteByMonsterOutput, error)
}
