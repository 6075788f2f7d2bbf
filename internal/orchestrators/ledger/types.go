package ledger

import (
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

// DamageSpec is one damage component of a submission
type DamageSpec struct {
	// Type is the damage type, e.g. "fire"
	Type string

	// Tier the table observed for this type
	Tier resistance.Tier

	OriginalValue int32
}

// AddDamageInput records one damage submission against a monster. Multiple
// specs form one compound submission; SharedTimestamp lets a caller replay
// an exact submission time (all entries get the same CreatedAt either way).
type AddDamageInput struct {
	MonsterID       string
	Entries         []DamageSpec
	SharedTimestamp *time.Time
}

// AddDamageOutput contains the persisted entries and the new damage total
type AddDamageOutput struct {
	Entries     []*entities.DamageEntry
	TotalDamage int32
}

// DamageLogUpdate edits one ledger entry, or grows a compound group when
// LogID is empty: the new entry reuses the shared timestamp of the entries
// being edited so the group still renders as one unit.
type DamageLogUpdate struct {
	LogID         string
	Type          string
	Tier          resistance.Tier
	OriginalValue int32
}

// UpdateDamageLogInput contains a batch of edits for one monster's ledger
type UpdateDamageLogInput struct {
	MonsterID string
	Updates   []DamageLogUpdate
}

// UpdateDamageLogOutput contains the ledger after the edit and the
// recomputed total
type UpdateDamageLogOutput struct {
	Entries     []*entities.DamageEntry
	TotalDamage int32
}

// DeleteDamageLogInput removes entries by ID. Shrinking a compound group is
// deleting its trailing IDs.
type DeleteDamageLogInput struct {
	MonsterID string
	LogIDs    []string
}

// DeleteDamageLogOutput contains the recomputed total after the delete
type DeleteDamageLogOutput struct {
	TotalDamage int32
}
