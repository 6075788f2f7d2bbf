package roster

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities"
)

// AddMonstersInput describes a batch of same-named monsters to add. When the
// session already has a group of that name, KnownAC / KnownMaxHP /
// Resistances are ignored and the group's current attributes win.
type AddMonstersInput struct {
	SessionCode string
	Name        string
	Count       int32

	// KnownAC is the exact armor class if the table already knows it;
	// nil leaves the AC range wide open
	KnownAC *int32

	// KnownMaxHP is the maximum HP if known; nil means unknown
	KnownMaxHP *int32

	Resistances entities.Resistances
}

// AddMonstersOutput contains the created instances with group attributes
// applied
type AddMonstersOutput struct {
	Monsters []*entities.MonsterInstance
}

// MarkDeadInput identifies the instance to mark dead
type MarkDeadInput struct {
	MonsterID string
}

// MarkDeadOutput contains the updated instance
type MarkDeadOutput struct {
	Monster *entities.MonsterInstance
}

// ReportAttackInput describes one observed attack against a monster
type ReportAttackInput struct {
	MonsterID string
	Roll      int32
	Hit       bool
}

// ReportAttackOutput contains the narrowed group range and its display form
type ReportAttackOutput struct {
	Group   *entities.MonsterGroup
	Display string
}

// SetACRangeInput is the administrative override for a group's AC range
type SetACRangeInput struct {
	MonsterID string
	Min       int32
	Max       int32
}

// SetACRangeOutput contains the updated group
type SetACRangeOutput struct {
	Group *entities.MonsterGroup
}

// ACRangeUpdate carries explicit bounds for a group attribute update
type ACRangeUpdate struct {
	Min int32
	Max int32
}

// UpdateGroupAttributeInput updates shared attributes for every instance in
// the target's group. Nil fields are left unchanged; a non-nil Resistances
// replaces the group's map.
type UpdateGroupAttributeInput struct {
	MonsterID   string
	AC          *ACRangeUpdate
	MaxHP       *int32
	Resistances entities.Resistances
}

// UpdateGroupAttributeOutput contains the updated group
type UpdateGroupAttributeOutput struct {
	Group *entities.MonsterGroup
}

// UpdateInstanceNotesInput sets instance-scoped notes. Notes are the one
// attribute deliberately not shared across the group. Empty clears them.
type UpdateInstanceNotesInput struct {
	MonsterID string
	Notes     string
}

// UpdateInstanceNotesOutput contains the updated instance
type UpdateInstanceNotesOutput struct {
	Monster *entities.MonsterInstance
}
