package entities

import (
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

// DamageEntry is one persisted damage record against a monster instance.
// ActualValue is computed once at write time from OriginalValue and the tier
// supplied with the entry; it is never recomputed when the monster's known
// resistances change later.
type DamageEntry struct {
	ID        string `json:"id"`
	MonsterID string `json:"monster_id"`

	// Type is the damage type, e.g. "fire" or "bludgeoning"
	Type string `json:"type"`

	// Tier the entry was submitted with (what the table observed)
	Tier resistance.Tier `json:"tier"`

	OriginalValue int32 `json:"original_value"`
	ActualValue   int32 `json:"actual_value"`

	// Entries sharing the same CreatedAt form one compound damage
	// submission and render as a single unit
	CreatedAt time.Time `json:"created_at"`
}

// TotalActual sums the persisted actual values of a set of entries.
func TotalActual(entries []*DamageEntry) int32 {
	var total int32
	for _, e := range entries {
		total += e.ActualValue
	}
	return total
}
