package entities

import (
	"fmt"

	"github.com/KirkDiggler/combat-tracker/internal/rules/acrange"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

// Resistances maps a damage type (free-form, e.g. "fire", "slashing") to the
// monster's known resistance tier for it. Absent types are normal.
type Resistances map[string]resistance.Tier

// Clone returns a copy of the map. A nil receiver clones to nil.
func (r Resistances) Clone() Resistances {
	if r == nil {
		return nil
	}
	out := make(Resistances, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// MonsterGroup holds the attributes shared by every same-named monster in a
// session: the refined AC range, max HP, and the resistances learned so far.
// It is the consistency domain for the "same name, same stats" rule — writes
// land here once instead of being fanned out to sibling instances.
type MonsterGroup struct {
	SessionCode string        `json:"session_code"`
	Name        string        `json:"name"`
	AC          acrange.Range `json:"ac"`

	// MaxHP is nil while unknown. A negative value is the death sentinel:
	// the monster died to at least |MaxHP| damage but its true maximum was
	// never learned.
	MaxHP *int32 `json:"max_hp,omitempty"`

	Resistances Resistances `json:"resistances,omitempty"`
}

// MonsterInstance is one monster on the board. Group-shared attributes
// (AC/MaxHP/Resistances) are stored on the MonsterGroup and applied at read
// time; Notes is the deliberate exception and stays instance-scoped.
type MonsterInstance struct {
	ID          string `json:"id"`
	SessionCode string `json:"session_code"`

	// Number is sequential per session starting at 1 and never reused,
	// even after a monster dies
	Number int32 `json:"number"`

	Name        string `json:"name"`
	IsDead      bool   `json:"is_dead"`
	TotalDamage int32  `json:"total_damage"`
	Notes       string `json:"notes,omitempty"`

	// Applied from the group at read time, not persisted on the instance
	AC          acrange.Range `json:"ac"`
	MaxHP       *int32        `json:"max_hp,omitempty"`
	Resistances Resistances   `json:"resistances,omitempty"`
}

// ApplyGroup copies the group-shared attributes onto the instance for reads.
func (m *MonsterInstance) ApplyGroup(g *MonsterGroup) {
	if g == nil {
		return
	}
	m.AC = g.AC
	if g.MaxHP != nil {
		v := *g.MaxHP
		m.MaxHP = &v
	} else {
		m.MaxHP = nil
	}
	m.Resistances = g.Resistances.Clone()
}

// HPDisplay renders "damage taken / max HP". An unknown maximum renders as
// "?", and the negative death sentinel renders as "≤N" to distinguish
// "died to at least N" from a genuinely known maximum.
func (m *MonsterInstance) HPDisplay() string {
	switch {
	case m.MaxHP == nil:
		return fmt.Sprintf("%d/?", m.TotalDamage)
	case *m.MaxHP < 0:
		return fmt.Sprintf("%d/≤%d", m.TotalDamage, -*m.MaxHP)
	default:
		return fmt.Sprintf("%d/%d", m.TotalDamage, *m.MaxHP)
	}
}
