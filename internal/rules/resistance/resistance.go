// Package resistance implements the damage resistance rules: how a monster's
// known resistance tier for a damage type transforms incoming damage.
package resistance

// Tier describes how a damage type affects a specific monster.
type Tier string

// Resistance tiers
const (
	TierNormal     Tier = "normal"
	TierResistant  Tier = "resistant"
	TierVulnerable Tier = "vulnerable"
	TierImmune     Tier = "immune"
)

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}

// Known reports whether t is one of the defined tiers.
func Known(t Tier) bool {
	switch t {
	case TierNormal, TierResistant, TierVulnerable, TierImmune:
		return true
	default:
		return false
	}
}

// Actual computes the damage actually taken from an original damage value
// and a resistance tier. The result is persisted once at write time and is
// never recomputed when a monster's known resistance changes later.
//
// Resistant halves (rounding toward zero), vulnerable doubles, immune zeroes,
// and any other tier passes the value through unchanged.
func Actual(original int32, tier Tier) int32 {
	switch tier {
	case TierResistant:
		return original / 2
	case TierVulnerable:
		return original * 2
	case TierImmune:
		return 0
	default:
		return original
	}
}
