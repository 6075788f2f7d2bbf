package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/rules/acrange"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

func i32(v int32) *int32 { return &v }

func TestHPDisplay(t *testing.T) {
	testCases := []struct {
		name    string
		monster entities.MonsterInstance
		want    string
	}{
		{
			name:    "unknown max",
			monster: entities.MonsterInstance{TotalDamage: 5},
			want:    "5/?",
		},
		{
			name:    "known max",
			monster: entities.MonsterInstance{TotalDamage: 12, MaxHP: i32(34)},
			want:    "12/34",
		},
		{
			name:    "death sentinel renders as at-most",
			monster: entities.MonsterInstance{TotalDamage: 12, MaxHP: i32(-12)},
			want:    "12/≤12",
		},
		{
			name:    "untouched monster",
			monster: entities.MonsterInstance{},
			want:    "0/?",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.monster.HPDisplay())
		})
	}
}

func TestApplyGroup(t *testing.T) {
	r, err := acrange.NewBounded(10, 15)
	require.NoError(t, err)

	group := &entities.MonsterGroup{
		SessionCode: "123456",
		Name:        "Goblin",
		AC:          r,
		MaxHP:       i32(20),
		Resistances: entities.Resistances{"fire": resistance.TierResistant},
	}

	m := &entities.MonsterInstance{ID: "mon_1", Name: "Goblin"}
	m.ApplyGroup(group)

	assert.Equal(t, r, m.AC)
	require.NotNil(t, m.MaxHP)
	assert.Equal(t, int32(20), *m.MaxHP)
	assert.Equal(t, resistance.TierResistant, m.Resistances["fire"])

	// Applied values are copies, not aliases into the group
	*m.MaxHP = 99
	m.Resistances["fire"] = resistance.TierImmune
	assert.Equal(t, int32(20), *group.MaxHP)
	assert.Equal(t, resistance.TierResistant, group.Resistances["fire"])
}

func TestTotalActual(t *testing.T) {
	assert.Equal(t, int32(0), entities.TotalActual(nil))
	assert.Equal(t, int32(8), entities.TotalActual([]*entities.DamageEntry{
		{ActualValue: 5},
		{ActualValue: 3},
	}))
	assert.Equal(t, int32(-2), entities.TotalActual([]*entities.DamageEntry{
		{ActualValue: 5},
		{ActualValue: -7},
	}))
}
