// Package ledger implements damage ledger operations. It owns the core
// consistency invariant: after every mutation a monster's TotalDamage equals
// the sum of persisted actual values. Adds are incremental; edits and
// deletes recompute the total from the full current row set, because
// independent clients interleave writes arbitrarily and incremental deltas
// drift.
package ledger

//go:generate mockgen -destination=mock/mock_service.go -package=ledgermock github.com/KirkDiggler/combat-tracker/internal/orchestrators/ledger Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	damagerepo "github.com/KirkDiggler/combat-tracker/internal/repositories/damage"
	monsterrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/monster"
	sessionrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/session"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

// Service defines the interface for damage ledger operations
type Service interface {
	// AddDamage records one (possibly compound) damage submission
	AddDamage(ctx context.Context, input *AddDamageInput) (*AddDamageOutput, error)

	// UpdateDamageLog edits existing entries and/or grows a compound group
	UpdateDamageLog(ctx context.Context, input *UpdateDamageLogInput) (*UpdateDamageLogOutput, error)

	// DeleteDamageLog removes entries by ID
	DeleteDamageLog(ctx context.Context, input *DeleteDamageLogInput) (*DeleteDamageLogOutput, error)
}

// Config holds the dependencies for the ledger orchestrator
type Config struct {
	SessionRepo sessionrepo.Repository
	MonsterRepo monsterrepo.Repository
	DamageRepo  damagerepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.MonsterRepo == nil {
		vb.RequiredField("MonsterRepo")
	}
	if c.DamageRepo == nil {
		vb.RequiredField("DamageRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions sessionrepo.Repository
	monsters monsterrepo.Repository
	damage   damagerepo.Repository
	idGen    idgen.Generator
	clock    clock.Clock
}

// NewOrchestrator creates a new ledger orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		sessions: cfg.SessionRepo,
		monsters: cfg.MonsterRepo,
		damage:   cfg.DamageRepo,
		idGen:    cfg.IDGenerator,
		clock:    c,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) AddDamage(ctx context.Context, input *AddDamageInput) (*AddDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}
	if len(input.Entries) == 0 {
		return nil, errors.InvalidArgument("at least one damage entry is required")
	}

	vb := errors.NewValidationBuilder()
	for i, spec := range input.Entries {
		if spec.Type == "" {
			vb.Fieldf("Entries", "entry %d: damage type is required", i)
		}
		if !resistance.Known(spec.Tier) {
			vb.Fieldf("Entries", "entry %d: unknown resistance tier %q", i, spec.Tier)
		}
		if spec.OriginalValue < 0 {
			vb.Fieldf("Entries", "entry %d: damage cannot be negative", i)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	monster, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	createdAt := o.clock.Now()
	if input.SharedTimestamp != nil {
		createdAt = *input.SharedTimestamp
	}

	entries := make([]*entities.DamageEntry, 0, len(input.Entries))
	var added int32
	for _, spec := range input.Entries {
		actual := resistance.Actual(spec.OriginalValue, spec.Tier)
		entries = append(entries, &entities.DamageEntry{
			ID:            o.idGen.Generate(),
			MonsterID:     monster.ID,
			Type:          spec.Type,
			Tier:          spec.Tier,
			OriginalValue: spec.OriginalValue,
			ActualValue:   actual,
			CreatedAt:     createdAt,
		})
		added += actual
	}

	if _, err := o.damage.Append(ctx, damagerepo.AppendInput{
		MonsterID: monster.ID,
		Entries:   entries,
	}); err != nil {
		return nil, err
	}

	monster.TotalDamage += added
	if _, err := o.monsters.Update(ctx, monsterrepo.UpdateInput{Monster: monster}); err != nil {
		return nil, err
	}

	if err := o.learnResistances(ctx, monster, input.Entries); err != nil {
		return nil, err
	}

	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	slog.Info("Damage recorded",
		"session_code", monster.SessionCode,
		"monster_id", monster.ID,
		"entries", len(entries),
		"added", added,
		"total", monster.TotalDamage,
	)

	return &AddDamageOutput{Entries: entries, TotalDamage: monster.TotalDamage}, nil
}

// learnResistances merges observed non-normal tiers into the monster's
// group. Observation is how resistances become known: once a fire entry is
// logged as resistant, every same-named monster shows fire resistance.
// Already-persisted entries are never retroactively recomputed.
func (o *orchestrator) learnResistances(ctx context.Context, monster *entities.MonsterInstance, specs []DamageSpec) error {
	groupOut, err := o.monsters.GetGroup(ctx, monsterrepo.GetGroupInput{
		SessionCode: monster.SessionCode,
		Name:        monster.Name,
	})
	if err != nil {
		return err
	}
	group := groupOut.Group

	changed := false
	for _, spec := range specs {
		if spec.Tier == resistance.TierNormal {
			continue
		}
		if group.Resistances[spec.Type] == spec.Tier {
			continue
		}
		if group.Resistances == nil {
			group.Resistances = make(entities.Resistances)
		}
		group.Resistances[spec.Type] = spec.Tier
		changed = true
	}

	if !changed {
		return nil
	}

	_, err = o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group})
	return err
}

func (o *orchestrator) UpdateDamageLog(ctx context.Context, input *UpdateDamageLogInput) (*UpdateDamageLogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}
	if len(input.Updates) == 0 {
		return nil, errors.InvalidArgument("at least one update is required")
	}

	vb := errors.NewValidationBuilder()
	for i, u := range input.Updates {
		if u.Type == "" {
			vb.Fieldf("Updates", "update %d: damage type is required", i)
		}
		if !resistance.Known(u.Tier) {
			vb.Fieldf("Updates", "update %d: unknown resistance tier %q", i, u.Tier)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	monster, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	current, err := o.damage.ListByMonster(ctx, damagerepo.ListByMonsterInput{MonsterID: monster.ID})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entities.DamageEntry, len(current.Entries))
	for _, e := range current.Entries {
		byID[e.ID] = e
	}

	var replacements []*entities.DamageEntry
	var inserts []*entities.DamageEntry
	for _, u := range input.Updates {
		if u.LogID == "" {
			continue
		}
		existing, ok := byID[u.LogID]
		if !ok {
			return nil, errors.NotFoundf("damage entry %s not found for monster %s", u.LogID, monster.ID)
		}
		replacements = append(replacements, &entities.DamageEntry{
			ID:            existing.ID,
			MonsterID:     existing.MonsterID,
			Type:          u.Type,
			Tier:          u.Tier,
			OriginalValue: u.OriginalValue,
			ActualValue:   resistance.Actual(u.OriginalValue, u.Tier),
			CreatedAt:     existing.CreatedAt,
		})
	}
	if len(replacements) == 0 {
		return nil, errors.InvalidArgument("updates must reference at least one existing entry")
	}

	// Growing a compound group: inserts reuse the shared timestamp of the
	// group being edited so the set still renders as one submission
	sharedAt := replacements[0].CreatedAt
	for _, u := range input.Updates {
		if u.LogID != "" {
			continue
		}
		inserts = append(inserts, &entities.DamageEntry{
			ID:            o.idGen.Generate(),
			MonsterID:     monster.ID,
			Type:          u.Type,
			Tier:          u.Tier,
			OriginalValue: u.OriginalValue,
			ActualValue:   resistance.Actual(u.OriginalValue, u.Tier),
			CreatedAt:     sharedAt,
		})
	}

	if _, err := o.damage.UpdateBatch(ctx, damagerepo.UpdateBatchInput{
		MonsterID: monster.ID,
		Entries:   replacements,
	}); err != nil {
		return nil, err
	}
	if len(inserts) > 0 {
		if _, err := o.damage.Append(ctx, damagerepo.AppendInput{
			MonsterID: monster.ID,
			Entries:   inserts,
		}); err != nil {
			return nil, err
		}
	}

	total, entries, err := o.recomputeTotal(ctx, monster)
	if err != nil {
		return nil, err
	}

	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	return &UpdateDamageLogOutput{Entries: entries, TotalDamage: total}, nil
}

func (o *orchestrator) DeleteDamageLog(ctx context.Context, input *DeleteDamageLogInput) (*DeleteDamageLogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}
	if len(input.LogIDs) == 0 {
		return nil, errors.InvalidArgument("at least one log ID is required")
	}

	monster, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	if _, err := o.damage.DeleteBatch(ctx, damagerepo.DeleteBatchInput{
		MonsterID: monster.ID,
		IDs:       input.LogIDs,
	}); err != nil {
		return nil, err
	}

	total, _, err := o.recomputeTotal(ctx, monster)
	if err != nil {
		return nil, err
	}

	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	return &DeleteDamageLogOutput{TotalDamage: total}, nil
}

// recomputeTotal re-derives TotalDamage from the monster's full current row
// set and persists it. Never computed by incremental delta here: after an
// edit or delete the rows are the only source of truth.
func (o *orchestrator) recomputeTotal(ctx context.Context, monster *entities.MonsterInstance) (int32, []*entities.DamageEntry, error) {
	listed, err := o.damage.ListByMonster(ctx, damagerepo.ListByMonsterInput{MonsterID: monster.ID})
	if err != nil {
		return 0, nil, err
	}

	monster.TotalDamage = entities.TotalActual(listed.Entries)
	if _, err := o.monsters.Update(ctx, monsterrepo.UpdateInput{Monster: monster}); err != nil {
		return 0, nil, err
	}

	return monster.TotalDamage, listed.Entries, nil
}

func (o *orchestrator) getMonsterInActiveSession(ctx context.Context, monsterID string) (*entities.MonsterInstance, error) {
	monsterOut, err := o.monsters.Get(ctx, monsterrepo.GetInput{ID: monsterID})
	if err != nil {
		return nil, err
	}
	monster := monsterOut.Monster

	sessOut, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: monster.SessionCode})
	if err != nil {
		return nil, err
	}
	if !sessOut.Session.IsActive {
		return nil, errors.FailedPreconditionf("session %s has already ended", monster.SessionCode)
	}

	return monster, nil
}
