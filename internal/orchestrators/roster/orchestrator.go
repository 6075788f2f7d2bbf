// Package roster implements monster roster operations: adding monsters with
// name-keyed group inheritance, death bookkeeping, AC refinement, and
// group-shared attribute updates.
package roster

//go:generate mockgen -destination=mock/mock_service.go -package=rostermock github.com/KirkDiggler/combat-tracker/internal/orchestrators/roster Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	monsterrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/monster"
	sessionrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/session"
	"github.com/KirkDiggler/combat-tracker/internal/rules/acrange"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
)

// maxBatchSize bounds one AddMonsters call. Large encounters are added in
// several calls; numbering stays sequential across them.
const maxBatchSize = 20

// maxHPBound is the largest max-HP value the tracker accepts
const maxHPBound = 9999

// Service defines the interface for roster operations
type Service interface {
	// AddMonsters creates count instances of one monster name
	AddMonsters(ctx context.Context, input *AddMonstersInput) (*AddMonstersOutput, error)

	// MarkDead soft-deletes an instance, recording the lethal-damage
	// sentinel when max HP was never learned
	MarkDead(ctx context.Context, input *MarkDeadInput) (*MarkDeadOutput, error)

	// ReportAttack narrows the group's AC range from one hit/miss
	ReportAttack(ctx context.Context, input *ReportAttackInput) (*ReportAttackOutput, error)

	// SetACRange overrides the group's AC range outright
	SetACRange(ctx context.Context, input *SetACRangeInput) (*SetACRangeOutput, error)

	// UpdateGroupAttribute changes shared attributes for the whole group
	UpdateGroupAttribute(ctx context.Context, input *UpdateGroupAttributeInput) (*UpdateGroupAttributeOutput, error)

	// UpdateInstanceNotes sets notes on a single instance, never broadcast
	UpdateInstanceNotes(ctx context.Context, input *UpdateInstanceNotesInput) (*UpdateInstanceNotesOutput, error)
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	SessionRepo sessionrepo.Repository
	MonsterRepo monsterrepo.Repository
	IDGenerator idgen.Generator
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
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions sessionrepo.Repository
	monsters monsterrepo.Repository
	idGen    idgen.Generator
}

// NewOrchestrator creates a new roster orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sessions: cfg.SessionRepo,
		monsters: cfg.MonsterRepo,
		idGen:    cfg.IDGenerator,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) AddMonsters(ctx context.Context, input *AddMonstersInput) (*AddMonstersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	name := strings.TrimSpace(input.Name)

	vb := errors.NewValidationBuilder()
	if input.SessionCode == "" {
		vb.RequiredField("SessionCode")
	}
	if name == "" {
		vb.RequiredField("Name")
	}
	vb.Range("Count", input.Count, 1, maxBatchSize)
	if input.KnownAC != nil {
		vb.Range("KnownAC", *input.KnownAC, 1, acrange.MaxBound)
	}
	if input.KnownMaxHP != nil {
		vb.Range("KnownMaxHP", *input.KnownMaxHP, 1, maxHPBound)
	}
	for dmgType, tier := range input.Resistances {
		if !resistance.Known(tier) {
			vb.Fieldf("Resistances", "unknown tier %q for damage type %q", tier, dmgType)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if err := o.requireActiveSession(ctx, input.SessionCode); err != nil {
		return nil, err
	}

	group, err := o.resolveGroup(ctx, input, name)
	if err != nil {
		return nil, err
	}

	// Numbers are monotone over the session's whole lifetime: the max is
	// taken over every instance ever listed, dead ones included.
	listed, err := o.monsters.ListBySession(ctx, monsterrepo.ListBySessionInput{SessionCode: input.SessionCode})
	if err != nil {
		return nil, err
	}
	var nextNumber int32 = 1
	for _, m := range listed.Monsters {
		if m.Number >= nextNumber {
			nextNumber = m.Number + 1
		}
	}

	created := make([]*entities.MonsterInstance, 0, input.Count)
	for i := int32(0); i < input.Count; i++ {
		created = append(created, &entities.MonsterInstance{
			ID:          o.idGen.Generate(),
			SessionCode: input.SessionCode,
			Number:      nextNumber + i,
			Name:        name,
		})
	}

	if _, err := o.monsters.Create(ctx, monsterrepo.CreateInput{Monsters: created}); err != nil {
		return nil, err
	}

	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: input.SessionCode}); err != nil {
		return nil, err
	}

	slog.Info("Monsters added",
		"session_code", input.SessionCode,
		"name", name,
		"count", input.Count,
		"first_number", nextNumber,
	)

	for _, m := range created {
		m.ApplyGroup(group)
	}
	return &AddMonstersOutput{Monsters: created}, nil
}

// resolveGroup returns the existing group for (session, name), or seeds a
// fresh one from the caller's values. Existing groups win wholesale: a
// second "Goblin" batch inherits the current refined AC and learned
// resistances no matter what the caller supplied.
func (o *orchestrator) resolveGroup(ctx context.Context, input *AddMonstersInput, name string) (*entities.MonsterGroup, error) {
	existing, err := o.monsters.GetGroup(ctx, monsterrepo.GetGroupInput{
		SessionCode: input.SessionCode,
		Name:        name,
	})
	if err == nil {
		return existing.Group, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	group := &entities.MonsterGroup{
		SessionCode: input.SessionCode,
		Name:        name,
		AC:          acrange.New(),
		Resistances: input.Resistances.Clone(),
	}
	if input.KnownAC != nil {
		// A known AC pins the range to (ac-1, ac], displayed as "AC = n"
		r, err := acrange.NewBounded(*input.KnownAC-1, *input.KnownAC)
		if err != nil {
			return nil, err
		}
		group.AC = r
	}
	if input.KnownMaxHP != nil {
		v := *input.KnownMaxHP
		group.MaxHP = &v
	}

	if _, err := o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group}); err != nil {
		return nil, err
	}
	return group, nil
}

func (o *orchestrator) MarkDead(ctx context.Context, input *MarkDeadInput) (*MarkDeadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	monster, group, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	monster.IsDead = true

	// Lethal damage is the only HP fact we will ever learn for this group:
	// record it as a negative sentinel meaning "max HP is at least this"
	if group.MaxHP == nil && monster.TotalDamage > 0 {
		sentinel := -monster.TotalDamage
		group.MaxHP = &sentinel
		if _, err := o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group}); err != nil {
			return nil, err
		}
	}

	if _, err := o.monsters.Update(ctx, monsterrepo.UpdateInput{Monster: monster}); err != nil {
		return nil, err
	}

	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	monster.ApplyGroup(group)
	return &MarkDeadOutput{Monster: monster}, nil
}

func (o *orchestrator) ReportAttack(ctx context.Context, input *ReportAttackInput) (*ReportAttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	monster, group, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	narrowed, err := group.AC.ReportAttack(input.Roll, input.Hit)
	if err != nil {
		// Contradictory observation: stored range is left untouched
		return nil, err
	}
	group.AC = narrowed

	if _, err := o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group}); err != nil {
		return nil, err
	}
	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	return &ReportAttackOutput{Group: group, Display: group.AC.String()}, nil
}

func (o *orchestrator) SetACRange(ctx context.Context, input *SetACRangeInput) (*SetACRangeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	r, err := acrange.NewBounded(input.Min, input.Max)
	if err != nil {
		return nil, err
	}

	monster, group, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	group.AC = r
	if _, err := o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group}); err != nil {
		return nil, err
	}
	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	return &SetACRangeOutput{Group: group}, nil
}

func (o *orchestrator) UpdateGroupAttribute(ctx context.Context, input *UpdateGroupAttributeInput) (*UpdateGroupAttributeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	vb := errors.NewValidationBuilder()
	if input.MaxHP != nil {
		vb.Range("MaxHP", *input.MaxHP, 1, maxHPBound)
	}
	for dmgType, tier := range input.Resistances {
		if !resistance.Known(tier) {
			vb.Fieldf("Resistances", "unknown tier %q for damage type %q", tier, dmgType)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	monster, group, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	if input.AC != nil {
		r, err := acrange.NewBounded(input.AC.Min, input.AC.Max)
		if err != nil {
			return nil, err
		}
		group.AC = r
	}
	if input.MaxHP != nil {
		v := *input.MaxHP
		group.MaxHP = &v
	}
	if input.Resistances != nil {
		group.Resistances = input.Resistances.Clone()
	}

	if _, err := o.monsters.SetGroup(ctx, monsterrepo.SetGroupInput{Group: group}); err != nil {
		return nil, err
	}
	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	return &UpdateGroupAttributeOutput{Group: group}, nil
}

func (o *orchestrator) UpdateInstanceNotes(ctx context.Context, input *UpdateInstanceNotesInput) (*UpdateInstanceNotesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	monster, group, err := o.getMonsterInActiveSession(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	monster.Notes = input.Notes
	if _, err := o.monsters.Update(ctx, monsterrepo.UpdateInput{Monster: monster}); err != nil {
		return nil, err
	}
	if _, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: monster.SessionCode}); err != nil {
		return nil, err
	}

	monster.ApplyGroup(group)
	return &UpdateInstanceNotesOutput{Monster: monster}, nil
}

func (o *orchestrator) requireActiveSession(ctx context.Context, code string) error {
	out, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: code})
	if err != nil {
		return err
	}
	if !out.Session.IsActive {
		return errors.FailedPreconditionf("session %s has already ended", code)
	}
	return nil
}

// getMonsterInActiveSession loads an instance, verifies its session is still
// live, and loads its group.
func (o *orchestrator) getMonsterInActiveSession(ctx context.Context, monsterID string) (*entities.MonsterInstance, *entities.MonsterGroup, error) {
	monsterOut, err := o.monsters.Get(ctx, monsterrepo.GetInput{ID: monsterID})
	if err != nil {
		return nil, nil, err
	}
	monster := monsterOut.Monster

	if err := o.requireActiveSession(ctx, monster.SessionCode); err != nil {
		return nil, nil, err
	}

	groupOut, err := o.monsters.GetGroup(ctx, monsterrepo.GetGroupInput{
		SessionCode: monster.SessionCode,
		Name:        monster.Name,
	})
	if err != nil {
		return nil, nil, err
	}

	return monster, groupOut.Group, nil
}
