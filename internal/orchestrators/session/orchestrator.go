// Package session implements the session registry: creating, joining, and
// ending short-code sessions, plus the read side shared by every polling
// client — version-conflict checks and full combat-data refetches.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/combat-tracker/internal/orchestrators/session Service

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
)

// codeAttempts bounds how many codes CreateSession samples before giving up
// with ResourceExhausted.
const codeAttempts = 5

// Service defines the interface for session operations
type Service interface {
	// CreateSession starts a new session under a freshly sampled code
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession attaches a participant to an existing live session
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// EndSession irreversibly destroys the session and everything under it
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// Touch bumps the session's optimistic-concurrency clock
	Touch(ctx context.Context, input *TouchInput) (*TouchOutput, error)

	// CheckVersionConflict compares a client's cached view against the
	// server's session clock without mutating anything
	CheckVersionConflict(ctx context.Context, input *CheckVersionConflictInput) (*CheckVersionConflictOutput, error)

	// GetCombatData returns the session with every monster (group
	// attributes applied) and its damage ledger
	GetCombatData(ctx context.Context, input *GetCombatDataInput) (*GetCombatDataOutput, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	SessionRepo   sessionrepo.Repository
	MonsterRepo   monsterrepo.Repository
	DamageRepo    damagerepo.Repository
	CodeGenerator idgen.Generator
	Clock         clock.Clock
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
	if c.CodeGenerator == nil {
		vb.RequiredField("CodeGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions sessionrepo.Repository
	monsters monsterrepo.Repository
	damage   damagerepo.Repository
	codeGen  idgen.Generator
	clock    clock.Clock
}

// NewOrchestrator creates a new session orchestrator with the provided
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
		codeGen:  cfg.CodeGenerator,
		clock:    c,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if (input.OwnerUserID == "") == (input.OwnerAnonymousID == "") {
		return nil, errors.InvalidArgument("exactly one of OwnerUserID and OwnerAnonymousID must be set")
	}

	now := o.clock.Now()

	for attempt := 0; attempt < codeAttempts; attempt++ {
		sess := &entities.Session{
			Code:             o.codeGen.Generate(),
			OwnerUserID:      input.OwnerUserID,
			OwnerAnonymousID: input.OwnerAnonymousID,
			IsActive:         true,
			LastUpdated:      now,
			CreatedAt:        now,
		}

		out, err := o.sessions.Create(ctx, sessionrepo.CreateInput{Session: sess})
		if err != nil {
			if errors.IsAlreadyExists(err) {
				continue
			}
			return nil, err
		}

		slog.Info("Session created",
			"session_code", out.Session.Code,
			"attempts", attempt+1,
		)
		return &CreateSessionOutput{Session: out.Session}, nil
	}

	return nil, errors.ResourceExhaustedf(
		"could not find a free session code in %d attempts", codeAttempts)
}

func (o *orchestrator) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Code == "" {
		return nil, errors.InvalidArgument("session code is required")
	}

	out, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: input.Code})
	if err != nil {
		return nil, err
	}
	if !out.Session.IsActive {
		return nil, errors.FailedPreconditionf("session %s has already ended", input.Code)
	}

	return &JoinSessionOutput{Session: out.Session}, nil
}

// EndSession deletes damage ledgers first, then monsters and groups, then
// the session row itself, so a half-finished cascade never leaves a live
// session pointing at missing children.
func (o *orchestrator) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Code == "" {
		return nil, errors.InvalidArgument("session code is required")
	}

	if _, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: input.Code}); err != nil {
		return nil, err
	}

	listed, err := o.monsters.ListBySession(ctx, monsterrepo.ListBySessionInput{SessionCode: input.Code})
	if err != nil {
		return nil, err
	}
	for _, m := range listed.Monsters {
		if _, err := o.damage.DeleteByMonster(ctx, damagerepo.DeleteByMonsterInput{MonsterID: m.ID}); err != nil {
			return nil, err
		}
	}

	deleted, err := o.monsters.DeleteBySession(ctx, monsterrepo.DeleteBySessionInput{SessionCode: input.Code})
	if err != nil {
		return nil, err
	}

	if _, err := o.sessions.Delete(ctx, sessionrepo.DeleteInput{Code: input.Code}); err != nil {
		return nil, err
	}

	slog.Info("Session ended",
		"session_code", input.Code,
		"monsters_deleted", deleted.MonstersDeleted,
	)

	return &EndSessionOutput{MonstersDeleted: deleted.MonstersDeleted}, nil
}

func (o *orchestrator) Touch(ctx context.Context, input *TouchInput) (*TouchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.sessions.Touch(ctx, sessionrepo.TouchInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	return &TouchOutput{LastUpdated: out.LastUpdated}, nil
}

// CheckVersionConflict fails closed: a missing session or a store failure is
// reported as a conflict on an inactive session, never as "you are up to
// date". It never mutates and never merges — resolution is always a full
// refetch by the caller.
func (o *orchestrator) CheckVersionConflict(ctx context.Context, input *CheckVersionConflictInput) (*CheckVersionConflictOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Code == "" {
		return nil, errors.InvalidArgument("session code is required")
	}

	out, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: input.Code})
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("Conflict check failed closed",
				"session_code", input.Code,
				"error", err,
			)
		}
		return &CheckVersionConflictOutput{HasConflict: true, IsActive: false}, nil
	}

	sess := out.Session
	return &CheckVersionConflictOutput{
		HasConflict:       sess.LastUpdated.After(input.ClientLastUpdated),
		IsActive:          sess.IsActive,
		ServerLastUpdated: sess.LastUpdated,
	}, nil
}

func (o *orchestrator) GetCombatData(ctx context.Context, input *GetCombatDataInput) (*GetCombatDataOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Code == "" {
		return nil, errors.InvalidArgument("session code is required")
	}

	sessOut, err := o.sessions.Get(ctx, sessionrepo.GetInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	listed, err := o.monsters.ListBySession(ctx, monsterrepo.ListBySessionInput{SessionCode: input.Code})
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*entities.MonsterGroup)
	states := make([]*MonsterCombatState, 0, len(listed.Monsters))
	for _, m := range listed.Monsters {
		group, ok := groups[m.Name]
		if !ok {
			groupOut, err := o.monsters.GetGroup(ctx, monsterrepo.GetGroupInput{
				SessionCode: input.Code,
				Name:        m.Name,
			})
			if err != nil {
				return nil, err
			}
			group = groupOut.Group
			groups[m.Name] = group
		}
		m.ApplyGroup(group)

		ledger, err := o.damage.ListByMonster(ctx, damagerepo.ListByMonsterInput{MonsterID: m.ID})
		if err != nil {
			return nil, err
		}

		states = append(states, &MonsterCombatState{
			Monster: m,
			Entries: ledger.Entries,
		})
	}

	return &GetCombatDataOutput{
		Session:  sessOut.Session,
		Monsters: states,
	}, nil
}
