package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/ledger"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/roster"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/session"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	damagerepo "github.com/KirkDiggler/combat-tracker/internal/repositories/damage"
	monsterrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/monster"
	sessionrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/session"
	"github.com/KirkDiggler/combat-tracker/internal/rules/resistance"
	"github.com/KirkDiggler/combat-tracker/internal/testutils"
)

// Drives the polling client's lifecycle against real Redis-backed
// repositories: create, mutate from another seat, detect the conflict,
// refetch, end.
type FlowTestSuite struct {
	suite.Suite
	sessions session.Service
	roster   roster.Service
	ledger   ledger.Service
	clock    *clock.Fixed
	cleanup  func()
	ctx      context.Context
}

func (s *FlowTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = &clock.Fixed{Time: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
	s.ctx = context.Background()

	sessionRepo, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	monsterRepo, err := monsterrepo.NewRedis(&monsterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	damageRepo, err := damagerepo.NewRedis(&damagerepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	sessions, err := session.NewOrchestrator(&session.Config{
		SessionRepo:   sessionRepo,
		MonsterRepo:   monsterRepo,
		DamageRepo:    damageRepo,
		CodeGenerator: idgen.NewNumericCode(nil),
		Clock:         s.clock,
	})
	s.Require().NoError(err)
	s.sessions = sessions

	rosterSvc, err := roster.NewOrchestrator(&roster.Config{
		SessionRepo: sessionRepo,
		MonsterRepo: monsterRepo,
		IDGenerator: idgen.NewSequential("mon"),
	})
	s.Require().NoError(err)
	s.roster = rosterSvc

	ledgerSvc, err := ledger.NewOrchestrator(&ledger.Config{
		SessionRepo: sessionRepo,
		MonsterRepo: monsterRepo,
		DamageRepo:  damageRepo,
		IDGenerator: idgen.NewSequential("dmg"),
		Clock:       s.clock,
	})
	s.Require().NoError(err)
	s.ledger = ledgerSvc
}

func (s *FlowTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *FlowTestSuite) TestConflictDetectionAcrossSeats() {
	created, err := s.sessions.CreateSession(s.ctx, &session.CreateSessionInput{OwnerUserID: "user-123"})
	s.Require().NoError(err)
	code := created.Session.Code
	s.Len(code, idgen.CodeDigits)

	joined, err := s.sessions.JoinSession(s.ctx, &session.JoinSessionInput{Code: code})
	s.Require().NoError(err)
	clientView := joined.Session.LastUpdated

	// Nothing has changed yet
	check, err := s.sessions.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              code,
		ClientLastUpdated: clientView,
	})
	s.Require().NoError(err)
	s.False(check.HasConflict)
	s.True(check.IsActive)

	// Another seat mutates the session
	s.clock.Advance(time.Minute)
	added, err := s.roster.AddMonsters(s.ctx, &roster.AddMonstersInput{
		SessionCode: code,
		Name:        "Goblin",
		Count:       2,
	})
	s.Require().NoError(err)

	check, err = s.sessions.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              code,
		ClientLastUpdated: clientView,
	})
	s.Require().NoError(err)
	s.True(check.HasConflict)
	s.True(check.IsActive)

	// Resolution is a full refetch
	data, err := s.sessions.GetCombatData(s.ctx, &session.GetCombatDataInput{Code: code})
	s.Require().NoError(err)
	s.Require().Len(data.Monsters, 2)
	clientView = data.Session.LastUpdated

	check, err = s.sessions.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              code,
		ClientLastUpdated: clientView,
	})
	s.Require().NoError(err)
	s.False(check.HasConflict)

	// Damage from yet another seat bumps the clock again
	s.clock.Advance(time.Minute)
	_, err = s.ledger.AddDamage(s.ctx, &ledger.AddDamageInput{
		MonsterID: added.Monsters[0].ID,
		Entries: []ledger.DamageSpec{
			{Type: "slashing", Tier: resistance.TierNormal, OriginalValue: 5},
		},
	})
	s.Require().NoError(err)

	check, err = s.sessions.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              code,
		ClientLastUpdated: clientView,
	})
	s.Require().NoError(err)
	s.True(check.HasConflict)
}

func (s *FlowTestSuite) TestEndSessionDestroysEverything() {
	created, err := s.sessions.CreateSession(s.ctx, &session.CreateSessionInput{OwnerAnonymousID: "anon-9"})
	s.Require().NoError(err)
	code := created.Session.Code

	added, err := s.roster.AddMonsters(s.ctx, &roster.AddMonstersInput{
		SessionCode: code,
		Name:        "Goblin",
		Count:       2,
	})
	s.Require().NoError(err)

	_, err = s.ledger.AddDamage(s.ctx, &ledger.AddDamageInput{
		MonsterID: added.Monsters[0].ID,
		Entries: []ledger.DamageSpec{
			{Type: "fire", Tier: resistance.TierResistant, OriginalValue: 10},
		},
	})
	s.Require().NoError(err)

	ended, err := s.sessions.EndSession(s.ctx, &session.EndSessionInput{Code: code})
	s.Require().NoError(err)
	s.Equal(int32(2), ended.MonstersDeleted)

	// Joins and refetches now fail, and the conflict check fails closed
	_, err = s.sessions.JoinSession(s.ctx, &session.JoinSessionInput{Code: code})
	s.True(errors.IsNotFound(err))

	_, err = s.sessions.GetCombatData(s.ctx, &session.GetCombatDataInput{Code: code})
	s.True(errors.IsNotFound(err))

	check, err := s.sessions.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              code,
		ClientLastUpdated: s.clock.Now(),
	})
	s.Require().NoError(err)
	s.True(check.HasConflict)
	s.False(check.IsActive)

	// Mutations against the dead session's monsters are rejected outright
	_, err = s.roster.MarkDead(s.ctx, &roster.MarkDeadInput{MonsterID: added.Monsters[0].ID})
	s.True(errors.IsNotFound(err))
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}
