package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/session"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	damagerepo "github.com/KirkDiggler/combat-tracker/internal/repositories/damage"
	damagerepomock "github.com/KirkDiggler/combat-tracker/internal/repositories/damage/mock"
	monsterrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/monster"
	monsterrepomock "github.com/KirkDiggler/combat-tracker/internal/repositories/monster/mock"
	sessionrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/session"
	sessionrepomock "github.com/KirkDiggler/combat-tracker/internal/repositories/session/mock"
	"github.com/KirkDiggler/combat-tracker/internal/rules/acrange"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	sessionRepo *sessionrepomock.MockRepository
	monsterRepo *monsterrepomock.MockRepository
	damageRepo  *damagerepomock.MockRepository
	clock       *clock.Fixed
	svc         session.Service
	ctx         context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sessionRepo = sessionrepomock.NewMockRepository(s.ctrl)
	s.monsterRepo = monsterrepomock.NewMockRepository(s.ctrl)
	s.damageRepo = damagerepomock.NewMockRepository(s.ctrl)
	s.clock = &clock.Fixed{Time: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
	s.ctx = context.Background()

	svc, err := session.NewOrchestrator(&session.Config{
		SessionRepo:   s.sessionRepo,
		MonsterRepo:   s.monsterRepo,
		DamageRepo:    s.damageRepo,
		CodeGenerator: idgen.NewSequential("code"),
		Clock:         s.clock,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestCreateSession() {
	s.sessionRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessionrepo.CreateInput) (*sessionrepo.CreateOutput, error) {
			s.Equal("user-123", input.Session.OwnerUserID)
			s.True(input.Session.IsActive)
			s.Equal(s.clock.Now(), input.Session.CreatedAt)
			s.Equal(s.clock.Now(), input.Session.LastUpdated)
			return &sessionrepo.CreateOutput{Session: input.Session}, nil
		})

	out, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{OwnerUserID: "user-123"})
	s.Require().NoError(err)
	s.NotEmpty(out.Session.Code)
}

func (s *OrchestratorTestSuite) TestCreateSessionRetriesTakenCode() {
	gomock.InOrder(
		s.sessionRepo.EXPECT().
			Create(s.ctx, gomock.Any()).
			Return(nil, errors.AlreadyExists("session code taken")),
		s.sessionRepo.EXPECT().
			Create(s.ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input sessionrepo.CreateInput) (*sessionrepo.CreateOutput, error) {
				return &sessionrepo.CreateOutput{Session: input.Session}, nil
			}),
	)

	out, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{OwnerUserID: "user-123"})
	s.Require().NoError(err)
	s.NotNil(out.Session)
}

func (s *OrchestratorTestSuite) TestCreateSessionExhaustsAttempts() {
	s.sessionRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		Return(nil, errors.AlreadyExists("session code taken")).
		Times(5)

	_, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{OwnerUserID: "user-123"})
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))
}

func (s *OrchestratorTestSuite) TestCreateSessionStorageError() {
	s.sessionRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("redis down"))

	_, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{OwnerUserID: "user-123"})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *OrchestratorTestSuite) TestCreateSessionOwnerValidation() {
	_, err := s.svc.CreateSession(s.ctx, &session.CreateSessionInput{})
	s.True(errors.IsInvalidArgument(err), "no owner identity")

	_, err = s.svc.CreateSession(s.ctx, &session.CreateSessionInput{
		OwnerUserID:      "user-123",
		OwnerAnonymousID: "anon-9",
	})
	s.True(errors.IsInvalidArgument(err), "both owner identities")

	_, err = s.svc.CreateSession(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestJoinSession() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{
			Code:     "123456",
			IsActive: true,
		}}, nil)

	out, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{Code: "123456"})
	s.Require().NoError(err)
	s.Equal("123456", out.Session.Code)
}

func (s *OrchestratorTestSuite) TestJoinSessionEnded() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{
			Code:     "123456",
			IsActive: false,
		}}, nil)

	_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{Code: "123456"})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestJoinSessionNotFound() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "999999"}).
		Return(nil, errors.NotFound("session 999999 not found"))

	_, err := s.svc.JoinSession(s.ctx, &session.JoinSessionInput{Code: "999999"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestEndSessionCascades() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{Code: "123456", IsActive: true}}, nil)
	s.monsterRepo.EXPECT().
		ListBySession(s.ctx, monsterrepo.ListBySessionInput{SessionCode: "123456"}).
		Return(&monsterrepo.ListBySessionOutput{Monsters: []*entities.MonsterInstance{
			{ID: "mon_1"},
			{ID: "mon_2"},
		}}, nil)
	s.damageRepo.EXPECT().
		DeleteByMonster(s.ctx, damagerepo.DeleteByMonsterInput{MonsterID: "mon_1"}).
		Return(&damagerepo.DeleteByMonsterOutput{}, nil)
	s.damageRepo.EXPECT().
		DeleteByMonster(s.ctx, damagerepo.DeleteByMonsterInput{MonsterID: "mon_2"}).
		Return(&damagerepo.DeleteByMonsterOutput{}, nil)
	s.monsterRepo.EXPECT().
		DeleteBySession(s.ctx, monsterrepo.DeleteBySessionInput{SessionCode: "123456"}).
		Return(&monsterrepo.DeleteBySessionOutput{MonstersDeleted: 2}, nil)
	s.sessionRepo.EXPECT().
		Delete(s.ctx, sessionrepo.DeleteInput{Code: "123456"}).
		Return(&sessionrepo.DeleteOutput{}, nil)

	out, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{Code: "123456"})
	s.Require().NoError(err)
	s.Equal(int32(2), out.MonstersDeleted)
}

func (s *OrchestratorTestSuite) TestEndSessionNotFound() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "999999"}).
		Return(nil, errors.NotFound("session 999999 not found"))

	_, err := s.svc.EndSession(s.ctx, &session.EndSessionInput{Code: "999999"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestTouch() {
	stamp := s.clock.Now().Add(time.Minute)
	s.sessionRepo.EXPECT().
		Touch(s.ctx, sessionrepo.TouchInput{Code: "123456"}).
		Return(&sessionrepo.TouchOutput{LastUpdated: stamp}, nil)

	out, err := s.svc.Touch(s.ctx, &session.TouchInput{Code: "123456"})
	s.Require().NoError(err)
	s.Equal(stamp, out.LastUpdated)
}

func (s *OrchestratorTestSuite) TestCheckVersionConflictStaleClient() {
	serverStamp := s.clock.Now()
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{
			Code:        "123456",
			IsActive:    true,
			LastUpdated: serverStamp,
		}}, nil)

	out, err := s.svc.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              "123456",
		ClientLastUpdated: serverStamp.Add(-time.Minute),
	})
	s.Require().NoError(err)
	s.True(out.HasConflict)
	s.True(out.IsActive)
	s.Equal(serverStamp, out.ServerLastUpdated)
}

func (s *OrchestratorTestSuite) TestCheckVersionConflictUpToDate() {
	serverStamp := s.clock.Now()
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{
			Code:        "123456",
			IsActive:    true,
			LastUpdated: serverStamp,
		}}, nil)

	out, err := s.svc.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              "123456",
		ClientLastUpdated: serverStamp,
	})
	s.Require().NoError(err)
	s.False(out.HasConflict)
	s.True(out.IsActive)
}

func (s *OrchestratorTestSuite) TestCheckVersionConflictSessionGone() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(nil, errors.NotFound("session 123456 not found"))

	out, err := s.svc.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              "123456",
		ClientLastUpdated: s.clock.Now(),
	})
	s.Require().NoError(err)
	s.True(out.HasConflict)
	s.False(out.IsActive)
}

func (s *OrchestratorTestSuite) TestCheckVersionConflictFailsClosedOnStoreError() {
	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(nil, errors.Internal("redis down"))

	out, err := s.svc.CheckVersionConflict(s.ctx, &session.CheckVersionConflictInput{
		Code:              "123456",
		ClientLastUpdated: s.clock.Now(),
	})
	s.Require().NoError(err)
	s.True(out.HasConflict)
	s.False(out.IsActive)
}

func (s *OrchestratorTestSuite) TestGetCombatData() {
	maxHP := int32(20)
	group := &entities.MonsterGroup{
		SessionCode: "123456",
		Name:        "Goblin",
		AC:          acrange.Range{Min: 10},
		MaxHP:       &maxHP,
	}

	s.sessionRepo.EXPECT().
		Get(s.ctx, sessionrepo.GetInput{Code: "123456"}).
		Return(&sessionrepo.GetOutput{Session: &entities.Session{Code: "123456", IsActive: true}}, nil)
	s.monsterRepo.EXPECT().
		ListBySession(s.ctx, monsterrepo.ListBySessionInput{SessionCode: "123456"}).
		Return(&monsterrepo.ListBySessionOutput{Monsters: []*entities.MonsterInstance{
			{ID: "mon_1", SessionCode: "123456", Number: 1, Name: "Goblin"},
			{ID: "mon_2", SessionCode: "123456", Number: 2, Name: "Goblin"},
		}}, nil)
	// Two same-named monsters, one group fetch
	s.monsterRepo.EXPECT().
		GetGroup(s.ctx, monsterrepo.GetGroupInput{SessionCode: "123456", Name: "Goblin"}).
		Return(&monsterrepo.GetGroupOutput{Group: group}, nil)
	s.damageRepo.EXPECT().
		ListByMonster(s.ctx, damagerepo.ListByMonsterInput{MonsterID: "mon_1"}).
		Return(&damagerepo.ListByMonsterOutput{Entries: []*entities.DamageEntry{
			{ID: "dmg_1", MonsterID: "mon_1", ActualValue: 5},
		}}, nil)
	s.damageRepo.EXPECT().
		ListByMonster(s.ctx, damagerepo.ListByMonsterInput{MonsterID: "mon_2"}).
		Return(&damagerepo.ListByMonsterOutput{}, nil)

	out, err := s.svc.GetCombatData(s.ctx, &session.GetCombatDataInput{Code: "123456"})
	s.Require().NoError(err)
	s.Require().Len(out.Monsters, 2)

	first := out.Monsters[0]
	s.Equal(int32(10), first.Monster.AC.Min)
	s.Require().NotNil(first.Monster.MaxHP)
	s.Equal(int32(20), *first.Monster.MaxHP)
	s.Len(first.Entries, 1)

	second := out.Monsters[1]
	s.Require().NotNil(second.Monster.MaxHP)
	s.Equal(int32(20), *second.Monster.MaxHP)
	s.Empty(second.Entries)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
