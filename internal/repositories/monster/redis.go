package monster

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
)

const (
	monsterKeyPrefix = "monster:"
	groupKeyPrefix   = "monster_group:"

	// Per-session index sets
	sessionKeyPrefix   = "combat_session:"
	monsterIndexSuffix = ":monsters"
	groupIndexSuffix   = ":groups"

	// Error messages
	errMonsterNil     = "monster cannot be nil"
	errMonsterIDEmpty = "monster ID cannot be empty"
	errSessionEmpty   = "session code cannot be empty"
	errNameEmpty      = "monster name cannot be empty"
	errGroupNil       = "group cannot be nil"
	errMixedSessions  = "all monsters must belong to the same session"
	errNoMonsters     = "at least one monster is required"
)

// RedisConfig contains configuration for the Redis monster repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed monster repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if len(input.Monsters) == 0 {
		return nil, errors.InvalidArgument(errNoMonsters)
	}

	sessionCode := input.Monsters[0].SessionCode
	for _, m := range input.Monsters {
		if m == nil {
			return nil, errors.InvalidArgument(errMonsterNil)
		}
		if m.ID == "" {
			return nil, errors.InvalidArgument(errMonsterIDEmpty)
		}
		if m.SessionCode == "" {
			return nil, errors.InvalidArgument(errSessionEmpty)
		}
		if m.SessionCode != sessionCode {
			return nil, errors.InvalidArgument(errMixedSessions)
		}
	}

	pipe := r.client.TxPipeline()
	indexKey := sessionKeyPrefix + sessionCode + monsterIndexSuffix
	for _, m := range input.Monsters {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal monster %s", m.ID)
		}
		pipe.Set(ctx, monsterKeyPrefix+m.ID, data, 0)
		pipe.SAdd(ctx, indexKey, m.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create monsters")
	}

	return &CreateOutput{Monsters: input.Monsters}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	result, err := r.client.Get(ctx, monsterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("monster %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get monster")
	}

	var m entities.MonsterInstance
	if err := json.Unmarshal([]byte(result), &m); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal monster")
	}

	return &GetOutput{Monster: &m}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Monster == nil {
		return nil, errors.InvalidArgument(errMonsterNil)
	}
	if input.Monster.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	key := monsterKeyPrefix + input.Monster.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check monster existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("monster %s not found", input.Monster.ID)
	}

	data, err := json.Marshal(input.Monster)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal monster")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update monster")
	}

	return &UpdateOutput{Monster: input.Monster}, nil
}

func (r *redisRepository) ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error) {
	if input.SessionCode == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}

	ids, err := r.client.SMembers(ctx, sessionKeyPrefix+input.SessionCode+monsterIndexSuffix).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list session monsters")
	}
	if len(ids) == 0 {
		return &ListBySessionOutput{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = monsterKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch session monsters")
	}

	monsters := make([]*entities.MonsterInstance, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index member without a row; skip rather than fail the read
			continue
		}
		var m entities.MonsterInstance
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal monster")
		}
		monsters = append(monsters, &m)
	}

	sort.Slice(monsters, func(i, j int) bool {
		return monsters[i].Number < monsters[j].Number
	})

	return &ListBySessionOutput{Monsters: monsters}, nil
}

func (r *redisRepository) GetGroup(ctx context.Context, input GetGroupInput) (*GetGroupOutput, error) {
	if input.SessionCode == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	result, err := r.client.Get(ctx, groupKey(input.SessionCode, input.Name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no monster group named %q in session %s", input.Name, input.SessionCode)
		}
		return nil, errors.Wrapf(err, "failed to get monster group")
	}

	var g entities.MonsterGroup
	if err := json.Unmarshal([]byte(result), &g); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal monster group")
	}

	return &GetGroupOutput{Group: &g}, nil
}

func (r *redisRepository) SetGroup(ctx context.Context, input SetGroupInput) (*SetGroupOutput, error) {
	if input.Group == nil {
		return nil, errors.InvalidArgument(errGroupNil)
	}
	if input.Group.SessionCode == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}
	if input.Group.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	data, err := json.Marshal(input.Group)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal monster group")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, groupKey(input.Group.SessionCode, input.Group.Name), data, 0)
	pipe.SAdd(ctx, sessionKeyPrefix+input.Group.SessionCode+groupIndexSuffix, input.Group.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store monster group")
	}

	return &SetGroupOutput{Group: input.Group}, nil
}

func (r *redisRepository) DeleteBySession(ctx context.Context, input DeleteBySessionInput) (*DeleteBySessionOutput, error) {
	if input.SessionCode == "" {
		return nil, errors.InvalidArgument(errSessionEmpty)
	}

	monsterIndex := sessionKeyPrefix + input.SessionCode + monsterIndexSuffix
	groupIndex := sessionKeyPrefix + input.SessionCode + groupIndexSuffix

	ids, err := r.client.SMembers(ctx, monsterIndex).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list session monsters")
	}
	names, err := r.client.SMembers(ctx, groupIndex).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list session groups")
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, monsterKeyPrefix+id)
	}
	for _, name := range names {
		pipe.Del(ctx, groupKey(input.SessionCode, name))
	}
	pipe.Del(ctx, monsterIndex)
	pipe.Del(ctx, groupIndex)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete session monsters")
	}

	// nolint:gosec // roster sizes are small
	return &DeleteBySessionOutput{MonstersDeleted: int32(len(ids))}, nil
}

func groupKey(sessionCode, name string) string {
	return groupKeyPrefix + sessionCode + ":" + name
}
