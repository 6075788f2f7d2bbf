package session

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
)

const (
	sessionKeyPrefix = "combat_session:"

	// Error messages
	errSessionNil  = "session cannot be nil"
	errCodeEmpty   = "session code cannot be empty"
	errOwnerNeeded = "session must have exactly one owner identity"
)

// RedisConfig contains configuration for the Redis session repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
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
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.Code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}
	if (input.Session.OwnerUserID == "") == (input.Session.OwnerAnonymousID == "") {
		return nil, errors.InvalidArgument(errOwnerNeeded)
	}

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	// SETNX keeps code claiming atomic across concurrent creators
	ok, err := r.client.SetNX(ctx, sessionKeyPrefix+input.Session.Code, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store session")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("session code %s is already in use", input.Session.Code)
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	result, err := r.client.Get(ctx, sessionKeyPrefix+input.Code).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %s not found", input.Code)
		}
		return nil, errors.Wrapf(err, "failed to get session")
	}

	var sess entities.Session
	if err := json.Unmarshal([]byte(result), &sess); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &sess}, nil
}

func (r *redisRepository) Touch(ctx context.Context, input TouchInput) (*TouchOutput, error) {
	out, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	sess := out.Session
	sess.LastUpdated = r.clock.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+sess.Code, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to touch session")
	}

	return &TouchOutput{LastUpdated: sess.LastUpdated}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	deleted, err := r.client.Del(ctx, sessionKeyPrefix+input.Code).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("session %s not found", input.Code)
	}

	return &DeleteOutput{}, nil
}
