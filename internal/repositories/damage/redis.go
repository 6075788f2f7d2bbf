package damage

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
)

const (
	ledgerKeyPrefix = "monster:"
	ledgerKeySuffix = ":damage"

	// Error messages
	errMonsterIDEmpty = "monster ID cannot be empty"
	errEntryNil       = "damage entry cannot be nil"
	errEntryIDEmpty   = "damage entry ID cannot be empty"
	errNoEntries      = "at least one entry is required"
	errNoIDs          = "at least one entry ID is required"
)

// RedisConfig contains configuration for the Redis damage repository
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

// NewRedis creates a new Redis-backed damage repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) ListByMonster(ctx context.Context, input ListByMonsterInput) (*ListByMonsterOutput, error) {
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	entries, err := r.load(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	return &ListByMonsterOutput{Entries: entries}, nil
}

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}
	if len(input.Entries) == 0 {
		return nil, errors.InvalidArgument(errNoEntries)
	}
	for _, e := range input.Entries {
		if e == nil {
			return nil, errors.InvalidArgument(errEntryNil)
		}
		if e.ID == "" {
			return nil, errors.InvalidArgument(errEntryIDEmpty)
		}
	}

	entries, err := r.load(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	entries = append(entries, input.Entries...)
	if err := r.save(ctx, input.MonsterID, entries); err != nil {
		return nil, err
	}

	return &AppendOutput{Entries: input.Entries}, nil
}

func (r *redisRepository) UpdateBatch(ctx context.Context, input UpdateBatchInput) (*UpdateBatchOutput, error) {
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}
	if len(input.Entries) == 0 {
		return nil, errors.InvalidArgument(errNoEntries)
	}

	entries, err := r.load(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
	}

	for _, update := range input.Entries {
		if update == nil {
			return nil, errors.InvalidArgument(errEntryNil)
		}
		idx, ok := byID[update.ID]
		if !ok {
			return nil, errors.NotFoundf("damage entry %s not found for monster %s", update.ID, input.MonsterID)
		}
		entries[idx] = update
	}

	if err := r.save(ctx, input.MonsterID, entries); err != nil {
		return nil, err
	}

	return &UpdateBatchOutput{Entries: input.Entries}, nil
}

func (r *redisRepository) DeleteBatch(ctx context.Context, input DeleteBatchInput) (*DeleteBatchOutput, error) {
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}
	if len(input.IDs) == 0 {
		return nil, errors.InvalidArgument(errNoIDs)
	}

	entries, err := r.load(ctx, input.MonsterID)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(input.IDs))
	for _, id := range input.IDs {
		drop[id] = false
	}

	remaining := make([]*entities.DamageEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := drop[e.ID]; ok {
			drop[e.ID] = true
			continue
		}
		remaining = append(remaining, e)
	}

	for id, found := range drop {
		if !found {
			return nil, errors.NotFoundf("damage entry %s not found for monster %s", id, input.MonsterID)
		}
	}

	if err := r.save(ctx, input.MonsterID, remaining); err != nil {
		return nil, err
	}

	// nolint:gosec // ledger sizes are small
	return &DeleteBatchOutput{Remaining: int32(len(remaining))}, nil
}

func (r *redisRepository) DeleteByMonster(ctx context.Context, input DeleteByMonsterInput) (*DeleteByMonsterOutput, error) {
	if input.MonsterID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	if err := r.client.Del(ctx, ledgerKey(input.MonsterID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete damage ledger")
	}

	return &DeleteByMonsterOutput{}, nil
}

func (r *redisRepository) load(ctx context.Context, monsterID string) ([]*entities.DamageEntry, error) {
	result, err := r.client.Get(ctx, ledgerKey(monsterID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to load damage ledger")
	}

	var entries []*entities.DamageEntry
	if err := json.Unmarshal([]byte(result), &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal damage ledger")
	}
	return entries, nil
}

func (r *redisRepository) save(ctx context.Context, monsterID string, entries []*entities.DamageEntry) error {
	if len(entries) == 0 {
		if err := r.client.Del(ctx, ledgerKey(monsterID)).Err(); err != nil {
			return errors.Wrapf(err, "failed to clear damage ledger")
		}
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal damage ledger")
	}
	if err := r.client.Set(ctx, ledgerKey(monsterID), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to store damage ledger")
	}
	return nil
}

func ledgerKey(monsterID string) string {
	return ledgerKeyPrefix + monsterID + ledgerKeySuffix
}
