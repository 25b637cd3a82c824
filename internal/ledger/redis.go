package ledger

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otu:"

// putScript creates the hash only when absent, applying the TTL in the same
// atomic step.
var putScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'used', '0', 'subject_id', ARGV[1], 'resource_id', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// casScript is the replay-prevention compare-and-set: -1 missing, 0 already
// used, 1 flipped by this caller.
var casScript = redis.NewScript(`
local used = redis.call('HGET', KEYS[1], 'used')
if used == false then
  return -1
end
if used == '1' then
  return 0
end
redis.call('HSET', KEYS[1], 'used', '1', 'used_at', ARGV[1])
return 1
`)

// RedisStore implements Store on a shared Redis instance, giving the
// mark-used CAS global atomicity across service replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, credentialID string, rec Record, ttl time.Duration) error {
	res, err := putScript.Run(ctx, s.client, []string{keyPrefix + credentialID},
		rec.SubjectID, rec.ResourceID, ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if res == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, credentialID string) (Record, error) {
	vals, err := s.client.HGetAll(ctx, keyPrefix+credentialID).Result()
	if err != nil {
		return Record{}, err
	}
	if len(vals) == 0 {
		return Record{}, ErrNotFound
	}

	rec := Record{
		Used:       vals["used"] == "1",
		SubjectID:  vals["subject_id"],
		ResourceID: vals["resource_id"],
	}
	if raw, ok := vals["used_at"]; ok && raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			rec.UsedAt = &t
		}
	}
	return rec, nil
}

func (s *RedisStore) MarkUsedIfUnused(ctx context.Context, credentialID string, at time.Time) (bool, error) {
	res, err := casScript.Run(ctx, s.client, []string{keyPrefix + credentialID},
		at.UTC().Format(time.RFC3339Nano)).Int()
	if err != nil {
		return false, err
	}
	switch res {
	case -1:
		return false, ErrNotFound
	case 0:
		return false, nil
	default:
		return true, nil
	}
}
