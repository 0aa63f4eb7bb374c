package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/danthegoodman1/icefooter/part"
	"github.com/danthegoodman1/icefooter/utils"
)

const (
	partsKey    = "parts"
	partKeysKey = "part_keys"
)

type (
	RedisMetaStore struct {
		client *redis.Client
	}
)

func NewRedisMetaStore(ctx context.Context, pingTest bool) (*RedisMetaStore, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("connecting to redis metastore")
	rms := NewRedisMetaStoreWithClient(redis.NewClient(&redis.Options{
		Addr:        utils.REDIS_ADDR,
		Password:    utils.REDIS_PASSWORD,
		DB:          0,
		DialTimeout: time.Second * 3,
	}))

	// Ping test first to ensure valid connection
	if pingTest {
		logger.Debug().Msg("running redis ping test")
		s := time.Now()
		_, err := rms.client.Ping(ctx).Result()
		if err != nil {
			rms.client.Close()
			return nil, fmt.Errorf("error pinging redis: %w", err)
		}
		logger.Debug().Msgf("redis ping test successful in %s", time.Since(s))
	}

	return rms, nil
}

func NewRedisMetaStoreWithClient(client *redis.Client) *RedisMetaStore {
	return &RedisMetaStore{client: client}
}

func (rms *RedisMetaStore) PutPart(ctx context.Context, p part.Part) error {
	logger := zerolog.Ctx(ctx)
	partJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("error json.Marshal(part): %w", err)
	}

	// Claim the key first so two parts never point at one file
	claimed, err := rms.client.HSetNX(ctx, partKeysKey, p.Key, p.ID).Result()
	if err != nil {
		return fmt.Errorf("error in redis HSETNX on keys: %w", err)
	}
	if !claimed {
		return fmt.Errorf("%w: key %s", ErrPartExists, p.Key)
	}

	created, err := rms.client.HSetNX(ctx, partsKey, p.ID, string(partJSON)).Result()
	if err != nil {
		return fmt.Errorf("error in redis HSETNX on parts: %w", err)
	}
	if !created {
		rms.client.HDel(ctx, partKeysKey, p.Key)
		return fmt.Errorf("%w: id %s", ErrPartExists, p.ID)
	}

	logger.Debug().Str("partID", p.ID).Str("key", p.Key).Int("footerBytes", len(p.Footer)).Msg("stored part")
	return nil
}

func (rms *RedisMetaStore) GetPart(ctx context.Context, id string) (part.Part, error) {
	_, p, err := rms.getPart(ctx, id)
	return p, err
}

// getPart also returns the stored JSON for compare and swap.
func (rms *RedisMetaStore) getPart(ctx context.Context, id string) (string, part.Part, error) {
	p := part.Part{}
	rawJSON, err := rms.client.HGet(ctx, partsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return "", p, fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}
	if err != nil {
		return "", p, fmt.Errorf("error in redis HGET: %w", err)
	}

	err = json.Unmarshal([]byte(rawJSON), &p)
	if err != nil {
		return "", p, fmt.Errorf("error in json.Unmarshal: %w", err)
	}
	return rawJSON, p, nil
}

func (rms *RedisMetaStore) ListParts(ctx context.Context, keyPrefix string) ([]part.Part, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msgf("listing parts with key prefix %q", keyPrefix)

	var cursorPos uint64 = 0
	var returnedCursor uint64 = 1
	parts := make([]part.Part, 0)

	// Loop until we have all the results
	for returnedCursor != 0 {
		logger.Debug().Msgf("running redis HSCAN with cursor %d", cursorPos)
		rawParts, newCursor, err := rms.client.HScan(ctx, partsKey, cursorPos, "", 0).Result()
		if err != nil {
			return nil, fmt.Errorf("error in redis HSCAN: %w", err)
		}

		// HSCAN returns a flat list of field, value pairs
		for i := 0; i+1 < len(rawParts); i += 2 {
			partID, rawJSON := rawParts[i], rawParts[i+1]
			p := part.Part{}
			err = json.Unmarshal([]byte(rawJSON), &p)
			if err != nil {
				return nil, fmt.Errorf("error unmarshalling part ID '%s': %w", partID, err)
			}
			if matchesPrefix(p, keyPrefix) {
				parts = append(parts, p)
			}
		}

		returnedCursor = newCursor
		cursorPos = newCursor
	}

	sort.Slice(parts, func(i, j int) bool {
		return parts[i].Key < parts[j].Key
	})
	return parts, nil
}

// disablePartScript swaps the part record only if it is unchanged since it
// was read, and releases the key claim only while the claim is still held by
// this part.
var disablePartScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) ~= ARGV[2] then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[3])
if redis.call("HGET", KEYS[2], ARGV[4]) == ARGV[1] then
	redis.call("HDEL", KEYS[2], ARGV[4])
end
return 1
`)

const disableAttempts = 3

// DisablePart marks a part dead and frees its key. Disabling a dead part is a
// no-op, so it never touches a claim made by a newer part for the same key.
func (rms *RedisMetaStore) DisablePart(ctx context.Context, id string) error {
	for attempt := 0; attempt < disableAttempts; attempt++ {
		rawJSON, p, err := rms.getPart(ctx, id)
		if err != nil {
			return err
		}
		if !p.Alive {
			return nil
		}
		p.Alive = false
		partJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("error json.Marshal(part): %w", err)
		}

		swapped, err := disablePartScript.Run(ctx, rms.client, []string{partsKey, partKeysKey}, id, rawJSON, string(partJSON), p.Key).Int()
		if err != nil {
			return fmt.Errorf("error in redis disable part script: %w", err)
		}
		if swapped == 1 {
			return nil
		}
		zerolog.Ctx(ctx).Debug().Str("partID", id).Int("attempt", attempt).Msg("part changed while disabling, retrying")
	}
	return fmt.Errorf("%w: part %s kept changing", ErrDisableConflict, id)
}

func (rms *RedisMetaStore) Shutdown(_ context.Context) error {
	err := rms.client.Close()
	if err != nil {
		return fmt.Errorf("error closing redis client: %w", err)
	}
	return nil
}
