// SPDX-License-Identifier: ice License 1.0

package cache

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	appcfg "github.com/ae2i/recruiting/config"
	"github.com/ae2i/recruiting/log"
)

func MustConnect(ctx context.Context, applicationYAMLKey string) DB {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RecruitingCache.URL == "" {
		log.Panic(errors.New("cache url is required"))
	}
	opts, err := redis.ParseURL(cfg.RecruitingCache.URL)
	log.Panic(err) //nolint:revive // That's intended.
	if opts.Username == "" {
		opts.Username = cfg.RecruitingCache.Credentials.User
	}
	if opts.Password == "" {
		opts.Password = cfg.RecruitingCache.Credentials.Password
	}
	opts.ClientName = applicationYAMLKey
	opts.MaxRetries = 25
	opts.MinRetryBackoff = 10 * stdlibtime.Millisecond
	opts.MaxRetryBackoff = 1 * stdlibtime.Second
	opts.ContextTimeoutEnabled = true
	opts.PoolFIFO = true
	client := redis.NewClient(opts)
	result, err := client.Ping(ctx).Result()
	log.Panic(err)
	if result != "PONG" {
		log.Panic(errors.Errorf("unexpected ping response: %v", result))
	}

	return client
}

// SetValue stores a msgpack-encoded value under the given key, with a TTL.
func SetValue(ctx context.Context, db DB, key string, value any, ttl stdlibtime.Duration) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to msgpack %#v", value)
	}

	return errors.Wrapf(db.Set(ctx, key, encoded, ttl).Err(), "failed to set %v", key)
}

// TakeValue atomically fetches and deletes the value under the given key, decoding it into `into`.
// It returns false when the key does not exist, which makes stored values strictly one-shot.
func TakeValue(ctx context.Context, db DB, key string, into any) (bool, error) {
	encoded, err := db.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, errors.Wrapf(err, "failed to getdel %v", key)
	}

	return true, errors.Wrapf(msgpack.Unmarshal(encoded, into), "failed to decode value of %v", key)
}

// Increment bumps a counter key and refreshes its TTL, returning the new value.
func Increment(ctx context.Context, db DB, key string, ttl stdlibtime.Duration) (int64, error) {
	count, err := db.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to incr %v", key)
	}
	if err = db.Expire(ctx, key, ttl).Err(); err != nil {
		return count, errors.Wrapf(err, "failed to refresh ttl of %v", key)
	}

	return count, nil
}
