package redisstore

import (
	"context"
	"errors"
	"time"

	"fxalert-service/internal/application"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultLockKey = "fxalert:check:lock"

// releaseScript deletes the key only while it still holds our token, so an
// invocation whose lock already expired cannot free a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

var ErrLockLost = errors.New("invocation lock expired before release")

// Lock is a single-key invocation lock with a TTL.
type Lock struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

var _ application.InvocationLock = (*Lock)(nil)

func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	if key == "" {
		key = DefaultLockKey
	}
	return &Lock{Client: client, Key: key, TTL: ttl}
}

func (l *Lock) TryAcquire(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, l.Key, token, l.TTL).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.Client, []string{l.Key}, token).Int64()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLockLost
		}
		return nil
	}
	return release, true, nil
}
