package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

const (
	scopeKeyPrefix   = "refresh:scope:"
	sessionKeyPrefix = "refresh:session:"

	flagNeedsRefresh     = "1"
	flagAlreadyRefreshed = "0"
)

// KEYS[1] scope hash, KEYS[2] session key, ARGV[1] screen, ARGV[2] ttl ms.
// Returns -1 for an unknown session, 1 when the claim succeeded, 0 otherwise.
var claimScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
  return -1
end
local ttl = tonumber(ARGV[2])
local state = redis.call('HGET', KEYS[1], ARGV[1])
local claimed = 0
if state ~= '0' then
  redis.call('HSET', KEYS[1], ARGV[1], '0')
  claimed = 1
end
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
  redis.call('PEXPIRE', KEYS[2], ttl)
end
return claimed
`)

// KEYS[1] scope hash, KEYS[2] session key, ARGV[1] ttl ms.
var resetScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
  return -1
end
local ttl = tonumber(ARGV[1])
local screens = redis.call('HKEYS', KEYS[1])
for _, screen in ipairs(screens) do
  redis.call('HSET', KEYS[1], screen, '1')
end
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
  redis.call('PEXPIRE', KEYS[2], ttl)
end
return #screens
`)

// RefreshRepository stores refresh scopes in Redis so every gateway replica
// sees the same screen states. Claim and reset run as Lua scripts.
type RefreshRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshRepository constructs the Redis scope store.
func NewRefreshRepository(client *redis.Client, ttl time.Duration) *RefreshRepository {
	return &RefreshRepository{client: client, ttl: ttl}
}

func scopeKey(id string) string   { return scopeKeyPrefix + id }
func sessionKey(id string) string { return sessionKeyPrefix + id }

// Open creates or replaces the scope for session, seeded with screens.
func (r *RefreshRepository) Open(ctx context.Context, session models.Session, screens []string) error {
	session.Screens = nil
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}

	fields := make(map[string]interface{}, len(screens))
	for _, screen := range screens {
		fields[screen] = flagNeedsRefresh
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, scopeKey(session.ID))
		if len(fields) > 0 {
			pipe.HSet(ctx, scopeKey(session.ID), fields)
			if r.ttl > 0 {
				pipe.PExpire(ctx, scopeKey(session.ID), r.ttl)
			}
		}
		pipe.Set(ctx, sessionKey(session.ID), payload, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("open refresh scope %s: %w", session.ID, err)
	}
	return nil
}

// Get returns the session with a snapshot of its screens.
func (r *RefreshRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}

	flags, err := r.client.HGetAll(ctx, scopeKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read scope %s: %w", id, err)
	}
	session.Screens = make(map[string]refresh.State, len(flags))
	for screen, flag := range flags {
		if flag == flagAlreadyRefreshed {
			session.Screens[screen] = refresh.AlreadyRefreshed
		} else {
			session.Screens[screen] = refresh.NeedsRefresh
		}
	}
	return &session, nil
}

// Claim consumes the refresh authorisation of screen.
func (r *RefreshRepository) Claim(ctx context.Context, id, screen string) (bool, error) {
	result, err := claimScript.Run(ctx, r.client, []string{scopeKey(id), sessionKey(id)}, screen, r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("claim %s on scope %s: %w", screen, id, err)
	}
	if result < 0 {
		return false, appErrors.ErrSessionNotFound
	}
	return result == 1, nil
}

// Reset marks every screen of the scope as needing a refresh.
func (r *RefreshRepository) Reset(ctx context.Context, id string) error {
	result, err := resetScript.Run(ctx, r.client, []string{scopeKey(id), sessionKey(id)}, r.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("reset scope %s: %w", id, err)
	}
	if result < 0 {
		return appErrors.ErrSessionNotFound
	}
	return nil
}

// Close destroys the scope.
func (r *RefreshRepository) Close(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, sessionKey(id), scopeKey(id)).Result()
	if err != nil {
		return fmt.Errorf("close scope %s: %w", id, err)
	}
	if removed == 0 {
		return appErrors.ErrSessionNotFound
	}
	return nil
}
