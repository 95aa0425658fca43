// Copyright (c) 2026 CyberLearn. All rights reserved.
// Author: platform@cyberlearn.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cyberlearn/api/internal/platform/apperr"
	"github.com/cyberlearn/api/internal/platform/constants"
	"github.com/cyberlearn/api/internal/platform/sec"
)

// # Session Store

// RedisSessionStore implements SessionStore on a single Redis key per token.
//
// The serialized identity lives under auth:session:<token>. A SET with TTL is
// atomic, which gives the store its crash consistency: no reader ever sees a
// partially written identity.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore.
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(token string) string {
	return constants.RedisPrefixSession + token
}

/*
Get reads and deserializes the identity slot for a token.

Description: Records persisted before the level/xp fields existed still load;
the missing values default to level 1 with 0 XP so downstream progression
computations never observe an invalid identity.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Identity: Deserialized session record
  - error: apperr.NotFound when the slot is empty or expired
*/
func (store *RedisSessionStore) Get(context context.Context, token string) (*Identity, error) {
	payload, err := store.client.Get(context, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	identity := &Identity{}
	if err := json.Unmarshal(payload, identity); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	if identity.Level < 1 {
		identity.Level = 1
	}
	if identity.XP < 0 {
		identity.XP = 0
	}

	return identity, nil
}

/*
Set serializes the identity into the token's slot with a TTL.

Description: One atomic SET replaces whatever the slot held before. There is
no merge: the last sign-in wins, exactly once the write lands.

Parameters:
  - context: context.Context
  - token: string
  - identity: *Identity
  - ttl: time.Duration

Returns:
  - error: Serialization or persistence failures
*/
func (store *RedisSessionStore) Set(context context.Context, token string, identity *Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, sessionKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Clear deletes the token's slot.

Description: DEL on an absent key is a no-op in Redis, which makes sign-out
idempotent for free.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Persistence failures
*/
func (store *RedisSessionStore) Clear(context context.Context, token string) error {
	if err := store.client.Del(context, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w", err)
	}
	return nil
}

/*
Resolve maps a session token to the guard's principal view.

Description: Implements the middleware's session resolver contract. An absent
or expired slot resolves to (nil, nil): the request proceeds anonymously and
the guard turns that into a login redirect.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.Principal: Minimal identity view, nil for anonymous
  - error: Connectivity failures only
*/
func (store *RedisSessionStore) Resolve(context context.Context, token string) (*sec.Principal, error) {
	identity, err := store.Get(context, token)
	if err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}

	return identity.Principal(), nil
}

// # Reset Token Repository

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(token string) string {
	return constants.RedisPrefixResetToken + token
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, resetTokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, resetTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}
	return nil
}
