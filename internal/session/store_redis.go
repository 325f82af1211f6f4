// Copyright (c) 2026 Gavella. All rights reserved.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/constants"
)

// ttlGrace pads the Redis key TTL past the session expiry. The stored
// ExpiresAt is the authoritative validity check; the TTL is garbage
// collection only, and the pad keeps a just-expired row resolvable so the
// service can report SessionExpired instead of NotFound.
const ttlGrace = 24 * time.Hour

// RedisRepository implements the [Repository] interface on Redis.
//
// Layout:
//   - session:id:<sessionID>  -> JSON session record
//   - session:user:<userID>   -> sessionID (secondary index)
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis implementation of the session Repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func sessionKey(id string) string       { return constants.RedisPrefixSession + id }
func userIndexKey(userID string) string { return constants.RedisPrefixUserSession + userID }

func keyTTL(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt) + ttlGrace
	if ttl <= 0 {
		ttl = ttlGrace
	}
	return ttl
}

/*
Create persists a new session record and its user index entry.

Returns:
  - error: Marshalling or connectivity failures
*/
func (repository *RedisRepository) Create(context context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_repo_marshal_failed: %w", err)
	}

	ttl := keyTTL(session.ExpiresAt)

	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(session.ID), payload, ttl)
	pipe.Set(context, userIndexKey(session.UserID), session.ID, ttl)

	if _, err := pipe.Exec(context); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}

/*
FindByID retrieves a session record by its opaque UUID.

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or connectivity failures
*/
func (repository *RedisRepository) FindByID(context context.Context, id string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, apperr.StoreUnavailable(err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_repo_unmarshal_failed: %w", err)
	}

	return session, nil
}

/*
FindByUser retrieves the session bound to a user via the secondary index.

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or connectivity failures
*/
func (repository *RedisRepository) FindByUser(context context.Context, userID string) (*Session, error) {
	sessionID, err := repository.client.Get(context, userIndexKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, apperr.StoreUnavailable(err)
	}

	return repository.FindByID(context, sessionID)
}

/*
UpdateExpiry slides a session's expiry and refreshes the key TTLs.

Returns:
  - error: apperr.NotFound if the session vanished, or connectivity failures
*/
func (repository *RedisRepository) UpdateExpiry(context context.Context, id string, expiresAt time.Time) error {
	session, err := repository.FindByID(context, id)
	if err != nil {
		return err
	}

	session.ExpiresAt = expiresAt
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_repo_marshal_failed: %w", err)
	}

	ttl := keyTTL(expiresAt)

	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(id), payload, ttl)
	pipe.Expire(context, userIndexKey(session.UserID), ttl)

	if _, err := pipe.Exec(context); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}

/*
Delete removes a session record and its user index entry.

Returns:
  - error: apperr.NotFound if already gone, or connectivity failures
*/
func (repository *RedisRepository) Delete(context context.Context, id string) error {
	session, err := repository.FindByID(context, id)
	if err != nil {
		return err
	}

	pipe := repository.client.TxPipeline()
	pipe.Del(context, sessionKey(id))
	pipe.Del(context, userIndexKey(session.UserID))

	if _, err := pipe.Exec(context); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}

/*
DeleteByUser removes the session of a user, if any.

Returns:
  - error: Connectivity failures
*/
func (repository *RedisRepository) DeleteByUser(context context.Context, userID string) error {
	sessionID, err := repository.client.Get(context, userIndexKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return apperr.StoreUnavailable(err)
	}

	pipe := repository.client.TxPipeline()
	pipe.Del(context, sessionKey(sessionID))
	pipe.Del(context, userIndexKey(userID))

	if _, err := pipe.Exec(context); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}

/*
DeleteBySite removes every session belonging to a site.

Description: Sessions are not indexed by site, so this walks the session
keyspace with SCAN. Site deletion is rare and administrative; the O(sessions)
walk is acceptable there.

Returns:
  - error: Connectivity failures
*/
func (repository *RedisRepository) DeleteBySite(context context.Context, siteID string) error {
	iter := repository.client.Scan(context, 0, constants.RedisPrefixSession+"*", 100).Iterator()

	for iter.Next(context) {
		payload, err := repository.client.Get(context, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return apperr.StoreUnavailable(err)
		}

		// A record that no longer parses can never be resolved or expired
		// through the normal paths, so drop it here instead of skipping it.
		// Its user index entry, if any, ages out via the key TTL.
		session := &Session{}
		if err := json.Unmarshal(payload, session); err != nil {
			if err := repository.client.Del(context, iter.Val()).Err(); err != nil {
				return apperr.StoreUnavailable(err)
			}
			continue
		}

		if session.SiteID != siteID {
			continue
		}

		pipe := repository.client.TxPipeline()
		pipe.Del(context, sessionKey(session.ID))
		pipe.Del(context, userIndexKey(session.UserID))
		if _, err := pipe.Exec(context); err != nil {
			return apperr.StoreUnavailable(err)
		}
	}

	if err := iter.Err(); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}
