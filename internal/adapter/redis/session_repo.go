package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/repository"
)

const sessionKeyPrefix = "session:"

// sessionRepository keeps wizard state in Redis, one key per user. The TTL
// doubles as the inactivity timeout: an abandoned flow simply ages out.
type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) repository.SessionRepository {
	return &sessionRepository{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *sessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session for user %d: %w", userID, err)
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session for user %d: %w", userID, err)
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if session == nil || session.UserID == 0 {
		return errors.New("cannot save nil session or session without user")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session for user %d: %w", session.UserID, err)
	}

	if err := r.client.Set(ctx, sessionKey(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session for user %d: %w", session.UserID, err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session for user %d: %w", userID, err)
	}
	return nil
}
