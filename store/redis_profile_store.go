package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type RedisProfileStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisProfileStore(redisClient *RedisClient, ttl time.Duration) *RedisProfileStore {
	if ttl <= 0 {
		ttl = 90 * 24 * time.Hour
	}

	return &RedisProfileStore{
		client: redisClient,
		ttl:    ttl,
	}
}

// GetProfile returns an empty profile for chats that never saved one.
func (s *RedisProfileStore) GetProfile(ctx context.Context, chatID int64) (types.Profile, error) {
	key := s.client.generateKey("profile", strconv.FormatInt(chatID, 10))
	var p types.Profile
	if err := s.client.Get(ctx, key, &p); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Profile{ChatID: chatID}, nil
		}
		return types.Profile{ChatID: chatID}, err
	}
	p.ChatID = chatID
	return p, nil
}

func (s *RedisProfileStore) SaveProfile(ctx context.Context, p types.Profile) error {
	key := s.client.generateKey("profile", strconv.FormatInt(p.ChatID, 10))
	p.UpdatedAt = time.Now().UTC()
	return s.client.Set(ctx, key, p, s.ttl)
}
