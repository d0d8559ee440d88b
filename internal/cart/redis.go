package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

// Carts are kept for 30 days of inactivity, long enough to survive reloads
// and return visits.
const cartTTL = 30 * 24 * time.Hour

// RedisStore persists cart line sets in Redis, one key per session.
type RedisStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, logger: log}
}

func (s *RedisStore) cartKey(key string) string {
	return "cart:" + key
}

// Load reads the saved line set. A missing key yields an empty cart. An
// unparseable payload also yields an empty cart rather than failing startup;
// the corrupt value is logged and overwritten on the next mutation.
func (s *RedisStore) Load(ctx context.Context, key string) ([]models.CartLine, error) {
	raw, err := s.client.Get(ctx, s.cartKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines, err := decodeLines(raw)
	if err != nil {
		s.logger.Warn("cart_payload_corrupt", "Discarding unparseable saved cart", "", map[string]interface{}{
			"cart_key": key,
			"size":     len(raw),
		})
		return nil, nil
	}
	return lines, nil
}

// decodeLines parses a persisted line set. Callers reset to an empty cart on
// error rather than failing the session.
func decodeLines(raw []byte) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Save rewrites the full line set for the key.
func (s *RedisStore) Save(ctx context.Context, key string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.cartKey(key), raw, cartTTL).Err()
}
