package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ScoreCache stores score breakdowns under
// <prefix>score:<model version>:<xxhash64(smiles)>.  The SMILES is kept in
// the value and compared on read, so a hash collision reads as a miss.
type ScoreCache struct {
	client *Client
	logger logging.Logger
	prefix string
	jitter float64
}

// CacheOption configures a ScoreCache.
type CacheOption func(*ScoreCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *ScoreCache) { c.prefix = prefix }
}

// WithJitter spreads expirations by ±fraction of the TTL.
func WithJitter(fraction float64) CacheOption {
	return func(c *ScoreCache) { c.jitter = fraction }
}

func NewScoreCache(client *Client, log logging.Logger, opts ...CacheOption) *ScoreCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ScoreCache{
		client: client,
		logger: log,
		prefix: "sascore:",
		jitter: 0.1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cachedScore struct {
	SMILES    string            `json:"smiles"`
	Breakdown *domain.Breakdown `json:"breakdown"`
}

func (c *ScoreCache) key(modelVersion, smiles string) string {
	return c.versionPrefix(modelVersion) + strconv.FormatUint(xxhash.Sum64String(smiles), 16)
}

func (c *ScoreCache) versionPrefix(modelVersion string) string {
	return c.prefix + "score:" + modelVersion + ":"
}

func (c *ScoreCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || c.jitter <= 0 {
		return ttl
	}
	delta := float64(ttl) * c.jitter * (rand.Float64()*2 - 1)
	return ttl + time.Duration(delta)
}

// Get returns the cached breakdown for smiles under modelVersion.
func (c *ScoreCache) Get(ctx context.Context, modelVersion, smiles string) (*domain.Breakdown, bool, error) {
	data, err := c.client.Get(ctx, c.key(modelVersion, smiles)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to get score from cache")
	}
	var entry cachedScore
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached score")
	}
	if entry.SMILES != smiles || entry.Breakdown == nil {
		return nil, false, nil
	}
	return entry.Breakdown, true, nil
}

// Set caches b for ttl, spread by the configured jitter.
func (c *ScoreCache) Set(ctx context.Context, modelVersion, smiles string, b *domain.Breakdown, ttl time.Duration) error {
	data, err := json.Marshal(cachedScore{SMILES: smiles, Breakdown: b})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode score")
	}
	if err := c.client.Set(ctx, c.key(modelVersion, smiles), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to cache score")
	}
	return nil
}

// InvalidateModel removes every score cached under modelVersion.
func (c *ScoreCache) InvalidateModel(ctx context.Context, modelVersion string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.versionPrefix(modelVersion) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cached scores")
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cached scores")
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		c.logger.Info("invalidated cached scores",
			logging.String("model_version", modelVersion), logging.Int64("deleted", deleted))
	}
	return deleted, nil
}

//Personal.AI order the ending
