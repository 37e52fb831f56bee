package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/partsdesk/partsdesk/pkg/config"
)

const (
	verdictKeyPattern = "guardrail:verdict:%s"
	verdictTTL        = 5 * time.Minute
	redisOpTimeout    = 2 * time.Second
)

// CachedVerdict is the normalized evaluation outcome for one
// (query, response) pair. Mitigation is recomputed on hit; only the
// assessment is cached. Degraded evaluations are never cached.
type CachedVerdict struct {
	IsFlagged      bool     `json:"is_flagged"`
	Confidence     float64  `json:"confidence"`
	Severity       string   `json:"severity"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons"`
}

// VerdictCache keeps recent verdicts in a TTL'd local map with redis
// behind it, so identical exchanges across replicas skip re-evaluation.
// Both tiers expire after verdictTTL. A nil *VerdictCache is valid and
// disables caching.
type VerdictCache struct {
	client *redis.Client
	local  *ttlMap
}

func NewVerdictCache(cfg config.RedisConfig) *VerdictCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &VerdictCache{client: client, local: newTTLMap(verdictTTL)}
}

// NewVerdictCacheWithClient wires an existing client; tests pass a
// redismock client here.
func NewVerdictCacheWithClient(client *redis.Client) *VerdictCache {
	return &VerdictCache{client: client, local: newTTLMap(verdictTTL)}
}

// Key derives the cache key for one exchange.
func Key(userQuery, candidateResponse string) string {
	h := sha256.New()
	h.Write([]byte(userQuery))
	h.Write([]byte{0})
	h.Write([]byte(candidateResponse))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *VerdictCache) Get(ctx context.Context, key string) (*CachedVerdict, bool) {
	if c == nil {
		return nil, false
	}
	if verdict, ok := c.local.get(key); ok {
		return verdict, true
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, fmt.Sprintf(verdictKeyPattern, key)).Result()
	if err != nil {
		return nil, false
	}
	var verdict CachedVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, false
	}
	c.local.set(key, &verdict)
	return &verdict, true
}

func (c *VerdictCache) Set(ctx context.Context, key string, verdict *CachedVerdict) error {
	if c == nil {
		return nil
	}
	c.local.set(key, verdict)

	raw, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, fmt.Sprintf(verdictKeyPattern, key), raw, verdictTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}
