// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/skinsight/internal/platform/constants"
)

// CachedClient is a Redis read-through layer over a [Client].
//
// # Scope
//
// Only advisory prompts go through this wrapper. They are a small, fixed set
// (one per condition class), so identical detections within the TTL reuse
// the generated advice instead of re-billing the model. Free-form chat is
// never cached.
//
// The cache is best effort: Redis failures are logged and the request falls
// through to the inner client.
type CachedClient struct {
	inner  Client
	redis  *redis.Client
	logger *slog.Logger
}

// NewCachedClient wraps inner with a Redis advisory cache.
func NewCachedClient(inner Client, redisClient *redis.Client, logger *slog.Logger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		redis:  redisClient,
		logger: logger,
	}
}

// Generate returns the cached completion for the prompt, or generates and
// stores one.
func (cached *CachedClient) Generate(context context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	if text, err := cached.redis.Get(context, key).Result(); err == nil && text != "" {
		return text, nil
	} else if err != nil && err != redis.Nil {
		cached.logger.Warn("advisory cache read failed", slog.String("error", err.Error()))
	}

	text, err := cached.inner.Generate(context, prompt)
	if err != nil {
		return "", err
	}

	if err := cached.redis.Set(context, key, text, constants.AdvisoryCacheTTL).Err(); err != nil {
		cached.logger.Warn("advisory cache write failed", slog.String("error", err.Error()))
	}

	return text, nil
}

// cacheKey derives a stable Redis key from the prompt text.
func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return constants.RedisPrefixAdvisory + hex.EncodeToString(sum[:])
}
