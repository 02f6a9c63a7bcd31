package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/transmem/internal/match"
	"github.com/sirupsen/logrus"
)

const (
	matchTTL = 10 * time.Minute

	tmEpochKey = "match:epoch:tm"
)

func projectEpochKey(projectID string) string {
	return "match:epoch:project:" + projectID
}

// MatchCache keeps exact-match lookup results in redis. Keys embed a per
// project epoch and a TM-wide epoch; invalidation bumps an epoch instead of
// scanning keys. Every method fails soft: a broken cache degrades to a store
// lookup, never to an error.
type MatchCache struct {
	redis *Redis
}

func NewMatchCache(redis *Redis) *MatchCache {
	return &MatchCache{redis: redis}
}

func (m *MatchCache) key(ctx context.Context, projectID, srcHash string) (string, error) {
	tmEpoch, err := m.redis.GetInt(ctx, tmEpochKey)
	if err != nil {
		return "", err
	}
	projectEpoch, err := m.redis.GetInt(ctx, projectEpochKey(projectID))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("match:100:%d:%d:%s:%s", tmEpoch, projectEpoch, projectID, srcHash), nil
}

func (m *MatchCache) Get(ctx context.Context, projectID, srcHash string) (*match.Result, bool) {
	if m == nil || m.redis == nil {
		return nil, false
	}

	key, err := m.key(ctx, projectID, srcHash)
	if err != nil {
		logrus.Warnf("match cache unavailable: %v", err)
		return nil, false
	}

	var result match.Result
	ok, err := m.redis.Get(ctx, key, &result)
	if err != nil {
		logrus.Warnf("match cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	return &result, true
}

func (m *MatchCache) Set(ctx context.Context, projectID, srcHash string, result *match.Result) {
	if m == nil || m.redis == nil {
		return
	}

	key, err := m.key(ctx, projectID, srcHash)
	if err != nil {
		return
	}
	if err := m.redis.Set(ctx, key, result, matchTTL); err != nil {
		logrus.Warnf("match cache write failed: %v", err)
	}
}

// InvalidateProject drops the cached lookups of one project, used after
// segment writes.
func (m *MatchCache) InvalidateProject(ctx context.Context, projectID string) {
	if m == nil || m.redis == nil {
		return
	}
	if err := m.redis.Incr(ctx, projectEpochKey(projectID)); err != nil {
		logrus.Warnf("match cache invalidation failed: %v", err)
	}
}

// InvalidateTMs drops every cached lookup, used after TM imports and commits
// which may leak into any project mounting the changed TM.
func (m *MatchCache) InvalidateTMs(ctx context.Context) {
	if m == nil || m.redis == nil {
		return
	}
	if err := m.redis.Incr(ctx, tmEpochKey); err != nil {
		logrus.Warnf("match cache invalidation failed: %v", err)
	}
}
