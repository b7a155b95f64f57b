// Package cache is a read-through redis cache for the public course
// catalog. A nil *Catalog is a no-op, so redis stays optional.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/educode-dev/educode-backend/internal/content"
)

const catalogTTL = 5 * time.Minute

type Catalog struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewCatalog(addr, password string, log *zap.Logger) (*Catalog, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Catalog{rdb: rdb, log: log}, nil
}

func (c *Catalog) key(f content.CourseFilter) string {
	return fmt.Sprintf("catalog:%d:%d:%d", f.CategoryID, f.Limit, f.Offset)
}

// Get returns the cached page for the filter, or ok=false on miss.
// Cache faults degrade to a miss.
func (c *Catalog) Get(ctx context.Context, f content.CourseFilter) ([]content.Course, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(f)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("catalog cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var out []content.Course
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Catalog) Set(ctx context.Context, f content.CourseFilter, courses []content.Course) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(f), raw, catalogTTL).Err(); err != nil {
		c.log.Warn("catalog cache set failed", zap.Error(err))
	}
}

// Invalidate drops every cached catalog page; called after course writes.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "catalog:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("catalog cache scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("catalog cache invalidate failed", zap.Error(err))
		}
	}
}
