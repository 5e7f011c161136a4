// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"contact_backend/internal/feature/users/domain/entity"
	"contact_backend/internal/feature/users/usecase"
)

const (
	// DefaultTTL is used when no positive TTL is configured.
	DefaultTTL = 5 * time.Minute
	// DefaultNamespace prefixes every key written by CachingUserRepository.
	DefaultNamespace = "users"

	scanCount = 200
)

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// CachingUserRepository decorates a UserRepository with Redis caching of list results.
// Writes go straight to the inner repository and then drop every cached list.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingUserRepository wraps inner. A nil rdb disables caching entirely.
// If ttl is 0 or negative it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns users from the cache when present, otherwise from the inner repository.
func (c *CachingUserRepository) List(ctx context.Context, sort entity.Sort) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, sort)
	}

	key := c.listKey(sort)

	// 1) キャッシュ確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) DBへフォールバック
	out, err := c.inner.List(ctx, sort)
	if err != nil {
		return nil, err
	}

	// 3) キャッシュへ保存（ベストエフォート）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Create inserts the user and invalidates cached lists.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := c.inner.Create(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update overwrites the user and invalidates cached lists.
func (c *CachingUserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := c.inner.Update(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes the user and invalidates cached lists.
func (c *CachingUserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	n, err := c.inner.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return n, nil
}

// DeleteByIDs removes the users and invalidates cached lists.
func (c *CachingUserRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	n, err := c.inner.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return n, nil
}

// invalidate drops every cached list. Failures are logged, never returned.
func (c *CachingUserRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("user cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

// listKey generates the cache key for one sort order.
func (c *CachingUserRepository) listKey(sort entity.Sort) string {
	return fmt.Sprintf("%s:list:%s:%s",
		c.namespace,
		safe(string(sort.Field)),
		safe(string(sort.Order)),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingUserRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
