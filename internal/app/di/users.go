// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	usersadapters "contact_backend/internal/feature/users/adapters"
	"contact_backend/internal/feature/users/usecase"
	"contact_backend/internal/platform/cache"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, list queries are cached in it. Otherwise the
// database repository is returned as is.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.UserRepository {
	repo := usersadapters.NewUserSQLite(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingUserRepository(rdb, ttl, repo, cache.DefaultNamespace)
}
