package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	usersadapters "contact_backend/internal/feature/users/adapters"
)

// Migrate creates the users table when it is missing and upgrades tables
// created before created_at existed. The column upgrade is best effort: a
// failure is logged and startup continues.
func Migrate(gdb *gorm.DB) error {
	m := gdb.Migrator()
	model := &usersadapters.UserModel{}

	if !m.HasTable(model) {
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
		return nil
	}

	if !m.HasColumn(model, "created_at") {
		addCreatedAt(gdb)
	}
	return nil
}

// addCreatedAt adds the column without a default, since SQLite refuses
// non-constant defaults in ALTER TABLE, then stamps existing rows.
func addCreatedAt(gdb *gorm.DB) {
	if err := gdb.Exec("ALTER TABLE users ADD COLUMN created_at TIMESTAMP").Error; err != nil {
		slog.Warn("users.created_at migration skipped", "error", err)
		return
	}
	res := gdb.Exec("UPDATE users SET created_at = CURRENT_TIMESTAMP WHERE created_at IS NULL")
	if res.Error != nil {
		slog.Warn("users.created_at backfill failed", "error", res.Error)
		return
	}
	slog.Info("users.created_at column added", "backfilled", res.RowsAffected)
}
