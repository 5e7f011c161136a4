// Command viewdb prints the users table of the SQLite database.
// The file is opened read-only, so it is safe to run next to a live server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"

	"contact_backend/internal/config"
	usersadapters "contact_backend/internal/feature/users/adapters"
	"contact_backend/internal/platform/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("failed to load config: %v", err)
	}

	path := flag.String("db", cfg.DB.Path, "path to the SQLite database file")
	flag.Parse()

	dbc := cfg.Database()
	dbc.Path = *path
	dbc.ReadOnly = true

	// 通常の出力を邪魔しないようにログは警告以上のみ
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	gdb, err := db.Open(dbc)
	if err != nil {
		fatalf("failed to open %s: %v", *path, err)
	}
	defer func() { _ = db.Close(gdb) }()

	if err := run(gdb, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func run(gdb *gorm.DB, w io.Writer) error {
	var rows []usersadapters.UserModel
	if err := gdb.Order("id").Find(&rows).Error; err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	printTable(w, rows)
	return nil
}

func printTable(w io.Writer, rows []usersadapters.UserModel) {
	fmt.Fprintln(w, "Database Contents:")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "%-5s | %-20s | %-30s\n", "ID", "Name", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No data found in database")
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-5d | %-20s | %-30s\n", r.ID, r.Name, r.Email)
	}

	fmt.Fprintf(w, "\nTotal records: %d\n", len(rows))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "viewdb: "+format+"\n", args...)
	os.Exit(1)
}
