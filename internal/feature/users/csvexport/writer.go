// Package csvexport renders user records as a downloadable CSV file.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"contact_backend/internal/feature/users/domain/entity"
)

// TimeLayout is the created_at format shared by CSV and JSON responses.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the fixed first row of every export.
var Header = []string{"ID", "Name", "Email", "Created At"}

// Write writes the header row followed by one row per user.
func Write(w io.Writer, users []entity.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, u := range users {
		if err := cw.Write(Record(u)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record converts a user into its CSV columns.
func Record(u entity.User) []string {
	return []string{
		strconv.FormatUint(uint64(u.ID), 10),
		u.Name,
		u.Email,
		FormatTime(u),
	}
}

// FormatTime renders CreatedAt in UTC, or "" when unset.
func FormatTime(u entity.User) string {
	if u.CreatedAt.IsZero() {
		return ""
	}
	return u.CreatedAt.UTC().Format(TimeLayout)
}
