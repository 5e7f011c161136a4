// Package entity defines the domain models for the users feature.
package entity

import "time"

// User is a single contact record collected from the public form or
// entered through the admin dashboard.
type User struct {
	ID        uint
	Name      string
	Email     string
	CreatedAt time.Time
}
