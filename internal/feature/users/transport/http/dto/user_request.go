// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

// UserReq is the request body for /submit, /api/users/add and PUT /api/users/:id.
// Presence is checked by the usecase so that blank values get the same error as missing ones.
type UserReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BulkDeleteReq is the request body for /api/users/bulk-delete.
type BulkDeleteReq struct {
	IDs []uint `json:"ids"`
}
