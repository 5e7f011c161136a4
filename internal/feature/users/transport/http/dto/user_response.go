package dto

// UserItem is one row of the admin user list.
type UserItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserListRes is the response body of GET /api/users.
type UserListRes struct {
	Users []UserItem `json:"users"`
	Count int        `json:"count"`
}

// ResultRes is the {success, message} envelope returned by admin mutations and errors.
type ResultRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
