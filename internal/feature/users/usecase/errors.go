package usecase

import "errors"

var (
	// ErrMissingFields は空白除去後の名前またはメールアドレスが空のときに返されます。
	ErrMissingFields = errors.New("name and email are required")

	// ErrUserNotFound は存在しないIDを更新しようとしたときに返されます。
	ErrUserNotFound = errors.New("user not found")

	// ErrNoUserIDs は空のIDリストで一括削除を要求したときに返されます。
	ErrNoUserIDs = errors.New("no user ids provided")
)
