// Package usecase はusersフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"context"
	"strings"

	"contact_backend/internal/feature/users/domain/entity"
)

// MutationObserverに通知する書き込み操作名
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpBulkDelete = "bulk_delete"
)

// UserRepository はユーザーレコードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは提供側(adapters)ではなく利用側(usecase)で定義します。
type UserRepository interface {
	// List は指定された並び順で全ユーザーを返します。
	List(ctx context.Context, sort entity.Sort) ([]entity.User, error)
	// Create はユーザーを追加し、IDとCreatedAtを書き戻します。
	Create(ctx context.Context, user *entity.User) error
	// Update は既存ユーザーの名前とメールアドレスを上書きします。
	// user.IDに該当する行がなければErrUserNotFoundを返します。
	Update(ctx context.Context, user *entity.User) error
	// Delete はユーザーを1件削除し、削除件数を返します。存在しないIDはエラーではありません。
	Delete(ctx context.Context, id uint) (int64, error)
	// DeleteByIDs は指定された全ユーザーを1つの文で削除し、削除件数を返します。
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// MutationObserver は書き込みが成功するたびに通知を受け取ります。
type MutationObserver interface {
	ObserveMutation(op string, rows int64)
}

// UserUsecase はお問い合わせフォームと管理画面の操作を提供します。
type UserUsecase struct {
	repo     UserRepository
	observer MutationObserver
}

// Option はUserUsecaseの設定を変更します。
type Option func(*UserUsecase)

// WithMutationObserver は書き込み成功時の通知先を登録します。
func WithMutationObserver(o MutationObserver) Option {
	return func(u *UserUsecase) {
		u.observer = o
	}
}

// NewUserUsecase は指定されたリポジトリでUserUsecaseを生成します。
func NewUserUsecase(repo UserRepository, opts ...Option) *UserUsecase {
	u := &UserUsecase{repo: repo}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ListUsers は要求された並び順で全ユーザーを返します（ページングなし）。
func (u *UserUsecase) ListUsers(ctx context.Context, sort entity.Sort) ([]entity.User, error) {
	return u.repo.List(ctx, sort)
}

// AddUser は入力を検証して新しいユーザーを保存します。
func (u *UserUsecase) AddUser(ctx context.Context, name, email string) (*entity.User, error) {
	name, email, err := normalize(name, email)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Name: name, Email: email}
	if err := u.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	u.observe(OpCreate, 1)
	return user, nil
}

// UpdateUser は既存ユーザーの名前とメールアドレスを上書きします。
func (u *UserUsecase) UpdateUser(ctx context.Context, id uint, name, email string) error {
	name, email, err := normalize(name, email)
	if err != nil {
		return err
	}

	if err := u.repo.Update(ctx, &entity.User{ID: id, Name: name, Email: email}); err != nil {
		return err
	}
	u.observe(OpUpdate, 1)
	return nil
}

// DeleteUser はユーザーを1件削除します。存在しないIDの削除も成功扱いです。
func (u *UserUsecase) DeleteUser(ctx context.Context, id uint) error {
	n, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	u.observe(OpDelete, n)
	return nil
}

// BulkDeleteUsers は指定された全ユーザーを削除し、削除件数を返します。
func (u *UserUsecase) BulkDeleteUsers(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoUserIDs
	}

	n, err := u.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	u.observe(OpBulkDelete, n)
	return n, nil
}

// ExportUsers はCSVダウンロード用にID昇順で全ユーザーを返します。
func (u *UserUsecase) ExportUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.List(ctx, entity.Sort{Field: entity.SortByID, Order: entity.OrderAsc})
}

// observe は実際に行が変化したときだけ通知します。
func (u *UserUsecase) observe(op string, rows int64) {
	if u.observer != nil && rows > 0 {
		u.observer.ObserveMutation(op, rows)
	}
}

// normalize は両フィールドの前後の空白を除去し、空の値を拒否します。
func normalize(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return "", "", ErrMissingFields
	}
	return name, email, nil
}
