// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contact_backend/internal/feature/users/domain/entity"
	"contact_backend/internal/feature/users/usecase"
)

// userSQLite はUserRepositoryインターフェースのGORM実装です。
// 組み込みのSQLiteを前提としていますが、SQLはGORMが生成するためPostgreSQLでも動作します。
type userSQLite struct {
	db *gorm.DB
}

// userSQLiteがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userSQLite)(nil)

// NewUserSQLite は指定されたgorm.DB接続でuserSQLiteの新しいインスタンスを生成します。
func NewUserSQLite(db *gorm.DB) *userSQLite {
	return &userSQLite{db: db}
}

// List は指定された列と方向で並べた全ユーザーを返します。
// 列名はentity.ParseSortの許可リストを通過したものだけが渡される前提です。
func (r *userSQLite) List(ctx context.Context, sort entity.Sort) ([]entity.User, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(sort.Field)},
			Desc:   sort.Desc(),
		}).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

// Create はユーザーを追加し、採番されたIDと作成日時をエンティティに書き戻します。
func (r *userSQLite) Create(ctx context.Context, u *entity.User) error {
	m := UserModel{Name: u.Name, Email: u.Email}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

// Update は既存ユーザーの名前とメールアドレスを上書きします。
// 該当行がない場合はusecase.ErrUserNotFoundを返します。
func (r *userSQLite) Update(ctx context.Context, u *entity.User) error {
	res := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Delete はIDでユーザーを1件削除し、削除件数を返します。存在しないIDは0件でエラーにはなりません。
func (r *userSQLite) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteByIDs は1つのDELETE文で複数ユーザーを削除し、削除件数を返します。
func (r *userSQLite) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&UserModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
