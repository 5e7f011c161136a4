// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contact_backend/internal/feature/users/csvexport"
	"contact_backend/internal/feature/users/domain/entity"
	"contact_backend/internal/feature/users/transport/http/dto"
)

// ExportFilename is the attachment name of the CSV download.
const ExportFilename = "users_export.csv"

// AdminUsecase は管理画面のユーザー操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AdminUsecase interface {
	ListUsers(ctx context.Context, sort entity.Sort) ([]entity.User, error)
	AddUser(ctx context.Context, name, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, id uint, name, email string) error
	DeleteUser(ctx context.Context, id uint) error
	BulkDeleteUsers(ctx context.Context, ids []uint) (int64, error)
	ExportUsers(ctx context.Context) ([]entity.User, error)
}

// AdminHandler は管理画面API（/api/users）のHTTPリクエストを処理します。
// 失敗はすべて400で、元のエラーメッセージをそのまま返します。
type AdminHandler struct {
	uc AdminUsecase
}

// NewAdminHandler はAdminHandlerの新しいインスタンスを生成します。
func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// List はユーザー一覧を返します。
//
// エンドポイント例:
// GET /api/users?sort=name&order=asc
//
// 許可されていないsort/orderは id/desc にフォールバックします。
func (h *AdminHandler) List(c *gin.Context) {
	sort := entity.ParseSort(c.Query("sort"), c.Query("order"))

	users, err := h.uc.ListUsers(c.Request.Context(), sort)
	if err != nil {
		h.fail(c, "list users failed", err)
		return
	}

	out := make([]dto.UserItem, 0, len(users))
	for _, u := range users {
		out = append(out, toItem(u))
	}
	c.JSON(http.StatusOK, dto.UserListRes{Users: out, Count: len(out)})
}

// Add はユーザーを1件追加します。
func (h *AdminHandler) Add(c *gin.Context) {
	var req dto.UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "add user: invalid body", err)
		return
	}

	user, err := h.uc.AddUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.fail(c, "add user failed", err)
		return
	}

	slog.Info("user added", "id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "User added successfully"})
}

// Update は指定IDのユーザーの名前とメールアドレスを上書きします。
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "update user: invalid body", err)
		return
	}

	if err := h.uc.UpdateUser(c.Request.Context(), id, req.Name, req.Email); err != nil {
		h.fail(c, "update user failed", err, "id", id)
		return
	}

	slog.Info("user updated", "id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "User updated successfully"})
}

// Delete は指定IDのユーザーを削除します。存在しないIDでも成功を返します。
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, "delete user failed", err, "id", id)
		return
	}

	slog.Info("user deleted", "id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "User deleted successfully"})
}

// BulkDelete はIDリストで指定された複数ユーザーを削除します。
// 空のリストは400を返し、データは変更されません。
func (h *AdminHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "bulk delete: invalid body", err)
		return
	}

	n, err := h.uc.BulkDeleteUsers(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, "bulk delete failed", err, "ids", req.IDs)
		return
	}

	slog.Info("users bulk deleted", "requested", len(req.IDs), "deleted", n, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: fmt.Sprintf("Deleted %d user(s)", n)})
}

// Export は全ユーザーをCSVファイルとしてダウンロードさせます。
// 書き込み途中のエラーでヘッダーが送信済みにならないよう、一度バッファに書き出します。
func (h *AdminHandler) Export(c *gin.Context) {
	users, err := h.uc.ExportUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "export users failed", err)
		return
	}

	var buf bytes.Buffer
	if err := csvexport.Write(&buf, users); err != nil {
		h.fail(c, "export users: csv encoding failed", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+ExportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *AdminHandler) parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		slog.Warn("invalid user id", "id", raw, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ResultRes{Success: false, Message: "invalid user id: " + raw})
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "remote_addr", c.ClientIP())
	slog.Warn(msg, attrs...)
	c.JSON(http.StatusBadRequest, dto.ResultRes{Success: false, Message: err.Error()})
}

func toItem(u entity.User) dto.UserItem {
	return dto.UserItem{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: csvexport.FormatTime(u),
	}
}
