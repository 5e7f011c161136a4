package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"contact_backend/internal/feature/users/domain/entity"
	"contact_backend/internal/feature/users/transport/http/dto"
	"contact_backend/internal/feature/users/usecase"
)

// ContactUsecase は公開お問い合わせフォームの送信処理を定義します。
type ContactUsecase interface {
	AddUser(ctx context.Context, name, email string) (*entity.User, error)
}

// ContactHandler は /submit を処理し、プレーンテキストで結果を返します。
type ContactHandler struct {
	uc ContactUsecase
}

// NewContactHandler はContactHandlerの新しいインスタンスを生成します。
func NewContactHandler(uc ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// Submit はお問い合わせフォームのJSON {name, email} を保存します。
// - ボディがJSONでない場合は400
// - name/emailが空の場合は400 "Missing name or email"
// - DBエラーは400でエラー文字列を返却
// - 成功時は200 "User saved successfully"
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("submit: invalid body", "error", err, "remote_addr", c.ClientIP())
		c.String(http.StatusBadRequest, "Invalid request body: %s", err.Error())
		return
	}

	user, err := h.uc.AddUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		slog.Warn("submit failed", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, usecase.ErrMissingFields) {
			c.String(http.StatusBadRequest, "Missing name or email")
			return
		}
		c.String(http.StatusBadRequest, "Error saving user: %s", err.Error())
		return
	}

	slog.Info("contact submitted", "id", user.ID, "remote_addr", c.ClientIP())
	c.String(http.StatusOK, "User saved successfully")
}
