package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact_backend/internal/feature/users/domain/entity"
	"contact_backend/internal/feature/users/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAdminUsecase はAdminUsecaseインターフェースのモック実装です。
type mockAdminUsecase struct {
	ListUsersFunc       func(ctx context.Context, sort entity.Sort) ([]entity.User, error)
	AddUserFunc         func(ctx context.Context, name, email string) (*entity.User, error)
	UpdateUserFunc      func(ctx context.Context, id uint, name, email string) error
	DeleteUserFunc      func(ctx context.Context, id uint) error
	BulkDeleteUsersFunc func(ctx context.Context, ids []uint) (int64, error)
	ExportUsersFunc     func(ctx context.Context) ([]entity.User, error)
}

func (m *mockAdminUsecase) ListUsers(ctx context.Context, sort entity.Sort) ([]entity.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, sort)
	}
	return nil, nil
}

func (m *mockAdminUsecase) AddUser(ctx context.Context, name, email string) (*entity.User, error) {
	if m.AddUserFunc != nil {
		return m.AddUserFunc(ctx, name, email)
	}
	return &entity.User{ID: 1, Name: name, Email: email}, nil
}

func (m *mockAdminUsecase) UpdateUser(ctx context.Context, id uint, name, email string) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, name, email)
	}
	return nil
}

func (m *mockAdminUsecase) DeleteUser(ctx context.Context, id uint) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *mockAdminUsecase) BulkDeleteUsers(ctx context.Context, ids []uint) (int64, error) {
	if m.BulkDeleteUsersFunc != nil {
		return m.BulkDeleteUsersFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockAdminUsecase) ExportUsers(ctx context.Context) ([]entity.User, error) {
	if m.ExportUsersFunc != nil {
		return m.ExportUsersFunc(ctx)
	}
	return nil, nil
}

func setupAdminRouter(uc AdminUsecase) *gin.Engine {
	h := NewAdminHandler(uc)
	r := gin.New()
	r.GET("/api/users", h.List)
	r.GET("/api/users/export", h.Export)
	r.POST("/api/users/add", h.Add)
	r.POST("/api/users/bulk-delete", h.BulkDelete)
	r.PUT("/api/users/:id", h.Update)
	r.DELETE("/api/users/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewAdminHandler(t *testing.T) {
	t.Parallel()

	h := NewAdminHandler(&mockAdminUsecase{})

	assert.NotNil(t, h, "handler should not be nil")
	assert.NotNil(t, h.uc, "usecase should not be nil")
}

// TestAdminHandler_List はクエリパラメータの解釈とレスポンス形式を検証します。
func TestAdminHandler_List(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		listErr        error
		expectedSort   entity.Sort
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success: default sort",
			query:          "",
			expectedSort:   entity.Sort{Field: entity.SortByID, Order: entity.OrderDesc},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"users":[{"id":2,"name":"Paul","email":"paul@beatles.com","created_at":"2024-02-03 04:05:06"}],"count":1}`,
		},
		{
			name:           "success: name ascending",
			query:          "?sort=name&order=asc",
			expectedSort:   entity.Sort{Field: entity.SortByName, Order: entity.OrderAsc},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"users":[{"id":2,"name":"Paul","email":"paul@beatles.com","created_at":"2024-02-03 04:05:06"}],"count":1}`,
		},
		{
			name:           "success: invalid values fall back",
			query:          "?sort=password&order=random",
			expectedSort:   entity.Sort{Field: entity.SortByID, Order: entity.OrderDesc},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"users":[{"id":2,"name":"Paul","email":"paul@beatles.com","created_at":"2024-02-03 04:05:06"}],"count":1}`,
		},
		{
			name:           "failure: usecase error is returned verbatim",
			query:          "",
			listErr:        errors.New("no such table: users"),
			expectedSort:   entity.Sort{Field: entity.SortByID, Order: entity.OrderDesc},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"no such table: users"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotSort entity.Sort
			uc := &mockAdminUsecase{
				ListUsersFunc: func(ctx context.Context, sort entity.Sort) ([]entity.User, error) {
					gotSort = sort
					if tt.listErr != nil {
						return nil, tt.listErr
					}
					return []entity.User{{ID: 2, Name: "Paul", Email: "paul@beatles.com", CreatedAt: ts}}, nil
				},
			}

			w := doJSON(t, setupAdminRouter(uc), http.MethodGet, "/api/users"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedSort, gotSort)
		})
	}
}

func TestAdminHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	w := doJSON(t, setupAdminRouter(&mockAdminUsecase{}), http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[],"count":0}`, w.Body.String())
}

func TestAdminHandler_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           any
		addErr         error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           gin.H{"name": "John", "email": "john@beatles.com"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"message":"User added successfully"}`,
		},
		{
			name:           "failure: missing fields",
			body:           gin.H{"name": "John"},
			addErr:         usecase.ErrMissingFields,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"name and email are required"}`,
		},
		{
			name:           "failure: database error",
			body:           gin.H{"name": "John", "email": "john@beatles.com"},
			addErr:         errors.New("attempt to write a readonly database"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"attempt to write a readonly database"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockAdminUsecase{
				AddUserFunc: func(ctx context.Context, name, email string) (*entity.User, error) {
					if tt.addErr != nil {
						return nil, tt.addErr
					}
					return &entity.User{ID: 10, Name: name, Email: email}, nil
				},
			}

			w := doJSON(t, setupAdminRouter(uc), http.MethodPost, "/api/users/add", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestAdminHandler_Add_MalformedJSON(t *testing.T) {
	t.Parallel()

	called := false
	uc := &mockAdminUsecase{
		AddUserFunc: func(ctx context.Context, name, email string) (*entity.User, error) {
			called = true
			return nil, nil
		},
	}

	w := doJSON(t, setupAdminRouter(uc), http.MethodPost, "/api/users/add", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "usecase must not be called")

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, false, res["success"])
	assert.NotEmpty(t, res["message"])
}

func TestAdminHandler_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		updateErr      error
		expectedID     uint
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			path:           "/api/users/5",
			expectedID:     5,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"message":"User updated successfully"}`,
		},
		{
			name:           "failure: user not found",
			path:           "/api/users/404",
			updateErr:      usecase.ErrUserNotFound,
			expectedID:     404,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"user not found"}`,
		},
		{
			name:           "failure: non-numeric id",
			path:           "/api/users/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"invalid user id: abc"}`,
		},
		{
			name:           "failure: negative id",
			path:           "/api/users/-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"invalid user id: -1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotID uint
			uc := &mockAdminUsecase{
				UpdateUserFunc: func(ctx context.Context, id uint, name, email string) error {
					gotID = id
					assert.Equal(t, "New", name)
					assert.Equal(t, "new@example.com", email)
					return tt.updateErr
				},
			}

			w := doJSON(t, setupAdminRouter(uc), http.MethodPut, tt.path, gin.H{"name": "New", "email": "new@example.com"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedID, gotID)
		})
	}
}

func TestAdminHandler_Delete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var gotID uint
		uc := &mockAdminUsecase{
			DeleteUserFunc: func(ctx context.Context, id uint) error {
				gotID = id
				return nil
			},
		}

		w := doJSON(t, setupAdminRouter(uc), http.MethodDelete, "/api/users/12", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"User deleted successfully"}`, w.Body.String())
		assert.Equal(t, uint(12), gotID)
	})

	t.Run("failure: database error", func(t *testing.T) {
		t.Parallel()

		uc := &mockAdminUsecase{
			DeleteUserFunc: func(ctx context.Context, id uint) error {
				return errors.New("database is locked")
			},
		}

		w := doJSON(t, setupAdminRouter(uc), http.MethodDelete, "/api/users/12", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"database is locked"}`, w.Body.String())
	})
}

func TestAdminHandler_BulkDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           any
		expectedIDs    []uint
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           gin.H{"ids": []uint{3, 4}},
			expectedIDs:    []uint{3, 4},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"message":"Deleted 2 user(s)"}`,
		},
		{
			name:           "failure: empty list",
			body:           gin.H{"ids": []uint{}},
			expectedIDs:    []uint{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"no user ids provided"}`,
		},
		{
			name:           "failure: ids missing",
			body:           gin.H{},
			expectedIDs:    nil,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"no user ids provided"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotIDs []uint
			uc := &mockAdminUsecase{
				BulkDeleteUsersFunc: func(ctx context.Context, ids []uint) (int64, error) {
					gotIDs = ids
					if len(ids) == 0 {
						return 0, usecase.ErrNoUserIDs
					}
					return int64(len(ids)), nil
				},
			}

			w := doJSON(t, setupAdminRouter(uc), http.MethodPost, "/api/users/bulk-delete", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedIDs, gotIDs)
		})
	}
}

func TestAdminHandler_Export(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	uc := &mockAdminUsecase{
		ExportUsersFunc: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{ID: 1, Name: "John", Email: "john@beatles.com", CreatedAt: ts},
				{ID: 2, Name: "Paul", Email: "paul@beatles.com", CreatedAt: ts},
			}, nil
		},
	}

	w := doJSON(t, setupAdminRouter(uc), http.MethodGet, "/api/users/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=users_export.csv", w.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Email,Created At", lines[0])
	assert.Equal(t, "1,John,john@beatles.com,2024-01-01 00:00:00", lines[1])
}

func TestAdminHandler_Export_Error(t *testing.T) {
	t.Parallel()

	uc := &mockAdminUsecase{
		ExportUsersFunc: func(ctx context.Context) ([]entity.User, error) {
			return nil, errors.New("disk I/O error")
		},
	}

	w := doJSON(t, setupAdminRouter(uc), http.MethodGet, "/api/users/export", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"disk I/O error"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
