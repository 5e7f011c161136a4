package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sitehandler "contact_backend/internal/feature/site/transport/handler"
	usershandler "contact_backend/internal/feature/users/transport/handler"
	platformhandler "contact_backend/internal/platform/http/handler"
	"contact_backend/internal/platform/observability"
)

// Deps are the handlers and middleware inputs NewRouter wires together.
// Metrics and CORSOrigins are optional.
type Deps struct {
	Contact *usershandler.ContactHandler
	Admin   *usershandler.AdminHandler
	Static  *sitehandler.StaticHandler
	Health  *platformhandler.HealthHandler
	Metrics *observability.Metrics

	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// CORS 管理画面を別オリジンから開く場合のみ
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(d.CORSOrigins)))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", d.Metrics.Handler())
	}

	// 導通確認用
	r.GET("/healthz", d.Health.Health)
	r.HEAD("/healthz", d.Health.Health)
	r.OPTIONS("/healthz", d.Health.Health)

	// 静的ページ
	for route, file := range sitehandler.Pages {
		r.GET(route, d.Static.Page(file))
		r.HEAD(route, d.Static.Page(file))
	}

	// お問い合わせフォーム送信
	r.POST("/submit", d.Contact.Submit)

	// 管理画面API（認証なし）
	api := r.Group("/api/users")
	{
		api.GET("", d.Admin.List)
		api.POST("/add", d.Admin.Add)
		api.PUT("/:id", d.Admin.Update)
		api.DELETE("/:id", d.Admin.Delete)
		api.POST("/bulk-delete", d.Admin.BulkDelete)
		api.GET("/export", d.Admin.Export)
	}

	// 画像ファイル（拡張子の許可リスト）とそれ以外の404
	r.NoRoute(d.Static.Asset)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// requestLogger logs one line per request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"remote_addr", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}
