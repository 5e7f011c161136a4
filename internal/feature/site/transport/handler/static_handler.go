// Package handler は公開サイトの静的ページと画像を配信します。
package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// NotFoundBody は静的ファイルの404で返すプレーンテキストです。
const NotFoundBody = "File not found"

// Pages は固定ルートと静的ルート配下のファイルの対応表です。
var Pages = map[string]string{
	"/":            "index.html",
	"/products":    "products.html",
	"/login":       "Contact.html",
	"/themes":      "themes.html",
	"/Contact.css": "Contact.css",
	"/admin":       "admin.html",
}

// imageExtensions はAssetで配信できる拡張子の許可リストです。
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// StaticHandler は1つのルートディレクトリからファイルを配信します。
type StaticHandler struct {
	root string
}

// NewStaticHandler はdirをルートとするStaticHandlerを生成します。dirが空の場合はカレントディレクトリを使います。
func NewStaticHandler(dir string) *StaticHandler {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &StaticHandler{root: abs}
}

// Page は常に指定ファイルを返すハンドラーを返します。
func (h *StaticHandler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.serve(c, name)
	}
}

// Asset は拡張子で判定した画像ファイルを配信します。
// NoRouteハンドラーとして登録する前提のため、それ以外のリクエストはすべて404です。
func (h *StaticHandler) Asset(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusNotFound, NotFoundBody)
		return
	}

	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if _, ok := imageExtensions[strings.ToLower(path.Ext(name))]; !ok {
		c.String(http.StatusNotFound, NotFoundBody)
		return
	}
	h.serve(c, name)
}

func (h *StaticHandler) serve(c *gin.Context, name string) {
	full, ok := h.resolve(name)
	if !ok {
		slog.Warn("static path escapes root", "path", name, "remote_addr", c.ClientIP())
		c.String(http.StatusNotFound, NotFoundBody)
		return
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, NotFoundBody)
		return
	}
	c.File(full)
}

// resolve はnameをルートに結合し、ルート外を指す場合は拒否します。
func (h *StaticHandler) resolve(name string) (string, bool) {
	full := filepath.Join(h.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(h.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
