package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// spaFallback serves the built web client for unmatched GET requests and
// falls back to index.html so client-side routes load. API prefixes keep
// their JSON 404.
func spaFallback(dir string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead ||
			strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/chatbot") || dir == "" {
			perrors.Abort(c, log, perrors.NewErrNotFound("route not found"))
			return
		}

		root, err := filepath.Abs(dir)
		if err != nil {
			perrors.Abort(c, log, perrors.NewErrNotFound("route not found"))
			return
		}

		file := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(root, "index.html")
		if _, err := os.Stat(index); err != nil {
			perrors.Abort(c, log, perrors.NewErrNotFound("route not found"))
			return
		}
		c.File(index)
	}
}
