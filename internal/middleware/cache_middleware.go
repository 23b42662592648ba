package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/cache"
)

// CacheStatusHeader reports HIT or MISS on cached routes.
const CacheStatusHeader = "X-Cache"

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from pages under the logical path returned
// by pathFor, one variant per query string. Only 200 responses are stored.
// Mutations drop the path through PageCache.Revalidate.
func CachePage(pages cache.PageCache, pathFor func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pages == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := pathFor(c)
		variant := c.Request.URL.RawQuery
		ctx := c.Request.Context()

		if body, ok := pages.Get(ctx, path, variant); ok {
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(CacheStatusHeader, "MISS")
		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if writer.Status() != http.StatusOK || writer.body.Len() == 0 {
			return
		}
		if err := pages.Set(ctx, path, variant, writer.body.Bytes()); err != nil {
			GetLoggerFromContext(c).Warn("Failed to cache page", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}
