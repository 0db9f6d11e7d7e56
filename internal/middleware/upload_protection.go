package middleware

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var publicUploadExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadsProtection serves only banner image types from /uploads and
// marks them immutable, since stored names never change.
func UploadsProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := strings.ToLower(strings.TrimSpace(c.Param("filepath")))
		if strings.Contains(rawPath, "..") {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		if _, ok := publicUploadExtensions[filepath.Ext(rawPath)]; !ok {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
