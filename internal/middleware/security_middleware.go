package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// buildContentSecurityPolicy returns the policy for JSON API responses.
// imageOrigins are extra hosts banner images may be served from.
func buildContentSecurityPolicy(imageOrigins []string) string {
	imgSrc := append([]string{"'self'", "data:"}, imageOrigins...)
	directives := []string{
		"default-src 'none'",
		"img-src " + strings.Join(imgSrc, " "),
		"frame-ancestors 'none'",
		"base-uri 'none'",
	}
	return strings.Join(directives, "; ")
}

func SecurityHeadersMiddleware(imageOrigins ...string) gin.HandlerFunc {
	policy := buildContentSecurityPolicy(imageOrigins)
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("Content-Security-Policy", policy)
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
