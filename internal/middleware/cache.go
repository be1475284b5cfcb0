package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// PrivateCache lets the browser reuse an authenticated lookup response for a
// short time without shared caches storing it.
func PrivateCache(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore marks responses that must never be cached, such as generated papers.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
