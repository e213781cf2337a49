package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"natesa/backend/pkg/response"
)

// BodyLimit rejects declared bodies over maxBytes up front and caps
// streamed ones while they are read. maxBytes <= 0 disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Abort(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "request body too large")
			return
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
