package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrCodeRequestTooLarge is returned when the declared body exceeds the limit
const ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWith(c, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		// chunked bodies are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
