package middleware

import (
	"compress/gzip"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/eshop/internal/server/http/response"
)

// MaxRequestBody caps an order or account payload after decompression.
const MaxRequestBody int64 = 1 << 20

// DecompressRequest unwraps gzip request bodies and caps every body at limit bytes,
// measured after decompression. Reads past the cap fail with *http.MaxBytesError.
func DecompressRequest(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.WriteError(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge,
				fmt.Errorf("request body exceeds %d bytes", limit))
			return
		}

		encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		switch encoding {
		case "", "identity":
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
			c.Next()
			return
		case "gzip", "x-gzip":
		default:
			response.WriteError(c, http.StatusUnsupportedMediaType, response.CodeUnsupportedEncoding,
				fmt.Errorf("content encoding %q is not supported", encoding))
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			response.WriteError(c, http.StatusBadRequest, response.CodeBadRequest, err)
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, reader, limit)
		c.Request.Header.Del("Content-Encoding")
		c.Request.Header.Del("Content-Length")
		c.Request.ContentLength = -1
		c.Next()
	}
}
