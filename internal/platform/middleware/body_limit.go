package middleware

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BodyLimit caps the request body size. The limit string accepts K, M, and G
// suffixes ("1M", "512K"); a bare number means bytes. Oversized requests get
// a 413 whether or not they announce a Content-Length.
func BodyLimit(limit string) echo.MiddlewareFunc {
	max := parseSize(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			if req.ContentLength > max {
				return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
					"error": fmt.Sprintf("request body exceeds maximum allowed size of %d bytes", max),
				})
			}

			// Content-Length can lie or be absent, so the body reader
			// enforces the cap as well.
			req.Body = &cappedBody{inner: req.Body, left: max}
			return next(c)
		}
	}
}

type cappedBody struct {
	inner    io.ReadCloser
	left     int64
	overflow bool
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.overflow {
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	// Read one byte past the cap so overflow is detectable.
	if max := b.left + 1; int64(len(p)) > max {
		p = p[:max]
	}

	n, err := b.inner.Read(p)
	b.left -= int64(n)
	if b.left < 0 {
		b.overflow = true
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return n, err
}

func (b *cappedBody) Close() error { return b.inner.Close() }

const defaultBodyLimit = 1 << 20

func parseSize(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBodyLimit
	}

	var mult int64 = 1
	switch {
	case strings.HasSuffix(s, "G") || strings.HasSuffix(s, "GB"):
		mult = 1 << 30
		s = strings.TrimRight(s, "GB")
	case strings.HasSuffix(s, "M") || strings.HasSuffix(s, "MB"):
		mult = 1 << 20
		s = strings.TrimRight(s, "MB")
	case strings.HasSuffix(s, "K") || strings.HasSuffix(s, "KB"):
		mult = 1 << 10
		s = strings.TrimRight(s, "KB")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultBodyLimit
	}
	return n * mult
}
