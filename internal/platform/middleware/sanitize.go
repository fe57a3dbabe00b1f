package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Header values past this size are rejected outright.
const maxHeaderValueSize = 8192

var (
	// Logged as a warning only; parameterized queries are the real defense.
	sqlPattern = regexp.MustCompile(`(?i)('+\s*;\s*DROP\b|UNION\s+SELECT\b|'\s+OR\s+1\s*=\s*1|1\s*=\s*1)`)

	// Rejected with 400.
	scriptPattern = regexp.MustCompile(`(?i)(<script|javascript\s*:|on\w+\s*=)`)
)

// Sanitize screens requests without logging injection warnings.
func Sanitize() echo.MiddlewareFunc {
	return SanitizeWithLogger(zerolog.Nop())
}

// SanitizeWithLogger screens the request path, headers, and query string for
// traversal sequences, null bytes, header injection, and script payloads.
// Anything caught is answered with 400 before the handler runs.
func SanitizeWithLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if reason := screenRequest(c, logger); reason != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": reason})
			}
			return next(c)
		}
	}
}

func screenRequest(c echo.Context, logger zerolog.Logger) string {
	req := c.Request()
	path := req.URL.Path
	rawPath := req.URL.RawPath
	if rawPath == "" {
		rawPath = path
	}

	if hasTraversal(path) || hasTraversal(rawPath) {
		return "Path traversal detected"
	}
	if hasNullByte(path) || hasNullByte(rawPath) {
		return "Null byte injection detected"
	}

	for name, values := range req.Header {
		for _, v := range values {
			if len(v) > maxHeaderValueSize {
				return "Header value exceeds maximum size: " + name
			}
			if strings.ContainsAny(v, "\r\n") {
				return "Header injection detected: " + name
			}
		}
	}

	for key, values := range req.URL.Query() {
		for _, v := range values {
			if hasNullByte(v) || hasNullByte(key) {
				return "Null byte injection detected in query parameter"
			}
			if sqlPattern.MatchString(v) {
				logger.Warn().
					Str("param", key).
					Str("path", path).
					Str("remote_ip", c.RealIP()).
					Msg("potential SQL injection pattern detected in query parameter")
			}
			if scriptPattern.MatchString(v) || scriptPattern.MatchString(key) {
				return "Script injection detected in query parameter"
			}
		}
	}
	return ""
}

// hasTraversal catches ".." in raw and percent-encoded (single and double)
// forms.
func hasTraversal(s string) bool {
	if strings.Contains(s, "..") {
		return true
	}
	lower := strings.ToLower(s)
	return strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%252e")
}

func hasNullByte(s string) bool {
	return strings.ContainsRune(s, '\x00') || strings.Contains(strings.ToLower(s), "%00")
}

// SanitizeString strips null bytes and control characters other than
// tab and newline, then trims surrounding whitespace. Handlers use it on
// free-text fields such as appointment notes.
func SanitizeString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == '\x00' {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
