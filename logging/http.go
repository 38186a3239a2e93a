package logging

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID between client and server.
const RequestIDHeader = "X-Request-ID"

// HTTPLogger logs HTTP requests and responses handled by a gin engine.
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
}

// NewHTTPLogger creates a new HTTP logger.
func NewHTTPLogger(logger *Logger, maxBodySize int) *HTTPLogger {
	if maxBodySize == 0 {
		maxBodySize = 10 * 1024 // 10KB default
	}
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// bodyRecorder keeps the first bytes of the response for the log entry.
type bodyRecorder struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if room := r.limit - r.body.Len(); room > 0 {
		r.body.Write(b[:min(len(b), room)])
	}
	return r.ResponseWriter.Write(b)
}

// Middleware returns a gin handler that logs every request once it completes.
// An incoming X-Request-ID is reused so client and server entries correlate.
func (h *HTTPLogger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		r := c.Request

		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		var requestBody string
		if r.Body != nil && r.ContentLength > 0 && r.ContentLength < int64(h.maxBodySize) {
			bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, int64(h.maxBodySize)))
			if err == nil {
				requestBody = string(bodyBytes)
				r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}, limit: h.maxBodySize}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"method":       r.Method,
			"path":         r.URL.Path,
			"route":        c.FullPath(),
			"query":        r.URL.RawQuery,
			"status":       status,
			"size":         c.Writer.Size(),
			"remote_addr":  c.ClientIP(),
			"user_agent":   r.UserAgent(),
			"content_type": r.Header.Get("Content-Type"),
		}
		if requestBody != "" {
			fields["request_body"] = truncate(requestBody, 1000)
		}
		if recorder.body.Len() > 0 {
			fields["response_body"] = truncate(recorder.body.String(), 1000)
		}

		headers := make(map[string]string)
		for name, values := range r.Header {
			if !isSensitiveHeader(name) {
				headers[name] = strings.Join(values, ", ")
			}
		}
		if len(headers) > 0 {
			fields["request_headers"] = headers
		}

		level := INFO
		if status >= 400 {
			level = WARN
		}
		if status >= 500 {
			level = ERROR
		}

		var err error
		if len(c.Errors) > 0 {
			err = c.Errors.Last()
		}

		ctx := h.logger.WithRequestID(requestID).WithCategory("http")
		for k, v := range fields {
			ctx.WithField(k, v)
		}
		ctx.Done(level, fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, status), start, err)
	}
}

func isSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "auth") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "cookie") ||
		strings.Contains(lower, "key") ||
		strings.Contains(lower, "secret")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... [truncated]"
}
