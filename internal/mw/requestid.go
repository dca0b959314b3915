package mw

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	loggerKey       = "logger"
)

// RequestID 为每个请求分配 id（沿用客户端传入的 X-Request-ID），
// 并把带 request_id 字段的 logger 放进 gin.Context。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		l := log.With().Str("request_id", id).Logger()
		c.Set(requestIDKey, id)
		c.Set(loggerKey, &l)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()
		l.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// Logger 返回当前请求的 logger，未经过 RequestID 时退回全局 logger。
func Logger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok2 := v.(*zerolog.Logger); ok2 {
			return l
		}
	}
	return &log.Logger
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
