package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds a development logger in debug mode and a production JSON logger otherwise.
func New(debugMode bool) (l *zap.Logger, err error) {
	if debugMode {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}

// Middleware logs one line per request. Query strings are omitted since
// the websocket endpoint may carry an access token there.
func Middleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("request", fields...)
		case status >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
