package blog

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

type Context struct {
	*gin.Context
}

func NewContext(c *gin.Context) *Context {
	return &Context{Context: c}
}

// Handle adapts a handler written against *Context to gin.
func Handle(handler func(ctx *Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(NewContext(c))
	}
}

// GetRequestID returns the id assigned by the RequestID middleware, or ""
// when the middleware is not installed.
func (c *Context) GetRequestID() string {
	return c.GetString(requestIDKey)
}

// Logger returns the request scoped logger, falling back to slog.Default.
func (c *Context) Logger() *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	if id := c.GetRequestID(); id != "" {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}

func (c *Context) SendError(err error) {
	SendError(c.Context, err)
}
