// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"fulfilment/internal/core/apperror"
	"fulfilment/pkg/logger"
)

// Recovery converts a panic into an internal error for ErrorHandler to
// render, so it must be registered after ErrorHandler. The stack trace is
// logged and never sent to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()
		logger.Error(ctx, "panic recovered",
			"panic", recovered,
			"route", c.FullPath(),
			"stack", string(debug.Stack()),
		)

		_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", recovered)).
			WithDetail("request_id", c.GetString(ContextKeyRequestID)))
		c.Abort()
	})
}
