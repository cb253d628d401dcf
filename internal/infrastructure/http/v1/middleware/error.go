package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fulfilment/internal/core/apperror"
	appctx "fulfilment/internal/core/context"
	"fulfilment/internal/infrastructure/http/v1/dto"
	"fulfilment/pkg/logger"
)

// ErrorHandler renders the last error recorded on the gin context as JSON.
// Internal causes are logged, never returned to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(ctx, "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		logger.Error(ctx, "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{
				"request_id": appctx.RequestID(ctx),
			},
		})
	}
}
