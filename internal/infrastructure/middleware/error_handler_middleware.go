package middleware

import (
	"net/http"

	"togetherwatch/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware translates errors attached by handlers into
// JSON responses. AppErrors keep their code and status; anything else
// becomes an opaque 500 so internals never leak to the client.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		appErr := errors.GetAppError(err)
		if appErr == nil {
			logger.Errorw("unhandled error",
				"error", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			writeInternalError(c)
			return
		}

		// Client mistakes are expected traffic; only server faults log
		// at error level.
		log := logger.Warnw
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log = logger.Errorw
		}
		log("request failed",
			"code", appErr.Code,
			"status", appErr.HTTPStatus,
			"message", appErr.Message,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		body := gin.H{
			"error":   string(appErr.Code),
			"message": appErr.Message,
		}
		if len(appErr.Context) > 0 {
			body["details"] = appErr.Context
		}
		c.JSON(appErr.HTTPStatus, body)
	}
}

// RecoveryMiddleware keeps a panicking handler from tearing down the
// process; the client gets a plain 500.
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"panic", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				writeInternalError(c)
				c.Abort()
			}
		}()

		c.Next()
	}
}

func writeInternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   string(errors.ErrCodeInternal),
		"message": "Internal server error",
	})
}
