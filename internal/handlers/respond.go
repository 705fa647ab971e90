package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/apierror"
	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
)

// storageRetryAfter is the Retry-After hint, in seconds, sent with 503s
const storageRetryAfter = 5

// writeStorageError logs err with the request context and answers with a
// problem that reveals nothing about the store. A timed-out query becomes
// 503 so clients back off; everything else is 500.
func writeStorageError(c *gin.Context, err error, msg string) {
	requestID := apierror.GetRequestID(c)
	logger.Ctx(c.Request.Context()).Error(msg, logger.Err(err))

	if errors.Is(err, context.DeadlineExceeded) {
		apierror.WriteProblem(c, apierror.NewStorageUnavailableError(requestID, storageRetryAfter))
		return
	}
	apierror.WriteProblem(c, apierror.NewInternalError(requestID))
}
