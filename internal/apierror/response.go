package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDKey is the gin context key the request ID middleware stores the ID under.
const RequestIDKey = "request_id"

// WriteProblem answers the request with problem. Instance defaults to the
// request path and DeviceID to the device the request was scoped to. 429
// and 503 get Retry-After; 401 gets a Bearer challenge.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if c.Request != nil {
		if problem.Instance == "" {
			problem.Instance = c.Request.URL.Path
		}
		if problem.DeviceID == "" {
			problem.DeviceID = logger.DeviceIDFromContext(c.Request.Context())
		}
	}

	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	if problem.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer realm="gutcheck"`)
	}

	c.JSON(problem.Status, problem)
}

// GetRequestID returns the ID set by the request ID middleware, falling back
// to the raw X-Request-ID header.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if c.Request == nil {
		return ""
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError reports every rejected observation field at once.
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	p := newProblem(TypeValidation, http.StatusBadRequest, requestID,
		fmt.Sprintf("%d field(s) failed validation", len(errors)))
	p.Errors = errors
	return p
}

// NewBadRequestError is for bodies that could not be decoded at all.
func NewBadRequestError(requestID, detail string) *ProblemDetails {
	return newProblem(TypeBadRequest, http.StatusBadRequest, requestID, detail)
}

// NewFutureTimestampError rejects an observation whose timestamp, or the
// time embedded in its UUIDv7 id, is more than a minute ahead.
func NewFutureTimestampError(requestID, field string) *ProblemDetails {
	p := newProblem(TypeFutureTimestamp, http.StatusBadRequest, requestID,
		fmt.Sprintf("%s is more than 1 minute in the future", field))
	p.Errors = []FieldError{
		{Field: field, Message: "cannot be more than 1 minute in the future", Code: "future_timestamp"},
	}
	return p
}

func NewUnauthorizedError(requestID string) *ProblemDetails {
	return newProblem(TypeUnauthorized, http.StatusUnauthorized, requestID,
		"a valid bearer token is required")
}

// NewNotFoundError is served for paths no route handles.
func NewNotFoundError(requestID, method, path string) *ProblemDetails {
	p := newProblem(TypeNotFound, http.StatusNotFound, requestID,
		fmt.Sprintf("no route for %s %s", method, path))
	p.Instance = path
	return p
}

func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	p := newProblem(TypeRateLimit, http.StatusTooManyRequests, requestID,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter))
	p.RetryAfter = &retryAfter
	return p
}

// NewInternalError never exposes the cause; callers log it.
func NewInternalError(requestID string) *ProblemDetails {
	return newProblem(TypeInternal, http.StatusInternalServerError, requestID,
		"an unexpected error occurred")
}

// NewStorageUnavailableError is sent when a storage query times out.
func NewStorageUnavailableError(requestID string, retryAfter int) *ProblemDetails {
	p := newProblem(TypeStorageUnavailable, http.StatusServiceUnavailable, requestID,
		"the observation store did not answer in time")
	p.RetryAfter = &retryAfter
	return p
}
