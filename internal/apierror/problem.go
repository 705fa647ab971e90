// Package apierror renders gutcheck API failures as RFC 9457 problem
// documents (application/problem+json).
package apierror

// ProblemDetails is an RFC 9457 problem document. Besides the standard
// members it carries the request's correlation ID, the device the request
// was scoped to, a retry hint for 429 and 503, and one entry per rejected
// field of an observation.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	RequestID  string       `json:"request_id,omitempty"`
	DeviceID   string       `json:"device_id,omitempty"`
	RetryAfter *int         `json:"retry_after,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

// FieldError names a rejected request field by its JSON name
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

func newProblem(problemType string, status int, requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:      problemType,
		Title:     Title(problemType),
		Status:    status,
		Detail:    detail,
		RequestID: requestID,
	}
}
