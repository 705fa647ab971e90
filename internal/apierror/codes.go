package apierror

// Problem type URIs, the "type" member of every problem document.
const (
	TypeValidation         = "urn:gutcheck:error:validation"
	TypeBadRequest         = "urn:gutcheck:error:bad_request"
	TypeFutureTimestamp    = "urn:gutcheck:error:future_timestamp"
	TypeUnauthorized       = "urn:gutcheck:error:unauthorized"
	TypeNotFound           = "urn:gutcheck:error:not_found"
	TypeRateLimit          = "urn:gutcheck:error:rate_limit"
	TypeInternal           = "urn:gutcheck:error:internal"
	TypeStorageUnavailable = "urn:gutcheck:error:storage_unavailable"
)

var titles = map[string]string{
	TypeValidation:         "Invalid Observation",
	TypeBadRequest:         "Bad Request",
	TypeFutureTimestamp:    "Observation From The Future",
	TypeUnauthorized:       "Authentication Required",
	TypeNotFound:           "Not Found",
	TypeRateLimit:          "Rate Limit Exceeded",
	TypeInternal:           "Internal Server Error",
	TypeStorageUnavailable: "Observation Store Unavailable",
}

// Title is the fixed summary for a problem type
func Title(problemType string) string {
	if t, ok := titles[problemType]; ok {
		return t
	}
	return "Error"
}
