package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/apierror"
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/internal/service"
)

type ObservationHandler struct {
	observationService service.ObservationService
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(observationService service.ObservationService) *ObservationHandler {
	return &ObservationHandler{
		observationService: observationService,
	}
}

// CreateObservation handles POST /api/v1/observations
func (h *ObservationHandler) CreateObservation(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var req models.CreateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, "request body is not valid JSON: "+err.Error()))
		return
	}

	// Collect every problem before answering
	fieldErrors := validateRequest(&req)
	if req.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339Nano, req.Timestamp); err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "timestamp",
				Message: "must be a valid RFC3339 timestamp",
				Code:    "invalid_format",
			})
		}
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	obs, err := h.observationService.CreateObservation(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID) && errors.Is(err, service.ErrFutureTimestamp):
			apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, "id"))
		case errors.Is(err, service.ErrInvalidID):
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "id", Message: "must be a UUIDv7", Code: "invalid_format"},
			}))
		case errors.Is(err, service.ErrFutureTimestamp):
			apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, "timestamp"))
		case errors.Is(err, service.ErrInvalidTimestamp):
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "timestamp", Message: "must be a valid RFC3339 timestamp", Code: "invalid_format"},
			}))
		default:
			writeStorageError(c, err, "failed to create observation")
		}
		return
	}

	c.JSON(http.StatusCreated, obs)
}

// GetObservations handles GET /api/v1/observations?days=7&deviceId=all
func (h *ObservationHandler) GetObservations(c *gin.Context) {
	days := parseDays(c.Query("days"))

	observations, err := h.observationService.ListObservations(c.Request.Context(), days, c.Query("deviceId"))
	if err != nil {
		writeStorageError(c, err, "failed to list observations")
		return
	}

	c.JSON(http.StatusOK, observations)
}

// GetDevices handles GET /api/v1/devices
func (h *ObservationHandler) GetDevices(c *gin.Context) {
	devices, err := h.observationService.ListDevices(c.Request.Context())
	if err != nil {
		writeStorageError(c, err, "failed to list devices")
		return
	}
	if devices == nil {
		devices = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}
