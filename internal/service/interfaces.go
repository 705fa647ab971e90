package service

import (
	"context"
	"strings"
	"time"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

// TrendsService computes the trend analysis for the dashboard
type TrendsService interface {
	GetTrends(ctx context.Context, days int, deviceID string) (*models.TrendsResponse, error)
}

// ObservationService defines the interface for observation business logic
type ObservationService interface {
	CreateObservation(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error)
	ListObservations(ctx context.Context, days int, deviceID string) ([]models.Observation, error)
	ListDevices(ctx context.Context) ([]string, error)
}

// Options carries the settings shared by the services
type Options struct {
	DefaultDays  int
	MaxDays      int
	QueryTimeout time.Duration
	// Now defaults to time.Now; tests pin it
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultDays <= 0 {
		o.DefaultDays = 30
	}
	if o.MaxDays < o.DefaultDays {
		o.MaxDays = o.DefaultDays
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// ResolveDays maps a requested window length onto [1, MaxDays], substituting
// DefaultDays for a missing or non-positive request.
func (o Options) ResolveDays(days int) int {
	o = o.withDefaults()
	if days <= 0 {
		return o.DefaultDays
	}
	if days > o.MaxDays {
		return o.MaxDays
	}
	return days
}

// NormalizeDeviceID maps the "all" sentinel and blanks to the unfiltered query
func NormalizeDeviceID(deviceID string) string {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == models.AllDevices {
		return ""
	}
	return deviceID
}

func (o Options) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.QueryTimeout)
}
