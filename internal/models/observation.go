package models

import "time"

// VolumeEstimate is the coarse stool volume category reported with an observation
type VolumeEstimate string

const (
	VolumeLow    VolumeEstimate = "low"
	VolumeMedium VolumeEstimate = "medium"
	VolumeHigh   VolumeEstimate = "high"
)

// Valid reports whether v is one of the known categories
func (v VolumeEstimate) Valid() bool {
	switch v {
	case VolumeLow, VolumeMedium, VolumeHigh:
		return true
	}
	return false
}

// DefaultDeviceID is assigned to observations entered without a device
const DefaultDeviceID = "manual"

// AllDevices is the reserved device filter meaning "no filter"
const AllDevices = "all"

// Observation is one recorded health data point. Score, hydration and volume
// are optional; an observation without them still counts as an event.
type Observation struct {
	ID             string          `json:"id"`
	DeviceID       string          `json:"deviceId"`
	Timestamp      time.Time       `json:"timestamp"`
	BristolScore   *int            `json:"bristolScore,omitempty"`
	HydrationIndex *float64        `json:"hydrationIndex,omitempty"`
	VolumeEstimate *VolumeEstimate `json:"volumeEstimate,omitempty"`
	Flags          []string        `json:"flags"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateObservationRequest is the body of POST /api/v1/observations
type CreateObservationRequest struct {
	// ID is optional; devices buffering offline supply their own UUIDv7
	ID             *string  `json:"id" validate:"omitnil,uuid"`
	DeviceID       string   `json:"deviceId" validate:"omitempty,max=128,ne=all"`
	Timestamp      string   `json:"timestamp" validate:"required"`
	BristolScore   *int     `json:"bristolScore" validate:"omitnil,min=1,max=7"`
	HydrationIndex *float64 `json:"hydrationIndex" validate:"omitnil,gte=0,lte=1"`
	VolumeEstimate *string  `json:"volumeEstimate" validate:"omitnil,volume"`
	Flags          []string `json:"flags" validate:"omitempty,max=32,dive,max=64"`
}
