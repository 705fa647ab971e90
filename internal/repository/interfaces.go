package repository

import (
	"context"
	"time"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

// ObservationRepository defines the interface for observation data access
type ObservationRepository interface {
	// GetByDateRange returns observations with start <= timestamp <= end in
	// ascending timestamp order. An empty deviceID matches every device.
	GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error)
	Create(ctx context.Context, obs *models.Observation) (*models.Observation, error)
	// ListDevices returns the distinct device IDs in ascending order
	ListDevices(ctx context.Context) ([]string, error)
}

// Migrator is implemented by stores that own their schema
type Migrator interface {
	Migrate(ctx context.Context) error
}
