package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

// observationRecord is the gorm model for the observations table
type observationRecord struct {
	ID             string                      `gorm:"column:id;primaryKey;type:text"`
	DeviceID       string                      `gorm:"column:device_id;not null;index:idx_observations_device_time,priority:1"`
	Timestamp      time.Time                   `gorm:"column:timestamp;not null;index:idx_observations_device_time,priority:2;index"`
	BristolScore   *int                        `gorm:"column:bristol_score"`
	HydrationIndex *float64                    `gorm:"column:hydration_index"`
	VolumeEstimate *string                     `gorm:"column:volume_estimate;type:text"`
	Flags          datatypes.JSONSlice[string] `gorm:"column:flags;type:jsonb"`
	CreatedAt      time.Time                   `gorm:"column:created_at;not null"`
}

type postgresObservationRepository struct {
	db    *gorm.DB
	table string
}

// NewPostgresObservationRepository creates an observation repository on a gorm connection
func NewPostgresObservationRepository(db *gorm.DB, table string) ObservationRepository {
	return &postgresObservationRepository{db: db, table: table}
}

func (r *postgresObservationRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Table(r.table).AutoMigrate(&observationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", r.table, err)
	}
	return nil
}

func (r *postgresObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error) {
	query := r.db.WithContext(ctx).Table(r.table).
		Where("timestamp >= ? AND timestamp <= ?", start.UTC(), end.UTC())
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}

	var records []observationRecord
	if err := query.Order("timestamp ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	observations := make([]models.Observation, 0, len(records))
	for _, rec := range records {
		observations = append(observations, buildObservation(rec.ID, rec.DeviceID, rec.Timestamp,
			rec.BristolScore, rec.HydrationIndex, rec.VolumeEstimate, rec.Flags, rec.CreatedAt))
	}
	return observations, nil
}

func (r *postgresObservationRepository) Create(ctx context.Context, obs *models.Observation) (*models.Observation, error) {
	rec := observationRecord{
		ID:             obs.ID,
		DeviceID:       obs.DeviceID,
		Timestamp:      obs.Timestamp.UTC(),
		BristolScore:   obs.BristolScore,
		HydrationIndex: obs.HydrationIndex,
		VolumeEstimate: volumeString(obs.VolumeEstimate),
		Flags:          datatypes.JSONSlice[string](obs.Flags),
		CreatedAt:      obs.CreatedAt.UTC(),
	}
	if rec.Flags == nil {
		rec.Flags = datatypes.JSONSlice[string]{}
	}

	if err := r.db.WithContext(ctx).Table(r.table).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	created := buildObservation(rec.ID, rec.DeviceID, rec.Timestamp, rec.BristolScore,
		rec.HydrationIndex, rec.VolumeEstimate, rec.Flags, rec.CreatedAt)
	return &created, nil
}

func (r *postgresObservationRepository) ListDevices(ctx context.Context) ([]string, error) {
	devices := make([]string, 0)
	err := r.db.WithContext(ctx).Table(r.table).
		Distinct("device_id").
		Order("device_id ASC").
		Pluck("device_id", &devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	return devices, nil
}
