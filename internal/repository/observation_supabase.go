package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/pkg/supabase"
)

// supabaseRow mirrors the health_events table columns
type supabaseRow struct {
	ID             string    `json:"id,omitempty"`
	DeviceID       string    `json:"device_id"`
	Timestamp      time.Time `json:"timestamp"`
	BristolScore   *int      `json:"bristol_score"`
	HydrationIndex *float64  `json:"hydration_index"`
	VolumeEstimate *string   `json:"volume_estimate"`
	Flags          []string  `json:"flags"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

type supabaseObservationRepository struct {
	client *supabase.Client
	table  string
}

// NewSupabaseObservationRepository creates an observation repository backed by PostgREST
func NewSupabaseObservationRepository(client *supabase.Client, table string) ObservationRepository {
	return &supabaseObservationRepository{client: client, table: table}
}

func (r *supabaseObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error) {
	filters := []supabase.Filter{
		supabase.Select("*"),
		supabase.Gte("timestamp", start.UTC().Format(time.RFC3339Nano)),
		supabase.Lte("timestamp", end.UTC().Format(time.RFC3339Nano)),
		supabase.Order("timestamp.asc"),
	}
	if deviceID != "" {
		filters = append(filters, supabase.Eq("device_id", deviceID))
	}

	body, err := r.client.Query(ctx, r.table, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observations: %w", err)
	}

	observations := make([]models.Observation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, row.toModel())
	}
	return observations, nil
}

func (r *supabaseObservationRepository) Create(ctx context.Context, obs *models.Observation) (*models.Observation, error) {
	body, err := r.client.Insert(ctx, r.table, fromModel(obs))
	if err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no observation returned")
	}

	created := rows[0].toModel()
	return &created, nil
}

// DevicesViewSuffix names the distinct-devices view that sits beside the
// observations table, e.g. health_events_devices:
//
//	CREATE VIEW health_events_devices AS
//	  SELECT DISTINCT device_id FROM health_events WHERE device_id <> '';
const DevicesViewSuffix = "_devices"

// ListDevices reads the distinct-devices view so deduplication happens in the
// database and the result stays well under PostgREST's max-rows cap.
func (r *supabaseObservationRepository) ListDevices(ctx context.Context) ([]string, error) {
	body, err := r.client.Query(ctx, r.table+DevicesViewSuffix,
		supabase.Select("device_id"),
		supabase.Order("device_id.asc"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}

	var rows []struct {
		DeviceID string `json:"device_id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal devices: %w", err)
	}

	devices := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.DeviceID != "" {
			devices = append(devices, row.DeviceID)
		}
	}
	return devices, nil
}

func fromModel(obs *models.Observation) supabaseRow {
	row := supabaseRow{
		ID:             obs.ID,
		DeviceID:       obs.DeviceID,
		Timestamp:      obs.Timestamp.UTC(),
		BristolScore:   obs.BristolScore,
		HydrationIndex: obs.HydrationIndex,
		VolumeEstimate: volumeString(obs.VolumeEstimate),
		Flags:          obs.Flags,
		CreatedAt:      obs.CreatedAt,
	}
	if row.Flags == nil {
		row.Flags = []string{}
	}
	return row
}

func (row supabaseRow) toModel() models.Observation {
	return buildObservation(row.ID, row.DeviceID, row.Timestamp, row.BristolScore,
		row.HydrationIndex, row.VolumeEstimate, row.Flags, row.CreatedAt)
}

// buildObservation normalises a stored row into the API model shared by
// every backend.
func buildObservation(id, deviceID string, ts time.Time, score *int, hydration *float64,
	volume *string, flags []string, createdAt time.Time) models.Observation {
	obs := models.Observation{
		ID:             id,
		DeviceID:       deviceID,
		Timestamp:      ts.UTC(),
		BristolScore:   score,
		HydrationIndex: hydration,
		Flags:          flags,
		CreatedAt:      createdAt.UTC(),
	}
	if obs.DeviceID == "" {
		obs.DeviceID = models.DefaultDeviceID
	}
	if volume != nil && *volume != "" {
		v := models.VolumeEstimate(*volume)
		obs.VolumeEstimate = &v
	}
	if obs.Flags == nil {
		obs.Flags = []string{}
	}
	return obs
}

func volumeString(v *models.VolumeEstimate) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
