package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

// mockObservationRepository is a mock implementation of ObservationRepository for testing
type mockObservationRepository struct {
	observations []models.Observation
	err          error

	lastStart, lastEnd time.Time
	lastDevice         string
	queryCalls         int
	created            []*models.Observation
}

func (m *mockObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error) {
	m.queryCalls++
	m.lastStart, m.lastEnd, m.lastDevice = start, end, deviceID
	if m.err != nil {
		return nil, m.err
	}
	var result []models.Observation
	for _, o := range m.observations {
		if o.Timestamp.Before(start) || o.Timestamp.After(end) {
			continue
		}
		if deviceID != "" && o.DeviceID != deviceID {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *mockObservationRepository) Create(ctx context.Context, obs *models.Observation) (*models.Observation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, obs)
	m.observations = append(m.observations, *obs)
	return obs, nil
}

func (m *mockObservationRepository) ListDevices(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"manual", "pi-1"}, nil
}

func testOptions() Options {
	return Options{
		DefaultDays: 30,
		MaxDays:     365,
		Now:         func() time.Time { return clock },
	}
}

func intPtr(v int) *int {
	return &v
}

func TestResolveDays(t *testing.T) {
	opts := testOptions()
	tests := []struct {
		in, want int
	}{
		{0, 30},
		{-5, 30},
		{1, 1},
		{90, 90},
		{365, 365},
		{1000, 365},
	}
	for _, tt := range tests {
		if got := opts.ResolveDays(tt.in); got != tt.want {
			t.Errorf("ResolveDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDeviceID(t *testing.T) {
	if got := NormalizeDeviceID("all"); got != "" {
		t.Errorf(`NormalizeDeviceID("all") = %q, want ""`, got)
	}
	if got := NormalizeDeviceID(" pi-1 "); got != "pi-1" {
		t.Errorf("NormalizeDeviceID = %q, want pi-1", got)
	}
}

func TestGetTrendsQueriesWindowOnce(t *testing.T) {
	repo := &mockObservationRepository{
		observations: []models.Observation{
			{ID: "1", DeviceID: "pi-1", Timestamp: clock.Add(-2 * time.Hour), BristolScore: intPtr(4)},
			{ID: "2", DeviceID: "pi-2", Timestamp: clock.Add(-26 * time.Hour), BristolScore: intPtr(3)},
		},
	}
	svc := NewTrendsService(repo, testOptions())

	resp, err := svc.GetTrends(context.Background(), 7, "all")
	if err != nil {
		t.Fatalf("GetTrends() error = %v", err)
	}

	if repo.queryCalls != 1 {
		t.Errorf("queryCalls = %d, want 1", repo.queryCalls)
	}
	if repo.lastDevice != "" {
		t.Errorf("device filter = %q, want unfiltered", repo.lastDevice)
	}
	if !repo.lastEnd.Equal(clock) || !repo.lastStart.Equal(clock.AddDate(0, 0, -7)) {
		t.Errorf("range = [%v, %v]", repo.lastStart, repo.lastEnd)
	}

	if len(resp.DailySummaries) != 7 {
		t.Errorf("len(DailySummaries) = %d, want 7", len(resp.DailySummaries))
	}
	if resp.DailySummaries[6].Date != "2026-03-08" {
		t.Errorf("last date = %s, want 2026-03-08", resp.DailySummaries[6].Date)
	}
	if resp.OverallStats.TotalEvents != 2 {
		t.Errorf("TotalEvents = %d, want 2", resp.OverallStats.TotalEvents)
	}
	if len(resp.WeeklyTrends) != 1 {
		t.Errorf("len(WeeklyTrends) = %d, want 1", len(resp.WeeklyTrends))
	}
}

func TestGetTrendsDeviceFilter(t *testing.T) {
	repo := &mockObservationRepository{
		observations: []models.Observation{
			{ID: "1", DeviceID: "pi-1", Timestamp: clock.Add(-2 * time.Hour)},
			{ID: "2", DeviceID: "pi-2", Timestamp: clock.Add(-3 * time.Hour)},
		},
	}
	svc := NewTrendsService(repo, testOptions())

	resp, err := svc.GetTrends(context.Background(), 7, "pi-2")
	if err != nil {
		t.Fatalf("GetTrends() error = %v", err)
	}
	if repo.lastDevice != "pi-2" {
		t.Errorf("device filter = %q, want pi-2", repo.lastDevice)
	}
	if resp.OverallStats.TotalEvents != 1 {
		t.Errorf("TotalEvents = %d, want 1", resp.OverallStats.TotalEvents)
	}
}

func TestGetTrendsClampsDays(t *testing.T) {
	repo := &mockObservationRepository{}
	svc := NewTrendsService(repo, testOptions())

	resp, err := svc.GetTrends(context.Background(), 5000, "")
	if err != nil {
		t.Fatalf("GetTrends() error = %v", err)
	}
	if len(resp.DailySummaries) != 365 {
		t.Errorf("len(DailySummaries) = %d, want 365", len(resp.DailySummaries))
	}
	if len(resp.WeeklyTrends) != 53 {
		t.Errorf("len(WeeklyTrends) = %d, want 53", len(resp.WeeklyTrends))
	}
}

func TestGetTrendsStorageError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewTrendsService(&mockObservationRepository{err: storeErr}, testOptions())

	_, err := svc.GetTrends(context.Background(), 7, "")
	if !errors.Is(err, storeErr) {
		t.Errorf("GetTrends() error = %v, want wrapped store error", err)
	}
}

func TestCreateObservationDefaults(t *testing.T) {
	repo := &mockObservationRepository{}
	svc := NewObservationService(repo, testOptions())

	vol := "high"
	obs, err := svc.CreateObservation(context.Background(), &models.CreateObservationRequest{
		Timestamp:      "2026-03-08T10:00:00+02:00",
		BristolScore:   intPtr(4),
		VolumeEstimate: &vol,
		Flags:          []string{" urgency ", "", "urgency", "blood"},
	})
	if err != nil {
		t.Fatalf("CreateObservation() error = %v", err)
	}

	if obs.DeviceID != models.DefaultDeviceID {
		t.Errorf("DeviceID = %q, want manual", obs.DeviceID)
	}
	if obs.Timestamp.Hour() != 8 || obs.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want 08:00 UTC", obs.Timestamp)
	}
	// Minted IDs carry the wall clock, not the pinned service clock
	parsed, err := uuid.Parse(obs.ID)
	if err != nil || parsed.Version() != 7 {
		t.Errorf("generated ID %q is not a UUIDv7 (err %v)", obs.ID, err)
	}
	if err := ValidateUUIDv7(obs.ID, time.Now()); err != nil {
		t.Errorf("generated ID %q invalid: %v", obs.ID, err)
	}
	if len(obs.Flags) != 2 || obs.Flags[0] != "urgency" || obs.Flags[1] != "blood" {
		t.Errorf("Flags = %v, want [urgency blood]", obs.Flags)
	}
	if obs.VolumeEstimate == nil || *obs.VolumeEstimate != models.VolumeHigh {
		t.Errorf("VolumeEstimate = %v", obs.VolumeEstimate)
	}
	if !obs.CreatedAt.Equal(clock) {
		t.Errorf("CreatedAt = %v, want %v", obs.CreatedAt, clock)
	}
}

func TestCreateObservationClientID(t *testing.T) {
	repo := &mockObservationRepository{}
	svc := NewObservationService(repo, testOptions())

	id := newUUIDv7At(clock.Add(-time.Minute)).String()
	obs, err := svc.CreateObservation(context.Background(), &models.CreateObservationRequest{
		ID:        &id,
		DeviceID:  "pi-1",
		Timestamp: "2026-03-08T11:59:00Z",
	})
	if err != nil {
		t.Fatalf("CreateObservation() error = %v", err)
	}
	if obs.ID != id {
		t.Errorf("ID = %s, want client id %s", obs.ID, id)
	}
}

func TestCreateObservationRejects(t *testing.T) {
	v4 := "6f1c2a8e-2b7d-4c41-9f55-0d6a1f0b3c11"
	tests := []struct {
		name    string
		req     models.CreateObservationRequest
		wantErr error
	}{
		{
			name:    "not rfc3339",
			req:     models.CreateObservationRequest{Timestamp: "08/03/2026 10:00"},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "two minutes ahead",
			req:     models.CreateObservationRequest{Timestamp: "2026-03-08T12:02:00Z"},
			wantErr: ErrFutureTimestamp,
		},
		{
			name:    "uuid v4",
			req:     models.CreateObservationRequest{ID: &v4, Timestamp: "2026-03-08T11:00:00Z"},
			wantErr: ErrNotUUIDv7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockObservationRepository{}
			svc := NewObservationService(repo, testOptions())

			_, err := svc.CreateObservation(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(repo.created) != 0 {
				t.Error("rejected observation reached the store")
			}
		})
	}
}

func TestCreateObservationWithinSkew(t *testing.T) {
	svc := NewObservationService(&mockObservationRepository{}, testOptions())

	_, err := svc.CreateObservation(context.Background(), &models.CreateObservationRequest{
		Timestamp: "2026-03-08T12:00:45Z",
	})
	if err != nil {
		t.Errorf("45s ahead should be accepted, got %v", err)
	}
}

func TestListObservationsUsesWindow(t *testing.T) {
	repo := &mockObservationRepository{}
	svc := NewObservationService(repo, testOptions())

	if _, err := svc.ListObservations(context.Background(), 0, "all"); err != nil {
		t.Fatalf("ListObservations() error = %v", err)
	}
	if !repo.lastStart.Equal(clock.AddDate(0, 0, -30)) {
		t.Errorf("start = %v, want 30 days back", repo.lastStart)
	}
	if repo.lastDevice != "" {
		t.Errorf("device = %q, want unfiltered", repo.lastDevice)
	}
}

func TestNormalizeFlagsNeverNil(t *testing.T) {
	if got := NormalizeFlags(nil); got == nil || len(got) != 0 {
		t.Errorf("NormalizeFlags(nil) = %#v, want empty slice", got)
	}
}
